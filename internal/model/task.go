package model

type TaskID = string

// Task is the only entity of the task list. Tasks are matched by ID only.
type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CloneTasks returns a copy of ts that never aliases the input, and is
// non-nil so it encodes as [] rather than null.
func CloneTasks(ts []Task) []Task {
	out := make([]Task, len(ts))
	copy(out, ts)
	return out
}
