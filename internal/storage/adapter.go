package storage

import (
	"context"
	"encoding/json"
	"strings"

	"tasklist/internal/jsonlog"
	"tasklist/internal/model"
)

const DefaultKey = "tasklist_tasks"

// Adapter persists the whole task collection into one slot key. It never
// returns errors: read failures degrade to an empty list, write failures
// leave the caller's in-memory state as the only copy. Both are logged.
type Adapter struct {
	slot   Slot
	key    string
	logger *jsonlog.Logger
}

func NewAdapter(slot Slot, key string, logger *jsonlog.Logger) *Adapter {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = jsonlog.Discard()
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

func (a *Adapter) Key() string { return a.key }

func (a *Adapter) Load(ctx context.Context) []model.Task {
	b, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		a.logger.Error("tasks_load_failed", map[string]any{"key": a.key, "error": err})
		return []model.Task{}
	}
	if !ok {
		return []model.Task{}
	}

	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		a.logger.Error("tasks_parse_failed", map[string]any{"key": a.key, "error": err})
		return []model.Task{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

func (a *Adapter) Save(ctx context.Context, tasks []model.Task) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		a.logger.Error("tasks_encode_failed", map[string]any{"key": a.key, "error": err})
		return
	}
	if err := a.slot.Set(ctx, a.key, b); err != nil {
		a.logger.Error("tasks_save_failed", map[string]any{"key": a.key, "count": len(tasks), "error": err})
	}
}
