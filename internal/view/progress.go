package view

import "tasklist/internal/model"

type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// ComputeProgress counts over the unfiltered collection. An empty list is 0%.
func ComputeProgress(tasks []model.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// Ratio is Percent scaled to [0, 1], for progress bars.
func (p Progress) Ratio() float64 {
	return p.Percent / 100
}
