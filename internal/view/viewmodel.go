package view

import "tasklist/internal/model"

// Card is one rendered task. Draft is only meaningful while Editing.
type Card struct {
	Task    model.Task `json:"task"`
	Editing bool       `json:"editing"`
	Draft   string     `json:"draft,omitempty"`
}

type FilterTab struct {
	Filter Filter `json:"filter"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Count  int    `json:"count"`
}

// ViewModel is everything a renderer needs. It holds no references back
// into the store.
type ViewModel struct {
	Filter   Filter      `json:"filter"`
	Filters  []FilterTab `json:"filters"`
	Cards    []Card      `json:"cards"`
	Empty    bool        `json:"empty"`
	Progress Progress    `json:"progress"`
	Notices  []Notice    `json:"notices"`
}

// Build computes the view model from the full collection. drafts maps the
// ids of cards in edit mode to their draft text.
func Build(tasks []model.Task, filter Filter, drafts map[model.TaskID]string, notices []Notice) ViewModel {
	filtered := Apply(tasks, filter)

	cards := make([]Card, 0, len(filtered))
	for _, t := range filtered {
		draft, editing := drafts[t.ID]
		cards = append(cards, Card{Task: t, Editing: editing, Draft: draft})
	}

	tabs := make([]FilterTab, 0, len(Filters))
	for _, f := range Filters {
		tabs = append(tabs, FilterTab{
			Filter: f,
			Label:  f.Label(),
			Active: f == filter,
			Count:  len(Apply(tasks, f)),
		})
	}

	if notices == nil {
		notices = []Notice{}
	}

	return ViewModel{
		Filter:   filter,
		Filters:  tabs,
		Cards:    cards,
		Empty:    len(cards) == 0,
		Progress: ComputeProgress(tasks),
		Notices:  notices,
	}
}
