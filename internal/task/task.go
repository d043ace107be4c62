package task

import (
	"errors"
	"strings"

	"tasklist/internal/model"
)

var (
	ErrEmptyText = errors.New("task description cannot be empty")
	ErrNotFound  = errors.New("no task with id")
)

// ValidateText trims text and rejects an empty result.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	return trimmed, nil
}

// NewTask builds a fresh, not yet completed task. It validates text first.
func NewTask(text string) (model.Task, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:        NewID(),
		Text:      trimmed,
		Completed: false,
	}, nil
}
