// Package view turns user actions into task store operations and computes
// what renderers draw. It knows nothing about HTML or terminals.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"tasklist/internal/model"
	"tasklist/internal/task"
	"tasklist/internal/telemetry"
)

const (
	msgAdded   = "Task added"
	msgToggled = "Task status updated"
	msgUpdated = "Task updated"
	msgDeleted = "Task deleted"
)

type Options struct {
	// DiscardOnBlur drops the in-progress draft when an edit field loses
	// focus without a save. When false a blur keeps the card in edit mode.
	DiscardOnBlur bool
	NoticeTTL     time.Duration
	Now           func() time.Time
	// Recorder receives one activity event per applied or rejected action.
	Recorder telemetry.Recorder
}

// Controller owns transient UI state: the current filter, which cards are in
// edit mode, and pending notices. Its mutex serializes actions so concurrent
// callers behave like a single event loop.
type Controller struct {
	mu      sync.Mutex
	store   *task.Store
	notices *Notifier
	now     func() time.Time
	events  telemetry.Recorder

	filter        Filter
	drafts        map[model.TaskID]string
	discardOnBlur bool
}

func NewController(store *task.Store, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:         store,
		notices:       NewNotifier(opts.NoticeTTL),
		now:           now,
		events:        opts.Recorder,
		filter:        FilterAll,
		drafts:        map[model.TaskID]string{},
		discardOnBlur: opts.DiscardOnBlur,
	}
}

func (c *Controller) Store() *task.Store { return c.store }

func (c *Controller) Notifier() *Notifier { return c.notices }

// Add reports whether a task was created; renderers clear their input on true.
func (c *Controller) Add(ctx context.Context, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.store.Add(ctx, text)
	if err != nil {
		c.fail(err)
		c.record(telemetry.EventTaskRejected, telemetry.EventMetadata{"source": "add"})
		return false
	}
	c.succeed(msgAdded)
	c.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"id": t.ID})
	return true
}

func (c *Controller) Toggle(ctx context.Context, id model.TaskID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.store.Toggle(ctx, id)
	if !ok {
		return
	}
	c.succeed(msgToggled)
	if t.Completed {
		c.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{"id": id})
	} else {
		c.record(telemetry.EventTaskReopened, telemetry.EventMetadata{"id": id})
	}
}

func (c *Controller) Delete(ctx context.Context, id model.TaskID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.drafts, id)
	if c.store.Delete(ctx, id) {
		c.succeed(msgDeleted)
		c.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{"id": id})
	}
}

// BeginEdit puts a card in edit mode with its current text as the draft.
func (c *Controller) BeginEdit(id model.TaskID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.store.Get(id)
	if !ok {
		return false
	}
	if _, editing := c.drafts[id]; !editing {
		c.drafts[id] = t.Text
	}
	return true
}

// SetDraft records in-progress text for a card already in edit mode.
func (c *Controller) SetDraft(id model.TaskID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, editing := c.drafts[id]; editing {
		c.drafts[id] = text
	}
}

// CommitEdit saves text and always leaves edit mode, even when validation
// fails and the stored text stays as it was.
func (c *Controller) CommitEdit(ctx context.Context, id model.TaskID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.drafts, id)
	_, ok, err := c.store.Edit(ctx, id, text)
	switch {
	case err != nil:
		c.fail(err)
		c.record(telemetry.EventTaskRejected, telemetry.EventMetadata{"source": "edit", "id": id})
	case ok:
		c.succeed(msgUpdated)
		c.record(telemetry.EventTaskEdited, telemetry.EventMetadata{"id": id})
	}
}

func (c *Controller) CancelEdit(id model.TaskID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.drafts, id)
}

// Blur handles an edit field losing focus without a save. draft is the
// field's current text.
func (c *Controller) Blur(id model.TaskID, draft string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, editing := c.drafts[id]; !editing {
		return
	}
	if c.discardOnBlur {
		delete(c.drafts, id)
		return
	}
	c.drafts[id] = draft
}

func (c *Controller) Editing(id model.TaskID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.drafts[id]
	return d, ok
}

func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = f
}

func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filter
}

func (c *Controller) DismissNotice(id int) {
	c.notices.Dismiss(id)
}

// ExpireNotices drops notices past their TTL. It never touches tasks.
func (c *Controller) ExpireNotices() {
	c.notices.Expire(c.now())
}

func (c *Controller) ViewModel() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	drafts := make(map[model.TaskID]string, len(c.drafts))
	for id, d := range c.drafts {
		drafts[id] = d
	}
	return Build(c.store.List(), c.filter, drafts, c.notices.Active(c.now()))
}

func (c *Controller) succeed(msg string) {
	c.notices.Push(NoticeSuccess, msg, c.now())
}

func (c *Controller) fail(err error) {
	msg := err.Error()
	if errors.Is(err, task.ErrEmptyText) {
		msg = "Task description cannot be empty!"
	}
	c.notices.Push(NoticeFailure, msg, c.now())
}

func (c *Controller) record(et telemetry.EventType, md telemetry.EventMetadata) {
	if c.events == nil {
		return
	}
	_ = c.events.RecordEvent(et, md)
}
