// Package tui is the terminal front end. Bubbletea's Update loop is the
// event loop: each key press runs one controller action to completion and
// the next View re-renders from the controller's view model.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/model"
	"tasklist/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// expireMsg fires once a notice's TTL has passed.
type expireMsg struct{}

type Model struct {
	ctx context.Context
	c   *view.Controller

	keys     keyMap
	help     help.Model
	progress progress.Model
	addInput textinput.Model
	editor   textinput.Model

	mode      mode
	cursor    int
	editingID model.TaskID
	vm        view.ViewModel

	width int
}

func NewModel(ctx context.Context, c *view.Controller) *Model {
	add := textinput.New()
	add.Placeholder = "What needs doing?"
	add.Prompt = "+ "
	add.CharLimit = 280

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = 280

	m := &Model{
		ctx:      ctx,
		c:        c,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		addInput: add,
		editor:   editor,
		mode:     modeBrowse,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(10, msg.Width-12)
		return m, nil

	case expireMsg:
		m.c.ExpireNotices()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.mode {
		case modeAdd:
			cmd = m.updateAdd(msg)
		case modeEdit:
			cmd = m.updateEdit(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m.addInput.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if card, ok := m.selected(); ok {
			m.c.Toggle(m.ctx, card.Task.ID)
			return m.afterAction()
		}
	case key.Matches(msg, m.keys.Edit):
		if card, ok := m.selected(); ok {
			return m.startEdit(card.Task.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if card, ok := m.selected(); ok {
			m.c.Delete(m.ctx, card.Task.ID)
			return m.afterAction()
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.c.Filter().Next())
	case key.Matches(msg, m.keys.All):
		m.setFilter(view.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(view.FilterActive)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(view.FilterCompleted)
	}
	return nil
}

func (m *Model) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.addInput.Blur()
		m.mode = modeBrowse
		return nil
	case key.Matches(msg, m.keys.Save):
		if m.c.Add(m.ctx, m.addInput.Value()) {
			m.addInput.Reset()
			m.addInput.Blur()
			m.mode = modeBrowse
		}
		return m.afterAction()
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	id := m.editingID
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.c.CommitEdit(m.ctx, id, m.editor.Value())
		m.stopEditing()
		return m.afterAction()
	case key.Matches(msg, m.keys.Cancel):
		m.c.CancelEdit(id)
		m.stopEditing()
		m.refresh()
		return nil
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown || msg.Type == tea.KeyTab:
		// Leaving the field without saving is a blur.
		m.c.Blur(id, m.editor.Value())
		m.stopEditing()
		m.refresh()
		switch msg.Type {
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		}
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) startEdit(id model.TaskID) tea.Cmd {
	if !m.c.BeginEdit(id) {
		return nil
	}
	draft, _ := m.c.Editing(id)
	m.editingID = id
	m.editor.SetValue(draft)
	m.editor.CursorEnd()
	m.mode = modeEdit
	m.refresh()
	return m.editor.Focus()
}

func (m *Model) stopEditing() {
	m.editor.Blur()
	m.editor.Reset()
	m.editingID = ""
	m.mode = modeBrowse
}

func (m *Model) setFilter(f view.Filter) {
	m.c.SetFilter(f)
	m.cursor = 0
	m.refresh()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.vm.Cards) {
		m.cursor = len(m.vm.Cards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (view.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.vm.Cards) {
		return view.Card{}, false
	}
	return m.vm.Cards[m.cursor], true
}

func (m *Model) refresh() {
	m.vm = m.c.ViewModel()
	m.clampCursor()
}

// afterAction re-renders and schedules expiry for the notice the action
// may have raised.
func (m *Model) afterAction() tea.Cmd {
	m.refresh()
	if len(m.vm.Notices) == 0 {
		return nil
	}
	return tea.Tick(m.c.Notifier().TTL(), func(time.Time) tea.Msg { return expireMsg{} })
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(m.addInput.View())
	} else {
		b.WriteString(mutedStyle.Render("press a to add a task"))
	}
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(m.vm.Filters))
	for _, tab := range m.vm.Filters {
		label := fmt.Sprintf("%s (%d)", tab.Label, tab.Count)
		if tab.Active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	p := m.vm.Progress
	b.WriteString(m.progress.ViewAs(p.Ratio()))
	b.WriteString(fmt.Sprintf(" %d/%d (%.0f%%)", p.Completed, p.Total, p.Percent))
	b.WriteString("\n\n")

	if m.vm.Empty {
		b.WriteString(mutedStyle.Render("Nothing here yet."))
		b.WriteString("\n")
	}
	for i, card := range m.vm.Cards {
		b.WriteString(m.renderCard(i, card))
		b.WriteString("\n")
	}

	if len(m.vm.Notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.vm.Notices {
			if n.Kind == view.NoticeFailure {
				b.WriteString(failureStyle.Render(n.Message))
			} else {
				b.WriteString(successStyle.Render(n.Message))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderCard(i int, card view.Card) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if card.Task.Completed {
		box = "[x]"
	}

	var text string
	switch {
	case m.mode == modeEdit && card.Task.ID == m.editingID:
		text = m.editor.View()
	case card.Editing:
		text = draftStyle.Render(card.Draft + " (unsaved)")
	case card.Task.Completed:
		text = completedStyle.Render(card.Task.Text)
	default:
		text = card.Task.Text
	}
	return cursor + box + " " + text
}
