// Package tui renders the activity form and the saved activity list in a terminal.
package tui

import (
	"context"
	"math"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
	"github.com/labj86/calorie-tracker/internal/session"
	"github.com/labj86/calorie-tracker/internal/store"
)

type focus int

const (
	focusCategory focus = iota
	focusName
	focusCalories
	focusSubmit
	focusList
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Delete key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
	Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "category")),
	Right:  key.NewBinding(key.WithKeys("right")),
	Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "move")),
	Down:   key.NewBinding(key.WithKeys("down")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save / edit")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// Model is the bubbletea model for one owner's session.
type Model struct {
	ctx      context.Context
	session  *session.Session
	focus    focus
	name     textinput.Model
	calories textinput.Model
	cursor   int
	status   string
	err      error
}

// New builds a Model over s. Dispatches made from the UI use ctx.
func New(ctx context.Context, s *session.Session) Model {
	name := textinput.New()
	name.Placeholder = "Food, Exercise, Weights, Bike..."
	name.Prompt = ""

	calories := textinput.New()
	calories.Placeholder = "0"
	calories.Prompt = ""

	m := Model{ctx: ctx, session: s, name: name, calories: calories}
	m.fillInputs()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Next):
		m.setFocus((m.focus + 1) % (focusList + 1))
		return m, nil
	case key.Matches(keyMsg, keys.Prev):
		m.setFocus((m.focus + focusList) % (focusList + 1))
		return m, nil
	}

	switch m.focus {
	case focusCategory:
		switch {
		case key.Matches(keyMsg, keys.Left):
			m.cycleCategory(-1)
		case key.Matches(keyMsg, keys.Right):
			m.cycleCategory(1)
		}
		return m, nil
	case focusSubmit:
		if key.Matches(keyMsg, keys.Enter) {
			m.submit()
		}
		return m, nil
	case focusList:
		m.updateList(keyMsg)
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		before := m.name.Value()
		m.name, cmd = m.name.Update(msg)
		if m.name.Value() != before {
			m.edit(form.FieldName, m.name.Value())
		}
	case focusCalories:
		before := m.calories.Value()
		m.calories, cmd = m.calories.Update(msg)
		if m.calories.Value() != before {
			m.edit(form.FieldCalories, m.calories.Value())
		}
	}
	return *m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) {
	activities := m.session.Store.Snapshot().Activities
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(activities)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.cursor >= len(activities) {
			return
		}
		if err := m.session.Store.Dispatch(m.ctx, store.SetActiveID{ID: activities[m.cursor].ID}); err != nil {
			m.err = err
			return
		}
		m.fillInputs()
		m.status = "editing " + activities[m.cursor].Name
		m.setFocus(focusName)
	case key.Matches(msg, keys.Delete):
		if m.cursor >= len(activities) {
			return
		}
		target := activities[m.cursor]
		if err := m.session.Store.Dispatch(m.ctx, store.DeleteActivity{ID: target.ID}); err != nil {
			m.err = err
			return
		}
		m.status = "deleted " + target.Name
		m.err = nil
		if m.cursor > 0 && m.cursor >= len(activities)-1 {
			m.cursor--
		}
	}
}

func (m *Model) cycleCategory(delta int) {
	categories := domain.Categories()
	current := m.session.Form.Draft().Category
	idx := 0
	for i, c := range categories {
		if c.ID == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(categories)) % len(categories)
	m.edit(form.FieldCategory, strconv.Itoa(categories[idx].ID))
}

func (m *Model) edit(field form.Field, raw string) {
	if _, err := m.session.Form.Edit(field, raw); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

func (m *Model) submit() {
	saved, err := m.session.Form.Submit(m.ctx)
	if err != nil {
		m.status = ""
		m.err = err
		return
	}
	m.err = nil
	m.status = "saved " + saved.Name
	m.fillInputs()
	m.setFocus(focusCategory)
}

// fillInputs copies the draft into the text inputs. NaN calories keep
// whatever the user typed.
func (m *Model) fillInputs() {
	draft := m.session.Form.Draft()
	m.name.SetValue(draft.Name)
	switch {
	case math.IsNaN(draft.Calories):
	case draft.Calories == 0:
		m.calories.SetValue("")
	default:
		m.calories.SetValue(strconv.FormatFloat(draft.Calories, 'f', -1, 64))
	}
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.name.Blur()
	m.calories.Blur()
	switch f {
	case focusName:
		m.name.Focus()
	case focusCalories:
		m.calories.Focus()
	}
}
