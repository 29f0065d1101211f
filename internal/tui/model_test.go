package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/persistence/memory"
	"github.com/labj86/calorie-tracker/internal/session"
)

var owner = domain.Owner{TenantID: "local", UserID: "tester"}

func newTestModel(t *testing.T) (Model, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	sessions := session.NewManager(repo, logger.Nop())
	t.Cleanup(sessions.Close)

	s, err := sessions.Get(context.Background(), owner)
	require.NoError(t, err)
	return New(context.Background(), s), repo
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	right    = tea.KeyMsg{Type: tea.KeyRight}
)

func TestCategoryCyclesThroughRegistry(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, right)
	require.Equal(t, domain.CategoryExercise, m.session.Form.Draft().Category)
	require.Equal(t, "Save exercise", m.session.Form.SubmitLabel())

	m = press(t, m, right)
	require.Equal(t, domain.CategoryFood, m.session.Form.Draft().Category)
}

func TestTypingEditsDraftAndSubmitSaves(t *testing.T) {
	m, repo := newTestModel(t)
	firstID := m.session.Form.Draft().ID

	m = press(t, m, tab, typed("Salad"), tab, typed("250"))
	draft := m.session.Form.Draft()
	require.Equal(t, "Salad", draft.Name)
	require.Equal(t, 250.0, draft.Calories)
	require.True(t, form.Valid(draft))

	m = press(t, m, tab, enter)
	require.NoError(t, m.err)
	require.Equal(t, "saved Salad", m.status)
	require.NotEqual(t, firstID, m.session.Form.Draft().ID)
	require.Empty(t, m.name.Value())
	require.Empty(t, m.calories.Value())
	require.Equal(t, focusCategory, m.focus)

	saved, err := repo.List(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{{ID: firstID, Category: domain.CategoryFood, Name: "Salad", Calories: 250}}, saved)
	require.Contains(t, m.View(), "Consumed 250")
}

func TestSubmitIsRejectedWhileInvalid(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, tab, typed("Salad"), tab, tab, enter)
	require.ErrorIs(t, m.err, form.ErrInvalidDraft)

	saved, err := repo.List(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, saved)
}

func TestListSelectsForEditAndDeletes(t *testing.T) {
	m, repo := newTestModel(t)
	m = press(t, m, tab, typed("Running"), tab, typed("300"), tab, enter)

	m = press(t, m, shiftTab)
	require.Equal(t, focusList, m.focus)

	m = press(t, m, enter)
	require.Equal(t, "Running", m.name.Value())
	require.Equal(t, "300", m.calories.Value())
	require.Equal(t, focusName, m.focus)

	m = press(t, m, shiftTab, shiftTab, typed("d"))
	require.Equal(t, focusList, m.focus)
	require.Equal(t, "deleted Running", m.status)

	saved, err := repo.List(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, saved)
	require.Contains(t, m.View(), "No activities yet")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
