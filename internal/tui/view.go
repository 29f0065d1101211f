package tui

import (
	"fmt"
	"strings"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calorie tracker"))
	b.WriteString("\n")
	b.WriteString(m.formView())
	b.WriteString("\n\n")
	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(totalsLine(domain.Summarize(m.session.Store.Snapshot().Activities)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(okStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab next • ←/→ category • enter save/edit • d delete • esc quit"))
	return b.String()
}

func (m Model) formView() string {
	draft := m.session.Form.Draft()

	parts := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		label := " " + c.Name + " "
		if c.ID == draft.Category {
			label = selectedStyle.Render(label)
		} else {
			label = hintStyle.Render(label)
		}
		parts = append(parts, label)
	}
	category := strings.Join(parts, " ")
	if m.focus == focusCategory {
		category = "> " + category
	} else {
		category = "  " + category
	}

	button := disabledStyle
	if form.Valid(draft) {
		button = buttonStyle
		if m.focus == focusSubmit {
			button = focusedButton
		}
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Category") + category + "\n")
	b.WriteString(labelStyle.Render("Activity") + cursorMark(m.focus == focusName) + m.name.View() + "\n")
	b.WriteString(labelStyle.Render("Calories") + cursorMark(m.focus == focusCalories) + m.calories.View() + "\n")
	b.WriteString(button.Render(m.session.Form.SubmitLabel()))
	return b.String()
}

func (m Model) listView() string {
	activities := m.session.Store.Snapshot().Activities
	if len(activities) == 0 {
		return panelStyle.Render(hintStyle.Render("No activities yet"))
	}
	lines := make([]string, 0, len(activities))
	for i, a := range activities {
		name := "?"
		if c, ok := domain.CategoryByID(a.Category); ok {
			name = c.Name
		}
		line := fmt.Sprintf("%-9s %-24s %6.0f kcal", name, a.Name, a.Calories)
		if m.focus == focusList && i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func totalsLine(t domain.Totals) string {
	return fmt.Sprintf("Consumed %.0f • Burned %.0f • Net %.0f", t.Consumed, t.Burned, t.Net)
}

func cursorMark(focused bool) string {
	if focused {
		return "> "
	}
	return "  "
}
