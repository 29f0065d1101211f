// Package store holds the activity list and the active selection behind a reducer.
package store

import "github.com/labj86/calorie-tracker/internal/domain"

// Action type names.
const (
	TypeSaveActivity   = "save-activity"
	TypeSetActiveID    = "set-active-id"
	TypeDeleteActivity = "delete-activity"
	TypeRestartApp     = "restart-app"
)

// State is the full tracker state. Values returned by the store are copies.
type State struct {
	Activities []domain.Activity
	ActiveID   string
}

// Find returns the first activity with the given id.
func (s State) Find(id string) (domain.Activity, bool) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

func (s State) clone() State {
	out := State{ActiveID: s.ActiveID}
	if s.Activities != nil {
		out.Activities = make([]domain.Activity, len(s.Activities))
		copy(out.Activities, s.Activities)
	}
	return out
}

// Action is an event the reducer understands.
type Action interface {
	Type() string
}

// SaveActivity inserts a new activity or replaces the one with the same id.
type SaveActivity struct {
	Activity domain.Activity
}

// SetActiveID selects an activity for editing.
type SetActiveID struct {
	ID string
}

// DeleteActivity removes an activity.
type DeleteActivity struct {
	ID string
}

// RestartApp clears all activities.
type RestartApp struct{}

func (SaveActivity) Type() string   { return TypeSaveActivity }
func (SetActiveID) Type() string    { return TypeSetActiveID }
func (DeleteActivity) Type() string { return TypeDeleteActivity }
func (RestartApp) Type() string     { return TypeRestartApp }

// Reduce applies action to state and returns the next state. The input is not modified.
func Reduce(state State, action Action) State {
	next := state.clone()

	switch a := action.(type) {
	case SaveActivity:
		replaced := false
		for i := range next.Activities {
			if next.Activities[i].ID == a.Activity.ID {
				next.Activities[i] = a.Activity
				replaced = true
				break
			}
		}
		if !replaced {
			next.Activities = append(next.Activities, a.Activity)
		}
		next.ActiveID = ""
	case SetActiveID:
		next.ActiveID = a.ID
	case DeleteActivity:
		kept := next.Activities[:0]
		for _, activity := range next.Activities {
			if activity.ID != a.ID {
				kept = append(kept, activity)
			}
		}
		next.Activities = kept
		if next.ActiveID == a.ID {
			next.ActiveID = ""
		}
	case RestartApp:
		next = State{}
	}

	return next
}
