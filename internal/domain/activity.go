// Package domain defines the calorie tracker's records and the persistence contract.
package domain

import (
	"context"
	"errors"
	"math"
)

// ErrActivityNotFound is returned when an activity cannot be located.
var ErrActivityNotFound = errors.New("activity not found")

// Activity is a single logged food intake or exercise.
type Activity struct {
	ID       string
	Category int
	Name     string
	Calories float64
}

// Owner scopes activities to a tenant and user.
type Owner struct {
	TenantID string
	UserID   string
}

// String renders the owner as tenant/user, used as a map key and log field.
func (o Owner) String() string {
	return o.TenantID + "/" + o.UserID
}

// Totals summarises calories for a set of activities.
type Totals struct {
	Consumed float64
	Burned   float64
	Net      float64
}

// Summarize adds food calories to Consumed and exercise calories to Burned.
// Non-finite calorie values are ignored.
func Summarize(activities []Activity) Totals {
	var totals Totals
	for _, a := range activities {
		if math.IsNaN(a.Calories) || math.IsInf(a.Calories, 0) {
			continue
		}
		switch a.Category {
		case CategoryFood:
			totals.Consumed += a.Calories
		case CategoryExercise:
			totals.Burned += a.Calories
		}
	}
	totals.Net = totals.Consumed - totals.Burned
	return totals
}

// Repository captures persistence operations for an owner's activity list.
// List returns activities in insertion order.
type Repository interface {
	List(ctx context.Context, owner Owner) ([]Activity, error)
	Save(ctx context.Context, owner Owner, activity Activity) error
	Delete(ctx context.Context, owner Owner, activityID string) error
	Clear(ctx context.Context, owner Owner) error
}
