// Package memory stores activities in process for local development and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/labj86/calorie-tracker/internal/domain"
)

// Repository implements domain.Repository with per-owner ordered slices.
type Repository struct {
	mu         sync.RWMutex
	activities map[domain.Owner][]domain.Activity
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{activities: make(map[domain.Owner][]domain.Activity)}
}

// List implements domain.Repository.
func (r *Repository) List(ctx context.Context, owner domain.Owner) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slice := r.activities[owner]
	out := make([]domain.Activity, len(slice))
	copy(out, slice)
	return out, nil
}

// Save implements domain.Repository. Activities without an id get one.
func (r *Repository) Save(ctx context.Context, owner domain.Owner, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(activity.ID) == "" {
		activity.ID = uuid.NewString()
	}

	slice := r.activities[owner]
	for i := range slice {
		if slice[i].ID == activity.ID {
			slice[i] = activity
			return nil
		}
	}
	r.activities[owner] = append(slice, activity)
	return nil
}

// Delete implements domain.Repository.
func (r *Repository) Delete(ctx context.Context, owner domain.Owner, activityID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slice := r.activities[owner]
	for i := range slice {
		if slice[i].ID == activityID {
			r.activities[owner] = append(slice[:i:i], slice[i+1:]...)
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

// Clear implements domain.Repository.
func (r *Repository) Clear(ctx context.Context, owner domain.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.activities, owner)
	return nil
}
