package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/events"
)

// TotalsHandler projects activity events into per-owner calorie totals.
type TotalsHandler struct {
	mu     sync.RWMutex
	owners map[domain.Owner][]domain.Activity
}

// NewTotalsHandler constructs an empty projection.
func NewTotalsHandler() *TotalsHandler {
	return &TotalsHandler{owners: make(map[domain.Owner][]domain.Activity)}
}

// Handle applies a single event. Unknown event types are ignored.
func (h *TotalsHandler) Handle(_ context.Context, msg Message) error {
	switch msg.EventType {
	case events.TypeActivitySaved:
		var evt events.ActivitySaved
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		owner := ownerOf(msg, evt.TenantID, evt.UserID)
		h.mu.Lock()
		h.owners[owner] = upsert(h.owners[owner], domain.Activity{
			ID:       evt.ActivityID,
			Category: evt.Category,
			Name:     evt.Name,
			Calories: evt.Calories,
		})
		h.mu.Unlock()
		h.publish(owner.TenantID)
	case events.TypeActivityDeleted:
		var evt events.ActivityDeleted
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		owner := ownerOf(msg, evt.TenantID, evt.UserID)
		h.mu.Lock()
		h.owners[owner] = remove(h.owners[owner], evt.ActivityID)
		h.mu.Unlock()
		h.publish(owner.TenantID)
	case events.TypeActivitiesCleared:
		var evt events.ActivitiesCleared
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		owner := ownerOf(msg, evt.TenantID, evt.UserID)
		h.mu.Lock()
		delete(h.owners, owner)
		h.mu.Unlock()
		h.publish(owner.TenantID)
	}
	return nil
}

// Totals returns the projected totals for owner.
func (h *TotalsHandler) Totals(owner domain.Owner) domain.Totals {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return domain.Summarize(h.owners[owner])
}

// TenantTotals sums every owner in the tenant.
func (h *TotalsHandler) TenantTotals(tenantID string) domain.Totals {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var all []domain.Activity
	for owner, activities := range h.owners {
		if owner.TenantID == tenantID {
			all = append(all, activities...)
		}
	}
	return domain.Summarize(all)
}

func (h *TotalsHandler) publish(tenantID string) {
	t := h.TenantTotals(tenantID)
	caloriesGauge.WithLabelValues(tenantID, "consumed").Set(t.Consumed)
	caloriesGauge.WithLabelValues(tenantID, "burned").Set(t.Burned)
	caloriesGauge.WithLabelValues(tenantID, "net").Set(t.Net)
}

// ownerOf prefers the payload's owner and falls back to the record headers.
func ownerOf(msg Message, tenantID, userID string) domain.Owner {
	if tenantID == "" {
		tenantID = msg.TenantID
	}
	if userID == "" {
		userID = msg.UserID
	}
	return domain.Owner{TenantID: tenantID, UserID: userID}
}

func upsert(list []domain.Activity, a domain.Activity) []domain.Activity {
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			return list
		}
	}
	return append(list, a)
}

func remove(list []domain.Activity, id string) []domain.Activity {
	out := list[:0]
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
