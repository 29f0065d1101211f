// Package postgres persists activities in PostgreSQL and records outbox events
// in the same transaction.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/events"
)

// Repository provides Postgres-backed persistence for activities and outbox events.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the owner's activities in insertion order.
func (r *Repository) List(ctx context.Context, owner domain.Owner) ([]domain.Activity, error) {
	const query = `SELECT activity_id, category, name, calories
        FROM activities WHERE tenant_id=$1 AND user_id=$2
        ORDER BY seq`

	tx, err := r.begin(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, query, owner.TenantID, owner.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Category, &a.Name, &a.Calories); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// Save upserts the activity and records an activity.saved event.
func (r *Repository) Save(ctx context.Context, owner domain.Owner, activity domain.Activity) error {
	tx, err := r.begin(ctx, owner)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsert = `INSERT INTO activities (tenant_id, user_id, activity_id, category, name, calories)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (tenant_id, user_id, activity_id)
        DO UPDATE SET category=EXCLUDED.category, name=EXCLUDED.name, calories=EXCLUDED.calories, updated_at=NOW()`

	if _, err := tx.Exec(ctx, upsert, owner.TenantID, owner.UserID, activity.ID, activity.Category, activity.Name, activity.Calories); err != nil {
		return err
	}

	if err := r.insertOutbox(ctx, tx, owner, activity.ID, events.TypeActivitySaved, events.ActivitySaved{
		ActivityID: activity.ID,
		TenantID:   owner.TenantID,
		UserID:     owner.UserID,
		Category:   activity.Category,
		Name:       activity.Name,
		Calories:   activity.Calories,
		OccurredAt: r.now(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the activity and records an activity.deleted event.
func (r *Repository) Delete(ctx context.Context, owner domain.Owner, activityID string) error {
	tx, err := r.begin(ctx, owner)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM activities WHERE tenant_id=$1 AND user_id=$2 AND activity_id=$3`,
		owner.TenantID, owner.UserID, activityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}

	if err := r.insertOutbox(ctx, tx, owner, activityID, events.TypeActivityDeleted, events.ActivityDeleted{
		ActivityID: activityID,
		TenantID:   owner.TenantID,
		UserID:     owner.UserID,
		OccurredAt: r.now(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Clear removes all of the owner's activities and records an activities.cleared event.
func (r *Repository) Clear(ctx context.Context, owner domain.Owner) error {
	tx, err := r.begin(ctx, owner)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM activities WHERE tenant_id=$1 AND user_id=$2`, owner.TenantID, owner.UserID); err != nil {
		return err
	}

	if err := r.insertOutbox(ctx, tx, owner, owner.UserID, events.TypeActivitiesCleared, events.ActivitiesCleared{
		TenantID:   owner.TenantID,
		UserID:     owner.UserID,
		OccurredAt: r.now(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// begin opens a transaction scoped to the owner's tenant for row level security.
func (r *Repository) begin(ctx context.Context, owner domain.Owner) (pgx.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", owner.TenantID); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	return tx, nil
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, owner domain.Owner, aggregateID, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}

	const stmt = `INSERT INTO outbox (tenant_id, user_id, aggregate_id, event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt,
		owner.TenantID,
		owner.UserID,
		aggregateID,
		eventType,
		events.Topic,
		partitionKey(owner),
		body,
	)
	return err
}

// partitionKey keeps one owner's events ordered on a single partition.
func partitionKey(owner domain.Owner) string {
	return fmt.Sprintf("%s:%s", owner.TenantID, owner.UserID)
}
