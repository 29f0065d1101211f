//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/events"
)

func TestRepositoryRoundTripWritesOutbox(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool)

	owner := domain.Owner{TenantID: uuid.NewString(), UserID: uuid.NewString()}
	salad := domain.Activity{ID: uuid.NewString(), Category: domain.CategoryFood, Name: "Salad", Calories: 250}
	running := domain.Activity{ID: uuid.NewString(), Category: domain.CategoryExercise, Name: "Running", Calories: 300}

	require.NoError(t, repo.Save(ctx, owner, salad))
	require.NoError(t, repo.Save(ctx, owner, running))

	salad.Calories = 200
	require.NoError(t, repo.Save(ctx, owner, salad))

	list, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{salad, running}, list)

	require.NoError(t, repo.Delete(ctx, owner, running.ID))
	require.ErrorIs(t, repo.Delete(ctx, owner, running.ID), domain.ErrActivityNotFound)

	require.NoError(t, repo.Clear(ctx, owner))
	list, err = repo.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)

	rows, err := pool.Query(ctx, `SELECT event_type FROM outbox WHERE tenant_id=$1 ORDER BY event_id`, owner.TenantID)
	require.NoError(t, err)
	defer rows.Close()

	var types []string
	for rows.Next() {
		var eventType string
		require.NoError(t, rows.Scan(&eventType))
		types = append(types, eventType)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{
		events.TypeActivitySaved,
		events.TypeActivitySaved,
		events.TypeActivitySaved,
		events.TypeActivityDeleted,
		events.TypeActivitiesCleared,
	}, types)
}

func TestRepositoryIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	repo := NewRepository(pool)

	alice := domain.Owner{TenantID: uuid.NewString(), UserID: "alice"}
	other := domain.Owner{TenantID: uuid.NewString(), UserID: "alice"}

	require.NoError(t, repo.Save(ctx, alice, domain.Activity{ID: "a", Category: 1, Name: "Salad", Calories: 250}))

	list, err := repo.List(ctx, other)
	require.NoError(t, err)
	require.Empty(t, list)
}

func startPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("calories"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	contents, err := os.ReadFile(resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)

	return pool
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
