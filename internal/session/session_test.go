package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/persistence/memory"
	"github.com/labj86/calorie-tracker/internal/store"
)

var owner = domain.Owner{TenantID: "tenant-1", UserID: "user-1"}

func TestGetLoadsSavedActivitiesOnce(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.Save(ctx, owner, domain.Activity{ID: "A", Category: 2, Name: "Running", Calories: 300}))

	m := NewManager(repo, logger.Nop())
	t.Cleanup(m.Close)

	s, err := m.Get(ctx, owner)
	require.NoError(t, err)
	require.Len(t, s.Store.Snapshot().Activities, 1)

	again, err := m.Get(ctx, owner)
	require.NoError(t, err)
	require.Same(t, s, again)
	require.Len(t, m.sessions, 1)
}

func TestFormSubmitPersistsThroughRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	m := NewManager(repo, logger.Nop(), WithFormOptions(form.WithIDGenerator(func() string { return "fixed" })))
	t.Cleanup(m.Close)

	s, err := m.Get(ctx, owner)
	require.NoError(t, err)

	_, err = s.Form.Edit(form.FieldName, "Salad")
	require.NoError(t, err)
	_, err = s.Form.Edit(form.FieldCalories, "250")
	require.NoError(t, err)
	_, err = s.Form.Submit(ctx)
	require.NoError(t, err)

	saved, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{{ID: "fixed", Category: 1, Name: "Salad", Calories: 250}}, saved)

	require.NoError(t, s.Store.Dispatch(ctx, store.DeleteActivity{ID: "fixed"}))
	saved, err = repo.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, saved)
}

func TestDeleteMissingActivityKeepsState(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memory.NewRepository(), logger.Nop())
	t.Cleanup(m.Close)

	s, err := m.Get(ctx, owner)
	require.NoError(t, err)

	err = s.Store.Dispatch(ctx, store.DeleteActivity{ID: "ghost"})
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestRestartClearsRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.Save(ctx, owner, domain.Activity{ID: "A", Category: 1, Name: "Salad", Calories: 250}))

	m := NewManager(repo, logger.Nop())
	t.Cleanup(m.Close)
	s, err := m.Get(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, s.Store.Dispatch(ctx, store.RestartApp{}))

	saved, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, saved)
	require.Empty(t, s.Store.Snapshot().Activities)
}

func TestGetSurfacesLoadErrors(t *testing.T) {
	m := NewManager(failingRepo{}, logger.Nop())

	_, err := m.Get(context.Background(), owner)
	require.ErrorIs(t, err, errLoad)
	require.Empty(t, m.sessions)
}

var errLoad = errors.New("database unavailable")

type failingRepo struct{}

func (failingRepo) List(context.Context, domain.Owner) ([]domain.Activity, error) {
	return nil, errLoad
}
func (failingRepo) Save(context.Context, domain.Owner, domain.Activity) error { return errLoad }
func (failingRepo) Delete(context.Context, domain.Owner, string) error        { return errLoad }
func (failingRepo) Clear(context.Context, domain.Owner) error                 { return errLoad }
