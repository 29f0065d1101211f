package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/labj86/calorie-tracker/internal/domain"
)

func TestRepositoryKeepsOrderAndOwners(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	alice := domain.Owner{TenantID: "t1", UserID: "alice"}
	bob := domain.Owner{TenantID: "t1", UserID: "bob"}

	require.NoError(t, repo.Save(ctx, alice, domain.Activity{ID: "1", Category: 1, Name: "Salad", Calories: 250}))
	require.NoError(t, repo.Save(ctx, alice, domain.Activity{ID: "2", Category: 2, Name: "Running", Calories: 300}))
	require.NoError(t, repo.Save(ctx, alice, domain.Activity{ID: "1", Category: 1, Name: "Salad", Calories: 200}))
	require.NoError(t, repo.Save(ctx, bob, domain.Activity{Category: 1, Name: "Juice", Calories: 90}))

	list, err := repo.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1", list[0].ID)
	require.Equal(t, 200.0, list[0].Calories)

	bobs, err := repo.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	require.NotEmpty(t, bobs[0].ID)
}

func TestRepositoryDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	owner := domain.Owner{TenantID: "t1", UserID: "alice"}

	require.NoError(t, repo.Save(ctx, owner, domain.Activity{ID: "1", Name: "Salad", Calories: 250}))
	require.NoError(t, repo.Save(ctx, owner, domain.Activity{ID: "2", Name: "Juice", Calories: 90}))

	require.NoError(t, repo.Delete(ctx, owner, "1"))
	require.ErrorIs(t, repo.Delete(ctx, owner, "1"), domain.ErrActivityNotFound)

	list, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{{ID: "2", Name: "Juice", Calories: 90}}, list)

	require.NoError(t, repo.Clear(ctx, owner))
	list, err = repo.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)
}
