package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	client := &models.User{Username: "alice", Password: "pw", Role: models.ClientRole}
	require.NoError(t, store.Users().Create(ctx, client))

	boom := errors.New("boom")
	err := store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		p := &models.Project{Title: "site", Description: "landing", Budget: 100, ClientID: client.ID}
		require.NoError(t, tx.Projects().Create(ctx, p))
		return boom
	})
	require.ErrorIs(t, err, boom)

	projects, err := store.Projects().ListByClient(ctx, client.ID, []models.ProjectStatus{models.OpenProject})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestInTxNested(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	err := store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return tx.InTx(ctx, func(ctx context.Context, inner repository.Store) error {
			return inner.Users().Create(ctx, &models.User{Username: "bob", Role: models.ContractorRole})
		})
	})
	require.NoError(t, err)

	_, err = store.Users().GetByUsername(ctx, "bob")
	assert.NoError(t, err)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	require.NoError(t, store.Users().Create(ctx, &models.User{Username: "carol", Role: models.ClientRole}))
	err := store.Users().Create(ctx, &models.User{Username: "carol", Role: models.ContractorRole})
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)

	client := &models.User{Username: "dave", Role: models.ClientRole}
	require.NoError(t, store.Users().Create(ctx, client))
	p := &models.Project{Title: "t", Description: "d", ClientID: client.ID}
	require.NoError(t, store.Projects().Create(ctx, p))

	review := models.Review{ProjectID: p.ID, ReviewerID: client.ID, TargetID: 99, Dim1: 5, Dim2: 5, Dim3: 5}
	first := review
	require.NoError(t, store.Reviews().Create(ctx, &first))
	second := review
	assert.ErrorIs(t, store.Reviews().Create(ctx, &second), repository.ErrDuplicateReview)
}
