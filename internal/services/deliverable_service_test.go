package services

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, body string) models.Upload {
	return models.Upload{Name: name, Body: strings.NewReader(body)}
}

func TestDeliverableVersioning(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	latest, err := f.deliverables.Latest(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no versions yet")

	v1, err := f.deliverables.Upload(f.ctx, contractor, p.ID, "first cut", upload("site.zip", "v1"))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	v2, err := f.deliverables.Upload(f.ctx, contractor, p.ID, "fixed header", upload("site.zip", "v2"))
	require.NoError(t, err)
	assert.NotEqual(t, v1.ID, v2.ID)
	assert.NotEqual(t, v1.FilePath, v2.FilePath, "same client name must not collide on disk")

	latest, err = f.deliverables.Latest(f.ctx, client, p.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, v2.ID, latest.ID)

	history, err := f.deliverables.History(f.ctx, contractor, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []int64{v2.ID, v1.ID}, []int64{history[0].ID, history[1].ID})

	content, err := os.ReadFile(v1.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content), "older versions are retained")
}

func TestUploadDeliverablePermissions(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	outsider := f.register(t, "outsider", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	_, err := f.deliverables.Upload(f.ctx, client, p.ID, "", upload("a.pdf", "x"))
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.deliverables.Upload(f.ctx, outsider, p.ID, "", upload("a.pdf", "x"))
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.deliverables.Upload(f.ctx, contractor, p.ID, "", models.Upload{})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.projects.CompleteProject(f.ctx, client, p.ID)
	require.NoError(t, err)
	_, err = f.deliverables.Upload(f.ctx, contractor, p.ID, "too late", upload("a.pdf", "x"))
	assert.ErrorIs(t, err, errs.ErrConflict)

	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), "_a.pdf"), "rejected upload left %s", e.Name())
	}
}

func TestDeliverableReadersAreParticipants(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	stranger := f.register(t, "stranger", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	_, err := f.deliverables.Latest(f.ctx, stranger, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.deliverables.History(f.ctx, stranger, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPurgeAllDeliverables(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	var paths []string
	for _, body := range []string{"v1", "v2", "v3"} {
		d, err := f.deliverables.Upload(f.ctx, contractor, p.ID, body, upload("result.txt", body))
		require.NoError(t, err)
		paths = append(paths, d.FilePath)
		f.clock.Advance(time.Minute)
	}

	n, err := f.deliverables.PurgeAll(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	history, err := f.deliverables.History(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	for _, path := range paths {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be removed", path)
	}

	_, err = f.deliverables.PurgeAll(f.ctx, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
