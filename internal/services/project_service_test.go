package services

import (
	"testing"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectRoundTrip(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)

	created, err := f.projects.CreateProject(f.ctx, client, models.ProjectRequest{
		Title:       "Mobile app",
		Description: "iOS and Android client",
		Budget:      120000,
	})
	require.NoError(t, err)

	got, err := f.projects.GetProject(f.ctx, client, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobile app", got.Title)
	assert.Equal(t, "iOS and Android client", got.Description)
	assert.Equal(t, int64(120000), got.Budget)
	assert.Equal(t, client.UserID, got.ClientID)
	assert.Equal(t, models.OpenProject, got.Status)
	assert.Nil(t, got.ContractorID)
	assert.Nil(t, got.Deadline)
}

func TestCreateProjectRules(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	valid := models.ProjectRequest{Title: "Logo", Description: "Vector logo", Budget: 500}

	_, err := f.projects.CreateProject(f.ctx, contractor, valid)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	noTitle := valid
	noTitle.Title = ""
	_, err = f.projects.CreateProject(f.ctx, client, noTitle)
	assert.ErrorIs(t, err, errs.ErrValidation)

	negative := valid
	negative.Budget = -1
	_, err = f.projects.CreateProject(f.ctx, client, negative)
	assert.ErrorIs(t, err, errs.ErrValidation)

	past := valid
	past.Deadline = timePtr(f.clock.Now().Add(-time.Minute))
	_, err = f.projects.CreateProject(f.ctx, client, past)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestGetProjectVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner", models.ClientRole)
	stranger := f.register(t, "stranger", models.ClientRole)
	winner := f.register(t, "winner", models.ContractorRole)
	loser := f.register(t, "loser", models.ContractorRole)

	p := f.createProject(t, owner, nil)

	_, err := f.projects.GetProject(f.ctx, stranger, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound, "foreign project must look absent")

	_, err = f.projects.GetProject(f.ctx, loser, p.ID)
	assert.NoError(t, err, "contractors see open projects")

	bid := f.submitBid(t, winner, p.ID, 9000)
	f.submitBid(t, loser, p.ID, 8000)
	_, err = f.bids.AcceptBid(f.ctx, owner, bid.ID)
	require.NoError(t, err)

	_, err = f.projects.GetProject(f.ctx, winner, p.ID)
	assert.NoError(t, err)
	_, err = f.projects.GetProject(f.ctx, loser, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.projects.GetProject(f.ctx, owner, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProjectLifecycleOnlyMovesForward(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	p := f.createProject(t, client, nil)

	_, err := f.projects.CompleteProject(f.ctx, client, p.ID)
	assert.ErrorIs(t, err, errs.ErrConflict, "open project cannot be completed")
	_, err = f.projects.RejectProject(f.ctx, client, p.ID)
	assert.ErrorIs(t, err, errs.ErrConflict, "open project cannot be rejected")

	bid := f.submitBid(t, contractor, p.ID, 1000)
	_, err = f.bids.AcceptBid(f.ctx, client, bid.ID)
	require.NoError(t, err)

	_, err = f.projects.CompleteProject(f.ctx, contractor, p.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	done, err := f.projects.CompleteProject(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CompletedProject, done.Status)

	_, err = f.projects.RejectProject(f.ctx, client, p.ID)
	assert.ErrorIs(t, err, errs.ErrConflict, "completed is terminal")
	_, err = f.projects.CompleteProject(f.ctx, client, p.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)

	got, err := f.projects.GetProject(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CompletedProject, got.Status)
}

func TestRejectProjectByOwnerOnly(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	other := f.register(t, "other", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	p := f.assigned(t, client, contractor)

	_, err := f.projects.RejectProject(f.ctx, other, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	rejected, err := f.projects.RejectProject(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RejectedProject, rejected.Status)
	require.NotNil(t, rejected.ContractorID)
	assert.Equal(t, contractor.UserID, *rejected.ContractorID)
}

func TestUpdateProject(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	other := f.register(t, "other", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	p := f.createProject(t, client, nil)
	deadline := time.Date(2026, 6, 1, 18, 0, 0, 0, taipei)
	edit := models.ProjectRequest{Title: "Landing page v2", Description: "Now with blog", Budget: 20000, Deadline: &deadline}

	_, err := f.projects.UpdateProject(f.ctx, other, p.ID, edit)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	updated, err := f.projects.UpdateProject(f.ctx, client, p.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Landing page v2", updated.Title)
	assert.Equal(t, int64(20000), updated.Budget)
	require.NotNil(t, updated.Deadline)
	assert.True(t, updated.Deadline.Equal(deadline))

	bid := f.submitBid(t, contractor, p.ID, 1000)
	_, err = f.bids.AcceptBid(f.ctx, client, bid.ID)
	require.NoError(t, err)

	_, err = f.projects.UpdateProject(f.ctx, client, p.ID, edit)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestListClientProjects(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	open := f.createProject(t, client, nil)
	f.clock.Advance(time.Minute)
	done := f.assigned(t, client, contractor)
	f.clock.Advance(time.Minute)
	_, err := f.projects.CompleteProject(f.ctx, client, done.ID)
	require.NoError(t, err)

	active, err := f.projects.ListClientProjects(f.ctx, client, models.ActiveView)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	finished, err := f.projects.ListClientProjects(f.ctx, client, models.FinishedView)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, done.ID, finished[0].ID)

	_, err = f.projects.ListClientProjects(f.ctx, client, "archive")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = f.projects.ListClientProjects(f.ctx, contractor, models.ActiveView)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestListContractorProjectsFlagsDeliverables(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	withFile := f.assigned(t, client, contractor)
	f.clock.Advance(time.Minute)
	withoutFile := f.assigned(t, client, contractor)

	_, err := f.deliverables.Upload(f.ctx, contractor, withFile.ID, "first draft", *pdf("draft.pdf"))
	require.NoError(t, err)

	projects, err := f.projects.ListContractorProjects(f.ctx, contractor, models.ActiveView)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	flags := map[int64]bool{}
	for _, p := range projects {
		flags[p.ID] = p.HasDeliverable
	}
	assert.True(t, flags[withFile.ID])
	assert.False(t, flags[withoutFile.ID])
}

func TestListOpenProjectsPaging(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)

	var ids []int64
	for i := 0; i < 7; i++ {
		ids = append(ids, f.createProject(t, client, nil).ID)
		f.clock.Advance(time.Second)
	}

	page, err := f.projects.ListOpenProjects(f.ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page, defaultPageSize)
	assert.Equal(t, ids[6], page[0].ID, "newest first")

	page, err = f.projects.ListOpenProjects(f.ctx, 5, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[1].ID)
}
