package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository/memory"
	"github.com/senyabanana/freelance-market/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const pdfBody = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

// taipei - фиксированный пояс UTC+8 без зависимости от системной базы tzdata.
var taipei = time.FixedZone("CST", 8*60*60)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	ctx          context.Context
	clock        *fakeClock
	store        *memory.Store
	uploadDir    string
	accounts     *AccountService
	projects     *ProjectService
	bids         *BidService
	deliverables *DeliverableService
	reviews      *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.New(clock.Now)
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	deps := Deps{
		Store:    store,
		Blobs:    blobs,
		Location: taipei,
		Now:      clock.Now,
		Logger:   zerolog.Nop(),
	}
	return &fixture{
		ctx:          context.Background(),
		clock:        clock,
		store:        store,
		uploadDir:    dir,
		accounts:     NewAccountService(deps),
		projects:     NewProjectService(deps),
		bids:         NewBidService(deps),
		deliverables: NewDeliverableService(deps),
		reviews:      NewReviewService(deps),
	}
}

func (f *fixture) register(t *testing.T, username string, role models.Role) models.Identity {
	t.Helper()
	user, err := f.accounts.Register(f.ctx, models.RegisterRequest{Username: username, Password: "secret", Role: role})
	require.NoError(t, err)
	return user.Identity()
}

func (f *fixture) createProject(t *testing.T, client models.Identity, deadline *time.Time) *models.Project {
	t.Helper()
	p, err := f.projects.CreateProject(f.ctx, client, models.ProjectRequest{
		Title:       "Landing page",
		Description: "Single page site with contact form",
		Budget:      15000,
		Deadline:    deadline,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) submitBid(t *testing.T, contractor models.Identity, projectID, price int64) *models.Bid {
	t.Helper()
	bid, err := f.bids.SubmitBid(f.ctx, contractor, projectID, models.BidRequest{Price: price, Message: "I can do it"}, pdf("proposal.pdf"))
	require.NoError(t, err)
	return bid
}

// assigned создает проект заказчика и назначает на него исполнителя.
func (f *fixture) assigned(t *testing.T, client, contractor models.Identity) *models.Project {
	t.Helper()
	p := f.createProject(t, client, nil)
	bid := f.submitBid(t, contractor, p.ID, 10000)
	_, err := f.bids.AcceptBid(f.ctx, client, bid.ID)
	require.NoError(t, err)
	return p
}

func pdf(name string) *models.Upload {
	return &models.Upload{Name: name, Body: strings.NewReader(pdfBody)}
}

func timePtr(t time.Time) *time.Time { return &t }
