package services

import (
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		totals models.ScoreTotals
		want   *models.RatingSummary
	}{
		{
			name:   "no reviews means unrated",
			totals: models.ScoreTotals{},
			want:   nil,
		},
		{
			name:   "(4,5,3) and (2,3,4)",
			totals: models.ScoreTotals{Count: 2, Dim1: 6, Dim2: 8, Dim3: 7},
			want:   &models.RatingSummary{AvgDim1: 3, AvgDim2: 4, AvgDim3: 3.5, OverallAvg: 3.5, ReviewCount: 2},
		},
		{
			name:   "rounded to two decimals",
			totals: models.ScoreTotals{Count: 3, Dim1: 13, Dim2: 12, Dim3: 13},
			want:   &models.RatingSummary{AvgDim1: 4.33, AvgDim2: 4, AvgDim3: 4.33, OverallAvg: 4.22, ReviewCount: 3},
		},
		{
			name:   "single perfect review",
			totals: models.ScoreTotals{Count: 1, Dim1: 5, Dim2: 5, Dim3: 5},
			want:   &models.RatingSummary{AvgDim1: 5, AvgDim2: 5, AvgDim3: 5, OverallAvg: 5, ReviewCount: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.totals))
		})
	}
}

func TestSubmitReviewOncePerProject(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	status, err := f.reviews.ReviewStatus(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatus{ProjectID: p.ID, TargetID: contractor.UserID}, *status)

	review, err := f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 5, Dim2: 4, Dim3: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, "client", review.ReviewerName)

	_, err = f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 1, Dim2: 1, Dim3: 1})
	assert.ErrorIs(t, err, errs.ErrConflict)

	status, err = f.reviews.ReviewStatus(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.True(t, status.HasReviewed)

	_, err = f.reviews.SubmitReview(f.ctx, contractor, p.ID, models.ReviewRequest{TargetID: client.UserID, Dim1: 4, Dim2: 4, Dim3: 4})
	require.NoError(t, err, "the other side reviews independently")
}

func TestSubmitReviewConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	p := f.assigned(t, client, contractor)

	const attempts = 5
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 3, Dim2: 3, Dim3: 3})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicateReview)
	}
	assert.Equal(t, 1, ok)

	rating, err := f.reviews.RatingFor(f.ctx, contractor.UserID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, int64(1), rating.ReviewCount)
}

func TestSubmitReviewRules(t *testing.T) {
	f := newFixture(t)
	client := f.register(t, "client", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)
	outsider := f.register(t, "outsider", models.ContractorRole)

	open := f.createProject(t, client, nil)
	_, err := f.reviews.SubmitReview(f.ctx, client, open.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 3, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrValidation, "nobody to review yet")

	p := f.assigned(t, client, contractor)

	_, err = f.reviews.SubmitReview(f.ctx, outsider, p.ID, models.ReviewRequest{TargetID: client.UserID, Dim1: 3, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.reviews.ReviewStatus(f.ctx, outsider, p.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: client.UserID, Dim1: 3, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrValidation, "cannot review yourself")

	_, err = f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 6, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = f.reviews.SubmitReview(f.ctx, client, p.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 0, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.reviews.SubmitReview(f.ctx, client, 999, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 3, Dim2: 3, Dim3: 3})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRatingForAndReviewsFor(t *testing.T) {
	f := newFixture(t)
	first := f.register(t, "first", models.ClientRole)
	second := f.register(t, "second", models.ClientRole)
	contractor := f.register(t, "contractor", models.ContractorRole)

	rating, err := f.reviews.RatingFor(f.ctx, contractor.UserID)
	require.NoError(t, err)
	assert.Nil(t, rating)

	p1 := f.assigned(t, first, contractor)
	_, err = f.reviews.SubmitReview(f.ctx, first, p1.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 4, Dim2: 5, Dim3: 3, Comment: "good"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	p2 := f.assigned(t, second, contractor)
	_, err = f.reviews.SubmitReview(f.ctx, second, p2.ID, models.ReviewRequest{TargetID: contractor.UserID, Dim1: 2, Dim2: 3, Dim3: 4, Comment: "slow"})
	require.NoError(t, err)

	rating, err = f.reviews.RatingFor(f.ctx, contractor.UserID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, models.RatingSummary{AvgDim1: 3, AvgDim2: 4, AvgDim3: 3.5, OverallAvg: 3.5, ReviewCount: 2}, *rating)

	reviews, err := f.reviews.ReviewsFor(f.ctx, contractor.UserID, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].ReviewerName, "newest first")
	assert.Equal(t, "first", reviews[1].ReviewerName)

	_, err = f.reviews.RatingFor(f.ctx, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
