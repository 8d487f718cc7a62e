package memory

import (
	"context"
	"sort"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
)

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, review *models.Review) error {
	defer r.s.lock()()
	t := r.s.tables()

	if _, ok := t.projects[review.ProjectID]; !ok {
		return errs.NotFound("project not found")
	}
	for _, existing := range t.reviews {
		if existing.ProjectID == review.ProjectID && existing.ReviewerID == review.ReviewerID {
			return repository.ErrDuplicateReview
		}
	}
	review.ID = t.nextID()
	review.CreatedAt = r.s.now()
	t.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) HasReviewed(_ context.Context, projectID, reviewerID int64) (bool, error) {
	defer r.s.lock()()

	for _, rv := range r.s.tables().reviews {
		if rv.ProjectID == projectID && rv.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r reviewRepo) ListForTarget(_ context.Context, targetID int64, limit int) ([]models.Review, error) {
	defer r.s.lock()()
	t := r.s.tables()

	var out []models.Review
	for _, rv := range t.reviews {
		if rv.TargetID == targetID {
			rv.ReviewerName = t.users[rv.ReviewerID].Username
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r reviewRepo) ScoreTotals(_ context.Context, targetID int64) (models.ScoreTotals, error) {
	defer r.s.lock()()

	var totals models.ScoreTotals
	for _, rv := range r.s.tables().reviews {
		if rv.TargetID != targetID {
			continue
		}
		totals.Count++
		totals.Dim1 += int64(rv.Dim1)
		totals.Dim2 += int64(rv.Dim2)
		totals.Dim3 += int64(rv.Dim3)
	}
	return totals, nil
}
