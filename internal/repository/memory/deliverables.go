package memory

import (
	"context"
	"sort"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
)

type deliverableRepo struct{ s *Store }

func (r deliverableRepo) Append(_ context.Context, d *models.Deliverable) error {
	defer r.s.lock()()
	t := r.s.tables()

	if _, ok := t.projects[d.ProjectID]; !ok {
		return errs.NotFound("project not found")
	}
	d.ID = t.nextID()
	if d.UploadedAt.IsZero() {
		d.UploadedAt = r.s.now()
	}
	t.deliverables[d.ID] = *d
	return nil
}

func (r deliverableRepo) Latest(_ context.Context, projectID int64) (*models.Deliverable, error) {
	defer r.s.lock()()

	history := r.history(projectID)
	if len(history) == 0 {
		return nil, nil
	}
	return &history[0], nil
}

func (r deliverableRepo) History(_ context.Context, projectID int64) ([]models.Deliverable, error) {
	defer r.s.lock()()
	return r.history(projectID), nil
}

func (r deliverableRepo) DeleteAll(_ context.Context, projectID int64) ([]models.Deliverable, error) {
	defer r.s.lock()()

	deleted := r.history(projectID)
	for _, d := range deleted {
		delete(r.s.tables().deliverables, d.ID)
	}
	return deleted, nil
}

func (r deliverableRepo) history(projectID int64) []models.Deliverable {
	var out []models.Deliverable
	for _, d := range r.s.tables().deliverables {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
