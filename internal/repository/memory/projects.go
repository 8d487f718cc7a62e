package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
)

const projectNotFound = "project not found"

type projectRepo struct{ s *Store }

func (r projectRepo) Create(_ context.Context, project *models.Project) error {
	defer r.s.lock()()
	t := r.s.tables()

	if _, ok := t.users[project.ClientID]; !ok {
		return errs.NotFound("user not found")
	}
	now := r.s.now()
	project.ID = t.nextID()
	project.Status = models.OpenProject
	project.ContractorID = nil
	project.CreatedAt = now
	project.UpdatedAt = now
	t.projects[project.ID] = *project
	return nil
}

func (r projectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	defer r.s.lock()()
	return r.get(id)
}

func (r projectRepo) GetForUpdate(_ context.Context, id int64) (*models.Project, error) {
	defer r.s.lock()()
	return r.get(id)
}

func (r projectRepo) get(id int64) (*models.Project, error) {
	p, ok := r.s.tables().projects[id]
	if !ok {
		return nil, errs.NotFound(projectNotFound)
	}
	return &p, nil
}

func (r projectRepo) Update(_ context.Context, project *models.Project) error {
	defer r.s.lock()()
	t := r.s.tables()

	stored, ok := t.projects[project.ID]
	if !ok {
		return errs.NotFound(projectNotFound)
	}
	stored.Title = project.Title
	stored.Description = project.Description
	stored.Budget = project.Budget
	stored.Deadline = project.Deadline
	stored.UpdatedAt = r.s.now()
	t.projects[project.ID] = stored
	project.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r projectRepo) ListByClient(_ context.Context, clientID int64, statuses []models.ProjectStatus) ([]models.Project, error) {
	defer r.s.lock()()

	var out []models.Project
	for _, p := range r.s.tables().projects {
		if p.ClientID == clientID && slices.Contains(statuses, p.Status) {
			out = append(out, p)
		}
	}
	sortByUpdated(out)
	return out, nil
}

func (r projectRepo) ListByContractor(_ context.Context, contractorID int64, statuses []models.ProjectStatus) ([]models.ContractorProject, error) {
	defer r.s.lock()()
	t := r.s.tables()

	var matched []models.Project
	for _, p := range t.projects {
		if p.IsContractor(contractorID) && slices.Contains(statuses, p.Status) {
			matched = append(matched, p)
		}
	}
	sortByUpdated(matched)

	out := make([]models.ContractorProject, 0, len(matched))
	for _, p := range matched {
		cp := models.ContractorProject{Project: p}
		for _, d := range t.deliverables {
			if d.ProjectID == p.ID {
				cp.HasDeliverable = true
				break
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r projectRepo) ListOpen(_ context.Context, limit, offset int) ([]models.Project, error) {
	defer r.s.lock()()

	var open []models.Project
	for _, p := range r.s.tables().projects {
		if p.Status == models.OpenProject {
			open = append(open, p)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.After(open[j].CreatedAt)
		}
		return open[i].ID > open[j].ID
	})

	if offset >= len(open) {
		return nil, nil
	}
	open = open[offset:]
	if limit > 0 && limit < len(open) {
		open = open[:limit]
	}
	return open, nil
}

func (r projectRepo) AssignContractor(_ context.Context, projectID, contractorID int64) error {
	defer r.s.lock()()
	t := r.s.tables()

	p, ok := t.projects[projectID]
	if !ok {
		return errs.NotFound(projectNotFound)
	}
	p.ContractorID = &contractorID
	p.Status = models.AssignedProject
	p.UpdatedAt = r.s.now()
	t.projects[projectID] = p
	return nil
}

func (r projectRepo) SetStatus(_ context.Context, projectID int64, status models.ProjectStatus) error {
	defer r.s.lock()()
	t := r.s.tables()

	p, ok := t.projects[projectID]
	if !ok {
		return errs.NotFound(projectNotFound)
	}
	p.Status = status
	p.UpdatedAt = r.s.now()
	t.projects[projectID] = p
	return nil
}

func sortByUpdated(projects []models.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].UpdatedAt.Equal(projects[j].UpdatedAt) {
			return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
		}
		return projects[i].ID > projects[j].ID
	})
}
