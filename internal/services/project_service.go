package services

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/rs/zerolog"
)

const (
	errProjectNotFound = "project not found"

	defaultPageSize = 5
	maxPageSize     = 50
)

type ProjectService struct {
	store  repository.Store
	now    func() time.Time
	logger zerolog.Logger
}

// NewProjectService создает новый экземпляр ProjectService.
func NewProjectService(deps Deps) *ProjectService {
	return &ProjectService{store: deps.Store, now: deps.clock(), logger: deps.Logger}
}

// CreateProject публикует проект заказчика в статусе open.
func (s *ProjectService) CreateProject(ctx context.Context, id models.Identity, req models.ProjectRequest) (*models.Project, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients can post projects")
	}
	if err := s.validateProject(req); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		ClientID:    id.UserID,
		Deadline:    req.Deadline,
	}
	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("project_id", project.ID).Int64("client_id", id.UserID).Msg("project created")
	return project, nil
}

// UpdateProject меняет описание открытого проекта. Править можно только свой проект.
func (s *ProjectService) UpdateProject(ctx context.Context, id models.Identity, projectID int64, req models.ProjectRequest) (*models.Project, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients can edit projects")
	}
	if err := s.validateProject(req); err != nil {
		return nil, err
	}

	var updated *models.Project
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := tx.Projects().GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if project.ClientID != id.UserID {
			return errs.NotFound(errProjectNotFound)
		}
		if project.Status != models.OpenProject {
			return errs.Conflict("only open projects can be edited")
		}

		project.Title = req.Title
		project.Description = req.Description
		project.Budget = req.Budget
		project.Deadline = req.Deadline
		if err := tx.Projects().Update(ctx, project); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetProject возвращает проект, если пользователю разрешено его видеть:
// заказчику - свои проекты, исполнителю - открытые и назначенные ему.
func (s *ProjectService) GetProject(ctx context.Context, id models.Identity, projectID int64) (*models.Project, error) {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !canView(id, project) {
		return nil, errs.NotFound(errProjectNotFound)
	}
	return project, nil
}

// ListClientProjects возвращает проекты заказчика: активные или завершенные.
func (s *ProjectService) ListClientProjects(ctx context.Context, id models.Identity, view models.ProjectView) ([]models.Project, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients have posted projects")
	}
	statuses, ok := view.Statuses()
	if !ok {
		return nil, errs.Validation(fmt.Sprintf("unknown view %q", view))
	}
	return s.store.Projects().ListByClient(ctx, id.UserID, statuses)
}

// ListContractorProjects возвращает проекты, назначенные исполнителю.
func (s *ProjectService) ListContractorProjects(ctx context.Context, id models.Identity, view models.ProjectView) ([]models.ContractorProject, error) {
	if !id.IsContractor() {
		return nil, errs.Forbidden("only contractors have assigned projects")
	}
	statuses, ok := view.Statuses()
	if !ok {
		return nil, errs.Validation(fmt.Sprintf("unknown view %q", view))
	}
	return s.store.Projects().ListByContractor(ctx, id.UserID, statuses)
}

// ListOpenProjects возвращает открытые проекты постранично.
func (s *ProjectService) ListOpenProjects(ctx context.Context, limit, offset int) ([]models.Project, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Projects().ListOpen(ctx, limit, offset)
}

// CompleteProject принимает работу по назначенному проекту.
func (s *ProjectService) CompleteProject(ctx context.Context, id models.Identity, projectID int64) (*models.Project, error) {
	return s.transition(ctx, id, projectID, models.CompletedProject)
}

// RejectProject отклоняет работу по назначенному проекту.
func (s *ProjectService) RejectProject(ctx context.Context, id models.Identity, projectID int64) (*models.Project, error) {
	return s.transition(ctx, id, projectID, models.RejectedProject)
}

func (s *ProjectService) transition(ctx context.Context, id models.Identity, projectID int64, next models.ProjectStatus) (*models.Project, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients can close projects")
	}

	var result *models.Project
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := tx.Projects().GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if project.ClientID != id.UserID {
			return errs.NotFound(errProjectNotFound)
		}
		if !project.Status.CanTransition(next) {
			return errs.Conflict(fmt.Sprintf("project is %s and cannot become %s", project.Status, next))
		}
		if err := tx.Projects().SetStatus(ctx, projectID, next); err != nil {
			return err
		}
		project.Status = next
		result = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("project_id", projectID).Str("status", string(next)).Msg("project closed")
	return result, nil
}

func (s *ProjectService) validateProject(req models.ProjectRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if req.Deadline != nil && !req.Deadline.After(s.now()) {
		return errs.Validation("deadline must be in the future")
	}
	return nil
}

func canView(id models.Identity, project *models.Project) bool {
	switch id.Role {
	case models.ClientRole:
		return project.ClientID == id.UserID
	case models.ContractorRole:
		return project.Status == models.OpenProject || project.IsContractor(id.UserID)
	default:
		return false
	}
}
