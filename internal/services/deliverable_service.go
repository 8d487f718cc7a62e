package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/rs/zerolog"
)

const maxDeliverableMessage = 2000

// DeliverableService ведет версии результатов работы: каждая загрузка добавляет новую версию,
// актуальной считается самая свежая.
type DeliverableService struct {
	store  repository.Store
	blobs  BlobStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewDeliverableService создает новый экземпляр DeliverableService.
func NewDeliverableService(deps Deps) *DeliverableService {
	return &DeliverableService{store: deps.Store, blobs: deps.Blobs, now: deps.clock(), logger: deps.Logger}
}

// Upload сохраняет файл и добавляет новую версию результата. Загружать может только
// назначенный исполнитель, пока проект в статусе assigned.
func (s *DeliverableService) Upload(ctx context.Context, id models.Identity, projectID int64, message string, file models.Upload) (*models.Deliverable, error) {
	if !id.IsContractor() {
		return nil, errs.Forbidden("only contractors can upload deliverables")
	}
	if file.Name == "" || file.Body == nil {
		return nil, errs.Validation("file is required")
	}
	if len(message) > maxDeliverableMessage {
		return nil, errs.Validation("message must be at most 2000 characters")
	}

	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkDeliverable(project, id); err != nil {
		return nil, err
	}

	path, err := s.blobs.Save(ctx, id.UserID, file.Name, file.Body)
	if err != nil {
		return nil, err
	}

	deliverable := &models.Deliverable{
		ProjectID:  projectID,
		FileName:   filepath.Base(file.Name),
		FilePath:   path,
		Message:    message,
		UploadedAt: s.now(),
	}
	err = s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := tx.Projects().GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if err := checkDeliverable(project, id); err != nil {
			return err
		}
		return tx.Deliverables().Append(ctx, deliverable)
	})
	if err != nil {
		if rmErr := s.blobs.Remove(path); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("path", path).Msg("failed to remove orphaned deliverable")
		}
		return nil, err
	}

	s.logger.Info().Int64("project_id", projectID).Int64("deliverable_id", deliverable.ID).Msg("deliverable uploaded")
	return deliverable, nil
}

// Latest возвращает актуальную версию результата или nil, если загрузок не было.
func (s *DeliverableService) Latest(ctx context.Context, id models.Identity, projectID int64) (*models.Deliverable, error) {
	if err := s.checkReader(ctx, id, projectID); err != nil {
		return nil, err
	}
	return s.store.Deliverables().Latest(ctx, projectID)
}

// History возвращает все версии результата, новые первыми.
func (s *DeliverableService) History(ctx context.Context, id models.Identity, projectID int64) ([]models.Deliverable, error) {
	if err := s.checkReader(ctx, id, projectID); err != nil {
		return nil, err
	}
	return s.store.Deliverables().History(ctx, projectID)
}

// PurgeAll удаляет все версии результата проекта вместе с файлами.
// Административная операция, доступна только из командной строки.
func (s *DeliverableService) PurgeAll(ctx context.Context, projectID int64) (int, error) {
	var deleted []models.Deliverable
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Projects().GetForUpdate(ctx, projectID); err != nil {
			return err
		}
		var err error
		deleted, err = tx.Deliverables().DeleteAll(ctx, projectID)
		return err
	})
	if err != nil {
		return 0, err
	}

	for _, d := range deleted {
		if err := s.blobs.Remove(d.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("path", d.FilePath).Msg("failed to remove deliverable file")
		}
	}
	s.logger.Info().Int64("project_id", projectID).Int("deleted", len(deleted)).Msg("deliverables purged")
	return len(deleted), nil
}

func (s *DeliverableService) checkReader(ctx context.Context, id models.Identity, projectID int64) error {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsParticipant(id.UserID) {
		return errs.NotFound(errProjectNotFound)
	}
	return nil
}

func checkDeliverable(project *models.Project, id models.Identity) error {
	if !project.IsContractor(id.UserID) {
		return errs.NotFound(errProjectNotFound)
	}
	if project.Status != models.AssignedProject {
		return errs.Conflict("deliverables can only be uploaded while the project is assigned")
	}
	return nil
}
