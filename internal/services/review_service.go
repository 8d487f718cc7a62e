package services

import (
	"context"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"

	"github.com/rs/zerolog"
)

type ReviewService struct {
	store  repository.Store
	logger zerolog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(deps Deps) *ReviewService {
	return &ReviewService{store: deps.Store, logger: deps.Logger}
}

// SubmitReview сохраняет отзыв участника проекта о второй стороне.
// Повторный отзыв по тому же проекту дает ErrConflict.
func (s *ReviewService) SubmitReview(ctx context.Context, id models.Identity, projectID int64, req models.ReviewRequest) (*models.Review, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProjectID:  projectID,
		ReviewerID: id.UserID,
		TargetID:   req.TargetID,
		Dim1:       req.Dim1,
		Dim2:       req.Dim2,
		Dim3:       req.Dim3,
		Comment:    req.Comment,
	}
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		target, err := counterpart(project, id)
		if err != nil {
			return err
		}
		if req.TargetID != target {
			return errs.Validation("review target must be the other party of the project")
		}

		reviewed, err := tx.Reviews().HasReviewed(ctx, projectID, id.UserID)
		if err != nil {
			return err
		}
		if reviewed {
			return repository.ErrDuplicateReview
		}
		return tx.Reviews().Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	review.ReviewerName = id.Username
	s.logger.Info().Int64("project_id", projectID).Int64("reviewer_id", id.UserID).Int64("target_id", review.TargetID).Msg("review submitted")
	return review, nil
}

// ReviewStatus сообщает участнику, кого он оценивает по проекту и оставил ли уже отзыв.
func (s *ReviewService) ReviewStatus(ctx context.Context, id models.Identity, projectID int64) (*models.ReviewStatus, error) {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	target, err := counterpart(project, id)
	if err != nil {
		return nil, err
	}
	reviewed, err := s.store.Reviews().HasReviewed(ctx, projectID, id.UserID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewStatus{ProjectID: projectID, TargetID: target, HasReviewed: reviewed}, nil
}

// RatingFor возвращает средние оценки пользователя или nil, если отзывов нет.
func (s *ReviewService) RatingFor(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return loadRating(ctx, s.store.Reviews(), userID)
}

// ReviewsFor возвращает отзывы о пользователе, новые первыми.
func (s *ReviewService) ReviewsFor(ctx context.Context, userID int64, limit int) ([]models.Review, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Reviews().ListForTarget(ctx, userID, limit)
}

// counterpart возвращает id второй стороны проекта для участника id.
func counterpart(project *models.Project, id models.Identity) (int64, error) {
	if !project.IsParticipant(id.UserID) {
		return 0, errs.Forbidden("not your project")
	}
	if project.ContractorID == nil {
		return 0, errs.Validation("project has no contractor yet")
	}
	if project.ClientID == id.UserID {
		return *project.ContractorID, nil
	}
	return project.ClientID, nil
}
