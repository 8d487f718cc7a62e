package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
	"github.com/senyabanana/freelance-market/internal/storage"

	"github.com/rs/zerolog"
)

const (
	errBidNotFound = "bid not found"

	recentReviewsPerBid = 3
)

type BidService struct {
	store  repository.Store
	blobs  BlobStore
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(deps Deps) *BidService {
	return &BidService{
		store:  deps.Store,
		blobs:  deps.Blobs,
		loc:    deps.location(),
		now:    deps.clock(),
		logger: deps.Logger,
	}
}

// SubmitBid подает или обновляет предложение исполнителя по открытому проекту.
// Просроченный срок и файл предложения не в формате PDF дают ErrValidation.
func (s *BidService) SubmitBid(ctx context.Context, id models.Identity, projectID int64, req models.BidRequest, proposal *models.Upload) (*models.Bid, error) {
	if !id.IsContractor() {
		return nil, errs.Forbidden("only contractors can submit bids")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBiddable(project); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		ProjectID:    projectID,
		ContractorID: id.UserID,
		Price:        req.Price,
		Message:      req.Message,
	}
	if proposal != nil {
		path, err := s.storeProposal(ctx, id, proposal)
		if err != nil {
			return nil, err
		}
		bid.ProposalName = &proposal.Name
		bid.ProposalPath = &path
	}

	err = s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := tx.Projects().GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if err := s.checkBiddable(project); err != nil {
			return err
		}

		existing, err := tx.Bids().GetByProjectAndContractor(ctx, projectID, id.UserID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
		case err != nil:
			return err
		case existing.Status != models.PendingBid:
			return repository.ErrBidLocked
		}
		return tx.Bids().Upsert(ctx, bid)
	})
	if err != nil {
		if bid.ProposalPath != nil {
			s.discard(*bid.ProposalPath)
		}
		return nil, err
	}

	s.logger.Info().Int64("project_id", projectID).Int64("bid_id", bid.ID).Int64("contractor_id", id.UserID).Msg("bid submitted")
	return bid, nil
}

// ListProjectBids возвращает предложения по проекту заказчика вместе с рейтингом исполнителей.
// Чужой проект неотличим от несуществующего.
func (s *BidService) ListProjectBids(ctx context.Context, id models.Identity, projectID int64) ([]models.BidWithRating, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients can review bids")
	}

	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != id.UserID {
		return nil, errs.NotFound(errProjectNotFound)
	}

	bids, err := s.store.Bids().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	type reputation struct {
		rating  *models.RatingSummary
		reviews []models.Review
	}
	seen := make(map[int64]reputation, len(bids))

	result := make([]models.BidWithRating, 0, len(bids))
	for _, bid := range bids {
		rep, ok := seen[bid.ContractorID]
		if !ok {
			if rep.rating, err = loadRating(ctx, s.store.Reviews(), bid.ContractorID); err != nil {
				return nil, err
			}
			if rep.reviews, err = s.store.Reviews().ListForTarget(ctx, bid.ContractorID, recentReviewsPerBid); err != nil {
				return nil, err
			}
			seen[bid.ContractorID] = rep
		}
		result = append(result, models.BidWithRating{Bid: bid, Rating: rep.rating, Reviews: rep.reviews})
	}
	return result, nil
}

// GetMyBid возвращает предложение исполнителя по проекту.
func (s *BidService) GetMyBid(ctx context.Context, id models.Identity, projectID int64) (*models.Bid, error) {
	if !id.IsContractor() {
		return nil, errs.Forbidden("only contractors have bids")
	}
	return s.store.Bids().GetByProjectAndContractor(ctx, projectID, id.UserID)
}

// AcceptBid принимает предложение: в одной транзакции с блокировкой строки проекта
// предложение становится accepted, проект - assigned, остальные предложения - rejected.
// Если проект уже не открыт, возвращается ErrConflict.
func (s *BidService) AcceptBid(ctx context.Context, id models.Identity, bidID int64) (*models.Bid, error) {
	if !id.IsClient() {
		return nil, errs.Forbidden("only clients can accept bids")
	}

	var accepted *models.Bid
	var rejected int64
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		bid, err := tx.Bids().GetByID(ctx, bidID)
		if err != nil {
			return err
		}
		project, err := tx.Projects().GetForUpdate(ctx, bid.ProjectID)
		if err != nil {
			return err
		}
		if project.ClientID != id.UserID {
			return errs.NotFound(errBidNotFound)
		}
		if !project.Status.CanTransition(models.AssignedProject) {
			return errs.Conflict("project is no longer open")
		}

		// перечитываем под блокировкой проекта
		bid, err = tx.Bids().GetByID(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.Status != models.PendingBid {
			return errs.Conflict(fmt.Sprintf("bid is already %s", bid.Status))
		}

		if err := tx.Bids().SetStatus(ctx, bid.ID, models.AcceptedBid); err != nil {
			return err
		}
		if err := tx.Projects().AssignContractor(ctx, project.ID, bid.ContractorID); err != nil {
			return err
		}
		if rejected, err = tx.Bids().RejectOthers(ctx, project.ID, bid.ID); err != nil {
			return err
		}

		bid.Status = models.AcceptedBid
		accepted = bid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("project_id", accepted.ProjectID).
		Int64("bid_id", accepted.ID).
		Int64("contractor_id", accepted.ContractorID).
		Int64("rejected_bids", rejected).
		Msg("bid accepted")
	return accepted, nil
}

func (s *BidService) checkBiddable(project *models.Project) error {
	if project.Status != models.OpenProject {
		return errs.Conflict("project is not accepting bids")
	}
	if project.Deadline != nil {
		deadline := project.Deadline.In(s.loc)
		if s.now().In(s.loc).After(deadline) {
			return errs.Validation(fmt.Sprintf("bidding closed at %s", deadline.Format("2006-01-02 15:04 MST")))
		}
	}
	return nil
}

func (s *BidService) storeProposal(ctx context.Context, id models.Identity, proposal *models.Upload) (string, error) {
	if !storage.IsPDFName(proposal.Name) {
		return "", errs.Validation("proposal must be a PDF file")
	}
	body, isPDF, err := storage.SniffPDF(proposal.Body)
	if err != nil {
		return "", err
	}
	if !isPDF {
		return "", errs.Validation("proposal content is not a PDF document")
	}
	return s.blobs.Save(ctx, id.UserID, proposal.Name, body)
}

func (s *BidService) discard(path string) {
	if err := s.blobs.Remove(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove orphaned proposal")
	}
}
