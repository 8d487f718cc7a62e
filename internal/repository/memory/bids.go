package memory

import (
	"context"
	"sort"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
)

const bidNotFound = "bid not found"

type bidRepo struct{ s *Store }

func (r bidRepo) Upsert(_ context.Context, bid *models.Bid) error {
	defer r.s.lock()()
	t := r.s.tables()

	if _, ok := t.projects[bid.ProjectID]; !ok {
		return errs.NotFound("project not found")
	}
	now := r.s.now()

	for id, existing := range t.bids {
		if existing.ProjectID != bid.ProjectID || existing.ContractorID != bid.ContractorID {
			continue
		}
		if existing.Status != models.PendingBid {
			return repository.ErrBidLocked
		}
		existing.Price = bid.Price
		existing.Message = bid.Message
		if bid.ProposalName != nil {
			existing.ProposalName = bid.ProposalName
			existing.ProposalPath = bid.ProposalPath
		}
		existing.UpdatedAt = now
		t.bids[id] = existing
		*bid = r.withName(existing)
		return nil
	}

	bid.ID = t.nextID()
	bid.Status = models.PendingBid
	bid.CreatedAt = now
	bid.UpdatedAt = now
	t.bids[bid.ID] = *bid
	*bid = r.withName(*bid)
	return nil
}

func (r bidRepo) GetByID(_ context.Context, id int64) (*models.Bid, error) {
	defer r.s.lock()()

	b, ok := r.s.tables().bids[id]
	if !ok {
		return nil, errs.NotFound(bidNotFound)
	}
	b = r.withName(b)
	return &b, nil
}

func (r bidRepo) GetByProjectAndContractor(_ context.Context, projectID, contractorID int64) (*models.Bid, error) {
	defer r.s.lock()()

	for _, b := range r.s.tables().bids {
		if b.ProjectID == projectID && b.ContractorID == contractorID {
			b = r.withName(b)
			return &b, nil
		}
	}
	return nil, errs.NotFound(bidNotFound)
}

func (r bidRepo) ListByProject(_ context.Context, projectID int64) ([]models.Bid, error) {
	defer r.s.lock()()

	var out []models.Bid
	for _, b := range r.s.tables().bids {
		if b.ProjectID == projectID {
			out = append(out, r.withName(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r bidRepo) SetStatus(_ context.Context, id int64, status models.BidStatus) error {
	defer r.s.lock()()
	t := r.s.tables()

	b, ok := t.bids[id]
	if !ok {
		return errs.NotFound(bidNotFound)
	}
	b.Status = status
	b.UpdatedAt = r.s.now()
	t.bids[id] = b
	return nil
}

func (r bidRepo) RejectOthers(_ context.Context, projectID, acceptedID int64) (int64, error) {
	defer r.s.lock()()
	t := r.s.tables()

	var n int64
	for id, b := range t.bids {
		if b.ProjectID != projectID || id == acceptedID || b.Status == models.RejectedBid {
			continue
		}
		b.Status = models.RejectedBid
		b.UpdatedAt = r.s.now()
		t.bids[id] = b
		n++
	}
	return n, nil
}

func (r bidRepo) withName(b models.Bid) models.Bid {
	b.ContractorName = r.s.tables().users[b.ContractorID].Username
	return b
}
