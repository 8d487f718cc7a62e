package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/jackc/pgx/v5"
)

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	// Upsert создает предложение либо обновляет ожидающее предложение того же исполнителя.
	Upsert(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id int64) (*models.Bid, error)
	GetByProjectAndContractor(ctx context.Context, projectID, contractorID int64) (*models.Bid, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Bid, error)
	SetStatus(ctx context.Context, id int64, status models.BidStatus) error
	// RejectOthers отклоняет все предложения проекта, кроме acceptedID.
	RejectOthers(ctx context.Context, projectID, acceptedID int64) (int64, error)
}

const (
	bidColumns = `b.id, b.project_id, b.contractor_id, u.username, b.price, b.message,
	              b.proposal_name, b.proposal_path, b.status, b.created_at, b.updated_at`
	bidFrom = ` FROM bids b JOIN users u ON u.id = b.contractor_id`

	errBidNotFound = "bid not found"
)

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB db.Querier
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(q db.Querier) *PostgresBidRepository {
	return &PostgresBidRepository{DB: q}
}

// Upsert сохраняет предложение. Повторная подача меняет цену, сообщение и файл,
// пока предложение ожидает решения; без нового файла сохраняется прежний.
func (r *PostgresBidRepository) Upsert(ctx context.Context, bid *models.Bid) error {
	query := `INSERT INTO bids (project_id, contractor_id, price, message, proposal_name, proposal_path, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT ON CONSTRAINT bids_project_contractor_key DO UPDATE
	          SET price = EXCLUDED.price,
	              message = EXCLUDED.message,
	              proposal_name = COALESCE(EXCLUDED.proposal_name, bids.proposal_name),
	              proposal_path = COALESCE(EXCLUDED.proposal_path, bids.proposal_path),
	              updated_at = NOW()
	          WHERE bids.status = $7
	          RETURNING id, proposal_name, proposal_path, status, created_at, updated_at`
	err := r.DB.QueryRow(
		ctx,
		query,
		bid.ProjectID,
		bid.ContractorID,
		bid.Price,
		bid.Message,
		bid.ProposalName,
		bid.ProposalPath,
		models.PendingBid,
	).Scan(&bid.ID, &bid.ProposalName, &bid.ProposalPath, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBidLocked
	}
	return mapError(err, errBidNotFound)
}

// GetByID возвращает предложение по id.
func (r *PostgresBidRepository) GetByID(ctx context.Context, id int64) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + bidFrom + ` WHERE b.id = $1`
	return scanBid(r.DB.QueryRow(ctx, query, id))
}

// GetByProjectAndContractor возвращает предложение исполнителя по проекту.
func (r *PostgresBidRepository) GetByProjectAndContractor(ctx context.Context, projectID, contractorID int64) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + bidFrom + ` WHERE b.project_id = $1 AND b.contractor_id = $2`
	return scanBid(r.DB.QueryRow(ctx, query, projectID, contractorID))
}

// ListByProject возвращает предложения по проекту в порядке подачи.
func (r *PostgresBidRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + bidFrom + ` WHERE b.project_id = $1 ORDER BY b.updated_at ASC, b.id ASC`
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project bids: %w", err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, rows.Err()
}

// SetStatus меняет статус предложения.
func (r *PostgresBidRepository) SetStatus(ctx context.Context, id int64, status models.BidStatus) error {
	tag, err := r.DB.Exec(ctx, `UPDATE bids SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound(errBidNotFound)
	}
	return nil
}

// RejectOthers отклоняет остальные предложения проекта и возвращает их количество.
func (r *PostgresBidRepository) RejectOthers(ctx context.Context, projectID, acceptedID int64) (int64, error) {
	query := `UPDATE bids SET status = $3, updated_at = NOW()
	          WHERE project_id = $1 AND id <> $2 AND status <> $3`
	tag, err := r.DB.Exec(ctx, query, projectID, acceptedID, models.RejectedBid)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanBid(row pgx.Row) (*models.Bid, error) {
	var bid models.Bid
	err := row.Scan(
		&bid.ID,
		&bid.ProjectID,
		&bid.ContractorID,
		&bid.ContractorName,
		&bid.Price,
		&bid.Message,
		&bid.ProposalName,
		&bid.ProposalPath,
		&bid.Status,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, errBidNotFound)
	}
	return &bid, nil
}
