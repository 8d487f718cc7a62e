package repository

import (
	"context"
	"errors"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Ошибки уникальных ограничений, общие для всех реализаций хранилища.
var (
	ErrUsernameTaken   = errs.Conflict("username already taken")
	ErrDuplicateReview = errs.Conflict("project already reviewed")
	ErrBidLocked       = errs.Conflict("bid can no longer be changed")
)

var constraintErrors = map[string]error{
	"users_username_key":           ErrUsernameTaken,
	"reviews_project_reviewer_key": ErrDuplicateReview,
	"bids_project_contractor_key":  ErrBidLocked,
}

// Store - набор репозиториев, работающих в одной транзакции либо напрямую с пулом.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Bids() BidRepository
	Deliverables() DeliverableRepository
	Reviews() ReviewRepository
	// InTx выполняет fn в транзакции. Внутри уже открытой транзакции fn выполняется в ней же.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// PostgresStore - реализация Store для PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    db.Querier
	inTx bool
}

// NewPostgresStore создает новый экземпляр PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

func (s *PostgresStore) Users() UserRepository { return NewPostgresUserRepository(s.q) }

func (s *PostgresStore) Projects() ProjectRepository { return NewPostgresProjectRepository(s.q) }

func (s *PostgresStore) Bids() BidRepository { return NewPostgresBidRepository(s.q) }

func (s *PostgresStore) Deliverables() DeliverableRepository {
	return NewPostgresDeliverableRepository(s.q)
}

func (s *PostgresStore) Reviews() ReviewRepository { return NewPostgresReviewRepository(s.q) }

func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{pool: s.pool, q: tx, inTx: true})
	})
}

// mapError переводит ошибки драйвера в ошибки предметной области.
func mapError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NotFound(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		return errs.Conflict("record already exists")
	}
	return err
}

func statusStrings(statuses []models.ProjectStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
