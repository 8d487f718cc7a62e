package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/jackc/pgx/v5"
)

// DeliverableRepository - интерфейс для работы с версиями результатов.
type DeliverableRepository interface {
	Append(ctx context.Context, d *models.Deliverable) error
	// Latest возвращает последнюю версию либо nil, если версий нет.
	Latest(ctx context.Context, projectID int64) (*models.Deliverable, error)
	History(ctx context.Context, projectID int64) ([]models.Deliverable, error)
	DeleteAll(ctx context.Context, projectID int64) ([]models.Deliverable, error)
}

const deliverableColumns = `id, project_id, file_name, file_path, message, uploaded_at`

// PostgresDeliverableRepository - реализация DeliverableRepository для базы данных.
type PostgresDeliverableRepository struct {
	DB db.Querier
}

// NewPostgresDeliverableRepository создает новый экземпляр PostgresDeliverableRepository.
func NewPostgresDeliverableRepository(q db.Querier) *PostgresDeliverableRepository {
	return &PostgresDeliverableRepository{DB: q}
}

// Append добавляет новую версию и заполняет ее id.
func (r *PostgresDeliverableRepository) Append(ctx context.Context, d *models.Deliverable) error {
	query := `INSERT INTO deliverables (project_id, file_name, file_path, message, uploaded_at)
	          VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	          RETURNING id, uploaded_at`
	var uploadedAt any
	if !d.UploadedAt.IsZero() {
		uploadedAt = d.UploadedAt
	}
	err := r.DB.QueryRow(ctx, query, d.ProjectID, d.FileName, d.FilePath, d.Message, uploadedAt).
		Scan(&d.ID, &d.UploadedAt)
	return mapError(err, "project not found")
}

// Latest возвращает самую свежую версию результата.
func (r *PostgresDeliverableRepository) Latest(ctx context.Context, projectID int64) (*models.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables
	          WHERE project_id = $1
	          ORDER BY uploaded_at DESC, id DESC
	          LIMIT 1`
	var d models.Deliverable
	err := r.DB.QueryRow(ctx, query, projectID).
		Scan(&d.ID, &d.ProjectID, &d.FileName, &d.FilePath, &d.Message, &d.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// History возвращает все версии, новые первыми.
func (r *PostgresDeliverableRepository) History(ctx context.Context, projectID int64) ([]models.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables
	          WHERE project_id = $1
	          ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return collectDeliverables(rows)
}

// DeleteAll удаляет все версии проекта и возвращает удаленные записи.
func (r *PostgresDeliverableRepository) DeleteAll(ctx context.Context, projectID int64) ([]models.Deliverable, error) {
	query := `DELETE FROM deliverables WHERE project_id = $1 RETURNING ` + deliverableColumns
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("delete deliverables: %w", err)
	}
	return collectDeliverables(rows)
}

func collectDeliverables(rows pgx.Rows) ([]models.Deliverable, error) {
	defer rows.Close()

	var out []models.Deliverable
	for rows.Next() {
		var d models.Deliverable
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.FileName, &d.FilePath, &d.Message, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
