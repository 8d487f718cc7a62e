package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/models"
)

// ReviewRepository - интерфейс для работы с отзывами.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	HasReviewed(ctx context.Context, projectID, reviewerID int64) (bool, error)
	// ListForTarget возвращает отзывы о пользователе, новые первыми; limit <= 0 снимает ограничение.
	ListForTarget(ctx context.Context, targetID int64, limit int) ([]models.Review, error)
	ScoreTotals(ctx context.Context, targetID int64) (models.ScoreTotals, error)
}

// PostgresReviewRepository - реализация ReviewRepository для базы данных.
type PostgresReviewRepository struct {
	DB db.Querier
}

// NewPostgresReviewRepository создает новый экземпляр PostgresReviewRepository.
func NewPostgresReviewRepository(q db.Querier) *PostgresReviewRepository {
	return &PostgresReviewRepository{DB: q}
}

// Create сохраняет отзыв. Повторный отзыв того же участника по проекту отклоняется ограничением уникальности.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (project_id, reviewer_id, target_id, dim1, dim2, dim3, comment)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	err := r.DB.QueryRow(
		ctx,
		query,
		review.ProjectID,
		review.ReviewerID,
		review.TargetID,
		review.Dim1,
		review.Dim2,
		review.Dim3,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	return mapError(err, "project not found")
}

// HasReviewed проверяет, оставил ли участник отзыв по проекту.
func (r *PostgresReviewRepository) HasReviewed(ctx context.Context, projectID, reviewerID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE project_id = $1 AND reviewer_id = $2)`
	err := r.DB.QueryRow(ctx, query, projectID, reviewerID).Scan(&exists)
	return exists, err
}

// ListForTarget возвращает отзывы о пользователе вместе с именем автора.
func (r *PostgresReviewRepository) ListForTarget(ctx context.Context, targetID int64, limit int) ([]models.Review, error) {
	query := `SELECT r.id, r.project_id, r.reviewer_id, u.username, r.target_id, r.dim1, r.dim2, r.dim3, r.comment, r.created_at
	          FROM reviews r
	          JOIN users u ON u.id = r.reviewer_id
	          WHERE r.target_id = $1
	          ORDER BY r.created_at DESC, r.id DESC`
	args := []any{targetID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.ProjectID, &rv.ReviewerID, &rv.ReviewerName, &rv.TargetID,
			&rv.Dim1, &rv.Dim2, &rv.Dim3, &rv.Comment, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// ScoreTotals возвращает количество отзывов и суммы оценок по каждому критерию.
func (r *PostgresReviewRepository) ScoreTotals(ctx context.Context, targetID int64) (models.ScoreTotals, error) {
	var t models.ScoreTotals
	query := `SELECT COUNT(*), COALESCE(SUM(dim1), 0), COALESCE(SUM(dim2), 0), COALESCE(SUM(dim3), 0)
	          FROM reviews WHERE target_id = $1`
	err := r.DB.QueryRow(ctx, query, targetID).Scan(&t.Count, &t.Dim1, &t.Dim2, &t.Dim3)
	return t, err
}
