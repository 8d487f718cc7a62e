package repository

import (
	"context"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/models"
)

// UserRepository - интерфейс для работы с пользователями.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PostgresUserRepository - реализация UserRepository для базы данных.
type PostgresUserRepository struct {
	DB db.Querier
}

// NewPostgresUserRepository создает новый экземпляр PostgresUserRepository.
func NewPostgresUserRepository(q db.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{DB: q}
}

// Create сохраняет пользователя и заполняет id и created_at.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(ctx, query, user.Username, user.Password, user.Role).Scan(&user.ID, &user.CreatedAt)
	return mapError(err, "user not found")
}

// GetByID возвращает пользователя по id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, `SELECT id, username, password, role, created_at FROM users WHERE id = $1`, id)
}

// GetByUsername возвращает пользователя по имени.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, `SELECT id, username, password, role, created_at FROM users WHERE username = $1`, username)
}

func (r *PostgresUserRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err, "user not found")
	}
	return &user, nil
}
