package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ProjectRepository - интерфейс для работы с проектами.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	// GetForUpdate читает проект и блокирует строку до конца транзакции.
	GetForUpdate(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	ListByClient(ctx context.Context, clientID int64, statuses []models.ProjectStatus) ([]models.Project, error)
	ListByContractor(ctx context.Context, contractorID int64, statuses []models.ProjectStatus) ([]models.ContractorProject, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.Project, error)
	AssignContractor(ctx context.Context, projectID, contractorID int64) error
	SetStatus(ctx context.Context, projectID int64, status models.ProjectStatus) error
}

const projectColumns = `p.id, p.title, p.description, p.budget, p.client_id, p.contractor_id, p.status, p.deadline, p.created_at, p.updated_at`

const errProjectNotFound = "project not found"

// PostgresProjectRepository - реализация ProjectRepository для базы данных.
type PostgresProjectRepository struct {
	DB db.Querier
}

// NewPostgresProjectRepository создает новый экземпляр PostgresProjectRepository.
func NewPostgresProjectRepository(q db.Querier) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: q}
}

// Create создает проект в статусе open.
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.Status = models.OpenProject
	project.ContractorID = nil
	query := `INSERT INTO projects (title, description, budget, client_id, status, deadline)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(
		ctx,
		query,
		project.Title,
		project.Description,
		project.Budget,
		project.ClientID,
		project.Status,
		project.Deadline,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	return mapError(err, errProjectNotFound)
}

// GetByID возвращает проект по id.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`
	return scanProject(r.DB.QueryRow(ctx, query, id))
}

// GetForUpdate возвращает проект, удерживая блокировку строки.
func (r *PostgresProjectRepository) GetForUpdate(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1 FOR UPDATE`
	return scanProject(r.DB.QueryRow(ctx, query, id))
}

// Update меняет редактируемые поля проекта.
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `UPDATE projects
	          SET title = $2, description = $3, budget = $4, deadline = $5, updated_at = NOW()
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.DB.QueryRow(
		ctx,
		query,
		project.ID,
		project.Title,
		project.Description,
		project.Budget,
		project.Deadline,
	).Scan(&project.UpdatedAt)
	return mapError(err, errProjectNotFound)
}

// ListByClient возвращает проекты заказчика с указанными статусами, новые первыми.
func (r *PostgresProjectRepository) ListByClient(ctx context.Context, clientID int64, statuses []models.ProjectStatus) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p
	          WHERE p.client_id = $1 AND p.status = ANY($2)
	          ORDER BY p.updated_at DESC, p.id DESC`
	rows, err := r.DB.Query(ctx, query, clientID, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}
	return collectProjects(rows)
}

// ListByContractor возвращает проекты исполнителя с признаком наличия результата.
func (r *PostgresProjectRepository) ListByContractor(ctx context.Context, contractorID int64, statuses []models.ProjectStatus) ([]models.ContractorProject, error) {
	query := `SELECT ` + projectColumns + `,
	                 EXISTS(SELECT 1 FROM deliverables d WHERE d.project_id = p.id)
	          FROM projects p
	          WHERE p.contractor_id = $1 AND p.status = ANY($2)
	          ORDER BY p.updated_at DESC, p.id DESC`
	rows, err := r.DB.Query(ctx, query, contractorID, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, fmt.Errorf("list contractor projects: %w", err)
	}
	defer rows.Close()

	var projects []models.ContractorProject
	for rows.Next() {
		var cp models.ContractorProject
		p := &cp.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Budget, &p.ClientID, &p.ContractorID,
			&p.Status, &p.Deadline, &p.CreatedAt, &p.UpdatedAt, &cp.HasDeliverable,
		); err != nil {
			return nil, err
		}
		projects = append(projects, cp)
	}
	return projects, rows.Err()
}

// ListOpen возвращает открытые проекты постранично, новые первыми.
func (r *PostgresProjectRepository) ListOpen(ctx context.Context, limit, offset int) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p
	          WHERE p.status = $1
	          ORDER BY p.created_at DESC, p.id DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, models.OpenProject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list open projects: %w", err)
	}
	return collectProjects(rows)
}

// AssignContractor назначает исполнителя и переводит проект в статус assigned.
func (r *PostgresProjectRepository) AssignContractor(ctx context.Context, projectID, contractorID int64) error {
	query := `UPDATE projects SET contractor_id = $2, status = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.DB.Exec(ctx, query, projectID, contractorID, models.AssignedProject)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound(errProjectNotFound)
	}
	return nil
}

// SetStatus меняет статус проекта.
func (r *PostgresProjectRepository) SetStatus(ctx context.Context, projectID int64, status models.ProjectStatus) error {
	query := `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.DB.Exec(ctx, query, projectID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound(errProjectNotFound)
	}
	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Budget, &p.ClientID, &p.ContractorID,
		&p.Status, &p.Deadline, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, errProjectNotFound)
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]models.Project, error) {
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}
