package review

import (
	"context"
	"fmt"

	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *postgres.RepositoryConfig) reviewRepo.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = `id, client_id, name, token, created_at, updated_at`

func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (client_id, name, token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.ClientID,
		project.Name,
		project.Token,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	return postgres.MapError("create project", "project", project.Name, err)
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, projectColumns, r.tables.Projects)
	return r.getOne(ctx, query, id)
}

func (r *PostgresProjectRepository) GetByToken(ctx context.Context, token string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE token = $1`, projectColumns, r.tables.Projects)
	return r.getOne(ctx, query, token)
}

func (r *PostgresProjectRepository) getOne(ctx context.Context, query, key string) (*models.Project, error) {
	var project models.Project
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, key).Scan(
		&project.ID,
		&project.ClientID,
		&project.Name,
		&project.Token,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError("get project", "project", key, err)
	}
	return &project, nil
}

// ListByClient retrieves a client's projects, newest first
func (r *PostgresProjectRepository) ListByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE client_id = $1
		ORDER BY created_at DESC, id
	`, projectColumns, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, clientID)
	if err != nil {
		return nil, postgres.MapError("list projects", "client", clientID, err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID,
			&project.ClientID,
			&project.Name,
			&project.Token,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, postgres.MapError("scan project", "project", "", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError("iterate projects", "project", "", err)
	}

	return projects, nil
}

// Update updates a project's name and updated_at timestamp
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, project.Name, project.UpdatedAt, project.ID)
	if err != nil {
		return postgres.MapError("update project", "project", project.ID, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("update project", "project", project.ID, errNoRows)
	}
	return nil
}

// Delete removes a project; screens, comments and votes cascade
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.MapError("delete project", "project", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("delete project", "project", id, errNoRows)
	}
	return nil
}
