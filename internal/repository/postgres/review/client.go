package review

import (
	"context"
	"fmt"

	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClientRepository implements the ClientRepository interface
type PostgresClientRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewClientRepository creates a new client repository
func NewClientRepository(config *postgres.RepositoryConfig) reviewRepo.ClientRepository {
	return &PostgresClientRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, token, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Clients)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, client.Name, client.Token, client.CreatedAt).
		Scan(&client.ID, &client.CreatedAt)
	return postgres.MapError("create client", "client", client.Name, err)
}

func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := fmt.Sprintf(`SELECT id, name, token, created_at FROM %s WHERE id = $1`, r.tables.Clients)
	return r.getOne(ctx, query, id)
}

func (r *PostgresClientRepository) GetByToken(ctx context.Context, token string) (*models.Client, error) {
	query := fmt.Sprintf(`SELECT id, name, token, created_at FROM %s WHERE token = $1`, r.tables.Clients)
	return r.getOne(ctx, query, token)
}

func (r *PostgresClientRepository) getOne(ctx context.Context, query, key string) (*models.Client, error) {
	var client models.Client
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, key).Scan(
		&client.ID,
		&client.Name,
		&client.Token,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError("get client", "client", key, err)
	}
	return &client, nil
}

// List retrieves all clients ordered by name
func (r *PostgresClientRepository) List(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf(`
		SELECT id, name, token, created_at
		FROM %s
		ORDER BY name ASC, created_at ASC
	`, r.tables.Clients)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.MapError("list clients", "client", "", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Token, &client.CreatedAt); err != nil {
			return nil, postgres.MapError("scan client", "client", "", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError("iterate clients", "client", "", err)
	}

	return clients, nil
}

func (r *PostgresClientRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Clients)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.MapError("delete client", "client", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("delete client", "client", id, errNoRows)
	}
	return nil
}
