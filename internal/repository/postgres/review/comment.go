package review

import (
	"context"
	"fmt"

	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *postgres.RepositoryConfig) reviewRepo.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const commentColumns = `id, screen_id, parent_id, x_position, y_position, device_type, author_name, content, is_resolved, created_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	var device string
	err := row.Scan(
		&c.ID,
		&c.ScreenID,
		&c.ParentID,
		&c.XPosition,
		&c.YPosition,
		&device,
		&c.AuthorName,
		&c.Content,
		&c.IsResolved,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.DeviceType = models.Device(device)
	return &c, nil
}

func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (screen_id, parent_id, x_position, y_position, device_type, author_name, content, is_resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, r.tables.Comments)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.ScreenID,
		comment.ParentID,
		comment.XPosition,
		comment.YPosition,
		string(comment.DeviceType),
		comment.AuthorName,
		comment.Content,
		comment.IsResolved,
		comment.CreatedAt,
	).Scan(&comment.ID, &comment.CreatedAt)

	return postgres.MapError("create comment", "comment", comment.ScreenID, err)
}

func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, commentColumns, r.tables.Comments)

	executor := postgres.GetExecutor(ctx, r.pool)
	comment, err := scanComment(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.MapError("get comment", "comment", id, err)
	}
	return comment, nil
}

func (r *PostgresCommentRepository) ListByScreen(ctx context.Context, screenID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE screen_id = $1
		ORDER BY created_at ASC, id ASC
	`, commentColumns, r.tables.Comments)
	return r.list(ctx, "list comments", query, screenID)
}

func (r *PostgresCommentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = $1
		ORDER BY created_at ASC, id ASC
	`, commentColumns, r.tables.Comments)
	return r.list(ctx, "list replies", query, parentID)
}

func (r *PostgresCommentRepository) list(ctx context.Context, op, query, key string) ([]models.Comment, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, key)
	if err != nil {
		return nil, postgres.MapError(op, "comment", key, err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, postgres.MapError(op, "comment", key, err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(op, "comment", key, err)
	}

	return comments, nil
}

// UpdateContent writes content; position, device and author never change
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET content = $1 WHERE id = $2`, r.tables.Comments)
	return r.exec(ctx, "update comment", query, id, content)
}

func (r *PostgresCommentRepository) SetResolved(ctx context.Context, id string, resolved bool) error {
	query := fmt.Sprintf(`UPDATE %s SET is_resolved = $1 WHERE id = $2`, r.tables.Comments)
	return r.exec(ctx, "resolve comment", query, id, resolved)
}

func (r *PostgresCommentRepository) exec(ctx context.Context, op, query, id string, value any) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, value, id)
	if err != nil {
		return postgres.MapError(op, "comment", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError(op, "comment", id, errNoRows)
	}
	return nil
}

func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Comments)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.MapError("delete comment", "comment", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("delete comment", "comment", id, errNoRows)
	}
	return nil
}
