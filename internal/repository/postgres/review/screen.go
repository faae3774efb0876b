package review

import (
	"context"
	"fmt"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScreenRepository implements the ScreenRepository interface
type PostgresScreenRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewScreenRepository creates a new screen repository
func NewScreenRepository(config *postgres.RepositoryConfig) reviewRepo.ScreenRepository {
	return &PostgresScreenRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const screenColumns = `id, project_id, name, sort_order, desktop_image, mobile_image, desktop_label, mobile_label, created_at`

func scanScreen(row pgx.Row) (*models.Screen, error) {
	var s models.Screen
	err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.Name,
		&s.SortOrder,
		&s.DesktopImage,
		&s.MobileImage,
		&s.DesktopLabel,
		&s.MobileLabel,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresScreenRepository) Create(ctx context.Context, screen *models.Screen) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, name, sort_order, desktop_image, mobile_image, desktop_label, mobile_label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Screens)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		screen.ProjectID,
		screen.Name,
		screen.SortOrder,
		screen.DesktopImage,
		screen.MobileImage,
		screen.DesktopLabel,
		screen.MobileLabel,
		screen.CreatedAt,
	).Scan(&screen.ID, &screen.CreatedAt)

	return postgres.MapError("create screen", "screen", screen.Name, err)
}

func (r *PostgresScreenRepository) GetByID(ctx context.Context, id string) (*models.Screen, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, screenColumns, r.tables.Screens)

	executor := postgres.GetExecutor(ctx, r.pool)
	screen, err := scanScreen(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.MapError("get screen", "screen", id, err)
	}
	return screen, nil
}

// ListByProject returns screens with ties in sort_order broken by creation time
func (r *PostgresScreenRepository) ListByProject(ctx context.Context, projectID string) ([]models.Screen, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY sort_order ASC, created_at ASC, id ASC
	`, screenColumns, r.tables.Screens)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, postgres.MapError("list screens", "project", projectID, err)
	}
	defer rows.Close()

	screens := []models.Screen{}
	for rows.Next() {
		screen, err := scanScreen(rows)
		if err != nil {
			return nil, postgres.MapError("scan screen", "screen", "", err)
		}
		screens = append(screens, *screen)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError("iterate screens", "screen", "", err)
	}

	return screens, nil
}

func (r *PostgresScreenRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.updateColumn(ctx, "name", id, name)
}

func (r *PostgresScreenRepository) UpdateImage(ctx context.Context, id string, device models.Device, url *string) error {
	column, err := deviceColumn(device, "image")
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, column, id, url)
}

func (r *PostgresScreenRepository) UpdateLabel(ctx context.Context, id string, device models.Device, label *string) error {
	column, err := deviceColumn(device, "label")
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, column, id, label)
}

// updateColumn writes one column so concurrent edits to other fields survive.
// column is always a constant from this file, never caller input.
func (r *PostgresScreenRepository) updateColumn(ctx context.Context, column, id string, value any) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, r.tables.Screens, column)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, value, id)
	if err != nil {
		return postgres.MapError("update screen "+column, "screen", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("update screen "+column, "screen", id, errNoRows)
	}
	return nil
}

func deviceColumn(device models.Device, field string) (string, error) {
	switch device {
	case models.DeviceDesktop:
		return "desktop_" + field, nil
	case models.DeviceMobile:
		return "mobile_" + field, nil
	}
	return "", fmt.Errorf("%w: unknown device %q", domain.ErrValidation, device)
}

func (r *PostgresScreenRepository) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	return r.updateColumn(ctx, "sort_order", id, sortOrder)
}

// Delete removes a screen; comments and votes cascade
func (r *PostgresScreenRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Screens)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.MapError("delete screen", "screen", id, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError("delete screen", "screen", id, errNoRows)
	}
	return nil
}
