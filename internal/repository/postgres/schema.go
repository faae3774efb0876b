package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaOptions tunes optional constraints.
type SchemaOptions struct {
	// UniqueVotes adds UNIQUE(screen_id, voter_name) so concurrent toggles
	// cannot leave duplicate votes behind.
	UniqueVotes bool
}

// EnsureSchema creates tables and indexes if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, opts SchemaOptions) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT NOT NULL,
				token TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Clients),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				client_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				token TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Projects, tables.Clients),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				project_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				sort_order INTEGER NOT NULL DEFAULT 0,
				desktop_image TEXT,
				mobile_image TEXT,
				desktop_label TEXT,
				mobile_label TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Screens, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				screen_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				x_position DOUBLE PRECISION NOT NULL CHECK (x_position BETWEEN 0 AND 100),
				y_position DOUBLE PRECISION NOT NULL CHECK (y_position BETWEEN 0 AND 100),
				device_type TEXT NOT NULL CHECK (device_type IN ('desktop', 'mobile')),
				author_name TEXT NOT NULL,
				content TEXT NOT NULL,
				is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Comments, tables.Screens, tables.Comments),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				screen_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				voter_name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Votes, tables.Screens),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sprojects_client ON %s(client_id, created_at DESC)`, tables.Prefix, tables.Projects),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sscreens_project_order ON %s(project_id, sort_order, created_at)`, tables.Prefix, tables.Screens),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%scomments_screen ON %s(screen_id, created_at)`, tables.Prefix, tables.Comments),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%scomments_parent ON %s(parent_id)`, tables.Prefix, tables.Comments),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%svotes_screen ON %s(screen_id, created_at)`, tables.Prefix, tables.Votes),
	}

	if opts.UniqueVotes {
		statements = append(statements, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_%svotes_screen_voter ON %s(screen_id, voter_name)`,
			tables.Prefix, tables.Votes))
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops every table, children first.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}

// ClearData deletes all rows while keeping the schema.
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	// Clients cascade to everything else
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Clients); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
