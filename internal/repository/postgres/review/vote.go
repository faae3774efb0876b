package review

import (
	"context"
	"fmt"

	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresVoteRepository implements the VoteRepository interface
type PostgresVoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(config *postgres.RepositoryConfig) reviewRepo.VoteRepository {
	return &PostgresVoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresVoteRepository) Find(ctx context.Context, screenID, voterName string) (*models.Vote, error) {
	query := fmt.Sprintf(`
		SELECT id, screen_id, voter_name, created_at
		FROM %s
		WHERE screen_id = $1 AND voter_name = $2
		ORDER BY created_at ASC
		LIMIT 1
	`, r.tables.Votes)

	var vote models.Vote
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, screenID, voterName).Scan(
		&vote.ID,
		&vote.ScreenID,
		&vote.VoterName,
		&vote.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError("find vote", "vote", screenID, err)
	}
	return &vote, nil
}

// Create inserts a vote. With the unique index in place a second vote for
// the same pair surfaces as a ConflictError.
func (r *PostgresVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (screen_id, voter_name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Votes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, vote.ScreenID, vote.VoterName, vote.CreatedAt).
		Scan(&vote.ID, &vote.CreatedAt)
	return postgres.MapError("create vote", "vote", vote.ScreenID, err)
}

func (r *PostgresVoteRepository) DeleteByScreenAndVoter(ctx context.Context, screenID, voterName string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE screen_id = $1 AND voter_name = $2`, r.tables.Votes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, screenID, voterName)
	if err != nil {
		return 0, postgres.MapError("delete vote", "vote", screenID, err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresVoteRepository) ListByScreens(ctx context.Context, screenIDs []string) ([]models.Vote, error) {
	votes := []models.Vote{}
	if len(screenIDs) == 0 {
		return votes, nil
	}

	query := fmt.Sprintf(`
		SELECT id, screen_id, voter_name, created_at
		FROM %s
		WHERE screen_id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC
	`, r.tables.Votes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, screenIDs)
	if err != nil {
		return nil, postgres.MapError("list votes", "vote", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var vote models.Vote
		if err := rows.Scan(&vote.ID, &vote.ScreenID, &vote.VoterName, &vote.CreatedAt); err != nil {
			return nil, postgres.MapError("scan vote", "vote", "", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError("iterate votes", "vote", "", err)
	}

	return votes, nil
}
