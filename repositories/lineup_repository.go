package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

var ErrLineupPlayerExists = errors.New("player already in lineup")

// LineupRepository stores starters and substitutions per match.
type LineupRepository interface {
	CreateFirstString(ctx context.Context, exec SQLExecutor, player *models.FirstStringPlayer) error
	ListFirstString(ctx context.Context, exec SQLExecutor, matchID int) ([]models.FirstStringPlayer, error)
	CreateReplacement(ctx context.Context, exec SQLExecutor, replacement *models.Replacement) error
	ListReplacements(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Replacement, error)
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) CreateFirstString(ctx context.Context, exec SQLExecutor, p *models.FirstStringPlayer) error {
	query := `
		INSERT INTO first_string_players (match_id, team_id, player_id, player_temp_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query, p.MatchID, p.TeamID, p.PlayerID, p.PlayerTempID).Scan(&p.ID)
	if err != nil {
		if _, code, ok := constraintOf(err); ok && code == pqUniqueViolation {
			return ErrLineupPlayerExists
		}
		return translateError(fmt.Errorf("create first string player: %w", err))
	}
	return nil
}

func (r *postgresLineupRepository) ListFirstString(ctx context.Context, exec SQLExecutor, matchID int) ([]models.FirstStringPlayer, error) {
	query := `
		SELECT id, match_id, team_id, player_id, player_temp_id
		FROM first_string_players
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list lineup of match %d: %w", matchID, err))
	}
	defer rows.Close()

	lineup := make([]models.FirstStringPlayer, 0)
	for rows.Next() {
		var p models.FirstStringPlayer
		if err := rows.Scan(&p.ID, &p.MatchID, &p.TeamID, &p.PlayerID, &p.PlayerTempID); err != nil {
			return nil, translateError(fmt.Errorf("scan lineup row: %w", err))
		}
		lineup = append(lineup, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return lineup, nil
}

func (r *postgresLineupRepository) CreateReplacement(ctx context.Context, exec SQLExecutor, rep *models.Replacement) error {
	query := `
		INSERT INTO replacements
			(match_id, team_id, replaced_player_id, replaced_player_temp_id, replacer_player_id, replacer_player_temp_id, replacement_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		rep.MatchID, rep.TeamID,
		rep.Replaced.PlayerID, rep.Replaced.PlayerTempID,
		rep.Replacer.PlayerID, rep.Replacer.PlayerTempID,
		rep.ReplacementMinutes,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return translateError(fmt.Errorf("create replacement: %w", err))
	}
	return nil
}

func (r *postgresLineupRepository) ListReplacements(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Replacement, error) {
	query := `
		SELECT id, match_id, team_id, replaced_player_id, replaced_player_temp_id,
		       replacer_player_id, replacer_player_temp_id, replacement_minutes, created_at
		FROM replacements
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list replacements of match %d: %w", matchID, err))
	}
	defer rows.Close()

	replacements := make([]models.Replacement, 0)
	for rows.Next() {
		var rep models.Replacement
		if err := rows.Scan(
			&rep.ID, &rep.MatchID, &rep.TeamID,
			&rep.Replaced.PlayerID, &rep.Replaced.PlayerTempID,
			&rep.Replacer.PlayerID, &rep.Replacer.PlayerTempID,
			&rep.ReplacementMinutes, &rep.CreatedAt,
		); err != nil {
			return nil, translateError(fmt.Errorf("scan replacement row: %w", err))
		}
		replacements = append(replacements, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return replacements, nil
}
