package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

// PenaltyRepository stores shootout kicks. Insertion order is significant.
type PenaltyRepository interface {
	Create(ctx context.Context, exec SQLExecutor, penalty *models.Penalty) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Penalty, error)
}

type postgresPenaltyRepository struct {
	db *sql.DB
}

func NewPostgresPenaltyRepository(db *sql.DB) PenaltyRepository {
	return &postgresPenaltyRepository{db: db}
}

func (r *postgresPenaltyRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Penalty) error {
	query := `
		INSERT INTO penalties (match_id, team_id, player_id, player_temp_id, is_converted)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		p.MatchID, p.TeamID, p.PlayerID, p.PlayerTempID, p.IsConverted,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return translateError(fmt.Errorf("create penalty: %w", err))
	}
	return nil
}

func (r *postgresPenaltyRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Penalty, error) {
	query := `
		SELECT id, match_id, team_id, player_id, player_temp_id, is_converted, created_at
		FROM penalties
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list penalties of match %d: %w", matchID, err))
	}
	defer rows.Close()

	penalties := make([]models.Penalty, 0)
	for rows.Next() {
		var p models.Penalty
		if err := rows.Scan(&p.ID, &p.MatchID, &p.TeamID, &p.PlayerID, &p.PlayerTempID, &p.IsConverted, &p.CreatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan penalty row: %w", err))
		}
		penalties = append(penalties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return penalties, nil
}
