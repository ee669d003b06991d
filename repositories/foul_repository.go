package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

type FoulRepository interface {
	Create(ctx context.Context, exec SQLExecutor, foul *models.Foul) error
	ListByMatch(ctx context.Context, matchID int) ([]models.Foul, error)
}

type postgresFoulRepository struct {
	db *sql.DB
}

func NewPostgresFoulRepository(db *sql.DB) FoulRepository {
	return &postgresFoulRepository{db: db}
}

func (r *postgresFoulRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Foul) error {
	query := `
		INSERT INTO fouls (match_id, team_id, player_id, player_temp_id, card, minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		f.MatchID, f.TeamID, f.PlayerID, f.PlayerTempID, f.Card, f.Minutes,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return translateError(fmt.Errorf("create foul: %w", err))
	}
	return nil
}

func (r *postgresFoulRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Foul, error) {
	query := `
		SELECT id, match_id, team_id, player_id, player_temp_id, card, minutes, created_at
		FROM fouls
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list fouls of match %d: %w", matchID, err))
	}
	defer rows.Close()

	fouls := make([]models.Foul, 0)
	for rows.Next() {
		var f models.Foul
		if err := rows.Scan(&f.ID, &f.MatchID, &f.TeamID, &f.PlayerID, &f.PlayerTempID, &f.Card, &f.Minutes, &f.CreatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan foul row: %w", err))
		}
		fouls = append(fouls, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return fouls, nil
}
