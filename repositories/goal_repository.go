package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

var (
	ErrGoalMatchInvalid  = errors.New("goal match invalid")
	ErrGoalPlayerInvalid = errors.New("goal player invalid")
)

// GoalRepository is append-only: goals are never updated or deleted.
type GoalRepository interface {
	Create(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Goal, error)
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]models.Goal, error)
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

const goalColumns = `g.id, g.match_id, g.team_id, g.player_id, g.player_temp_id, g.assisting_player_id,
	g.assisting_player_temp_id, g.own_goal, g.minutes, g.set, g.created_at`

func (r *postgresGoalRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Goal) error {
	query := `
		INSERT INTO goals
			(match_id, team_id, player_id, player_temp_id, assisting_player_id, assisting_player_temp_id, own_goal, minutes, set)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		g.MatchID, g.TeamID, g.PlayerID, g.PlayerTempID, g.AssistingPlayerID, g.AssistingPlayerTempID, g.OwnGoal, g.Minutes, g.Set,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if constraint, _, ok := constraintOf(err); ok {
			switch constraint {
			case "goals_match_id_fkey":
				return ErrGoalMatchInvalid
			case "goals_player_id_fkey", "goals_player_temp_id_fkey", "goals_player_ref_check":
				return ErrGoalPlayerInvalid
			}
		}
		return translateError(fmt.Errorf("create goal: %w", err))
	}
	return nil
}

func (r *postgresGoalRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals g WHERE g.match_id = $1 ORDER BY g.id ASC`
	return r.list(ctx, getExecutor(exec, r.db), query, matchID)
}

func (r *postgresGoalRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals g
		JOIN matches m ON m.id = g.match_id
		WHERE m.championship_id = $1
		ORDER BY g.id ASC`
	return r.list(ctx, getExecutor(exec, r.db), query, championshipID)
}

func (r *postgresGoalRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Goal, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(fmt.Errorf("list goals: %w", err))
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(
			&g.ID, &g.MatchID, &g.TeamID, &g.PlayerID, &g.PlayerTempID, &g.AssistingPlayerID,
			&g.AssistingPlayerTempID, &g.OwnGoal, &g.Minutes, &g.Set, &g.CreatedAt,
		); err != nil {
			return nil, translateError(fmt.Errorf("scan goal row: %w", err))
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return goals, nil
}
