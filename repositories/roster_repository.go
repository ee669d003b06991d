package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

// RosterRepository reads the registered and temporary players of a team.
type RosterRepository interface {
	ListPlayers(ctx context.Context, exec SQLExecutor, teamID int) ([]models.Player, error)
	ListTempPlayers(ctx context.Context, exec SQLExecutor, teamID int) ([]models.TempPlayer, error)
	ListByChampionship(ctx context.Context, championshipID int) ([]models.RosterPlayer, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) ListPlayers(ctx context.Context, exec SQLExecutor, teamID int) ([]models.Player, error) {
	query := `
		SELECT id, team_id, name, number, position, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list players of team %d: %w", teamID, err))
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Number, &p.Position, &p.CreatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan player row: %w", err))
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return players, nil
}

func (r *postgresRosterRepository) ListTempPlayers(ctx context.Context, exec SQLExecutor, teamID int) ([]models.TempPlayer, error) {
	query := `
		SELECT id, team_id, name, email, number, created_at
		FROM player_temp_profiles
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list temp players of team %d: %w", teamID, err))
	}
	defer rows.Close()

	temps := make([]models.TempPlayer, 0)
	for rows.Next() {
		var t models.TempPlayer
		if err := rows.Scan(&t.ID, &t.TeamID, &t.Name, &t.Email, &t.Number, &t.CreatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan temp player row: %w", err))
		}
		temps = append(temps, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return temps, nil
}

// ListByChampionship returns every roster entry of every team registered in the championship.
func (r *postgresRosterRepository) ListByChampionship(ctx context.Context, championshipID int) ([]models.RosterPlayer, error) {
	query := `
		SELECT p.id, NULL::int, p.team_id, p.name, p.number
		FROM players p
		JOIN championship_teams ct ON ct.team_id = p.team_id
		WHERE ct.championship_id = $1
		UNION ALL
		SELECT NULL::int, tp.id, tp.team_id, tp.name, tp.number
		FROM player_temp_profiles tp
		JOIN championship_teams ct ON ct.team_id = tp.team_id
		WHERE ct.championship_id = $1`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list roster of championship %d: %w", championshipID, err))
	}
	defer rows.Close()

	roster := make([]models.RosterPlayer, 0)
	for rows.Next() {
		var p models.RosterPlayer
		if err := rows.Scan(&p.PlayerID, &p.PlayerTempID, &p.TeamID, &p.Name, &p.Number); err != nil {
			return nil, translateError(fmt.Errorf("scan roster row: %w", err))
		}
		p.IsTemp = p.PlayerTempID != nil
		roster = append(roster, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return roster, nil
}
