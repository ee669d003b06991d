package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/championship-manager/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	UpdateEmblemKey(ctx context.Context, teamID int, emblemKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

var teamColumnNames = []string{
	"id", "name", "sport_type", "uniform_home", "uniform_away", "number_of_players", "deleted", "created_at", "emblem_key",
}

// teamColumns returns the team column list, qualified by alias when one is given.
func teamColumns(alias string) string {
	if alias == "" {
		return strings.Join(teamColumnNames, ", ")
	}
	qualified := make([]string, len(teamColumnNames))
	for i, c := range teamColumnNames {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

func scanTeam(row interface{ Scan(dest ...any) error }, t *models.Team) error {
	return row.Scan(
		&t.ID, &t.Name, &t.SportType, &t.UniformHome, &t.UniformAway, &t.NumberOfPlayers, &t.Deleted, &t.CreatedAt, &t.EmblemKey,
	)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns("") + ` FROM teams WHERE id = $1 AND NOT deleted`

	team := &models.Team{}
	if err := scanTeam(getExecutor(exec, r.db).QueryRowContext(ctx, query, id), team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, translateError(fmt.Errorf("get team %d: %w", id, err))
	}
	return team, nil
}

func (r *postgresTeamRepository) UpdateEmblemKey(ctx context.Context, teamID int, emblemKey *string) error {
	query := `UPDATE teams SET emblem_key = $1 WHERE id = $2 AND NOT deleted`
	result, err := r.db.ExecContext(ctx, query, emblemKey, teamID)
	if err != nil {
		return translateError(fmt.Errorf("update emblem of team %d: %w", teamID, err))
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
