package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

var (
	ErrChampionshipNotFound      = errors.New("championship not found")
	ErrChampionshipNameConflict  = errors.New("championship name conflict for this organizer")
	ErrChampionshipTeamExists    = errors.New("team already registered in championship")
	ErrChampionshipTeamInvalid   = errors.New("invalid team reference")
	ErrChampionshipTeamNotLinked = errors.New("team is not registered in championship")
)

type ChampionshipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]models.Championship, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ChampionshipStatus) error
	SoftDelete(ctx context.Context, id int) error
	// LockForUpdate serialises settlement and advancement for one championship until the transaction ends.
	LockForUpdate(ctx context.Context, exec SQLExecutor, id int) error
	AddTeam(ctx context.Context, exec SQLExecutor, championshipID, teamID int) error
	ListTeams(ctx context.Context, exec SQLExecutor, championshipID int) ([]models.Team, error)
	CountTeams(ctx context.Context, exec SQLExecutor, championshipID int) (int, error)
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

const championshipColumns = `id, name, description, initial_date, final_date, team_quantity, format, sport_type,
	status, organizer_id, double_match_eliminations, double_match_group_stage, double_start_league_system,
	deleted, created_at, logo_key`

func scanChampionship(row interface{ Scan(dest ...any) error }, c *models.Championship) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Description, &c.InitialDate, &c.FinalDate, &c.TeamQuantity, &c.Format, &c.SportType,
		&c.Status, &c.OrganizerID, &c.DoubleMatchEliminations, &c.DoubleMatchGroupStage, &c.DoubleStartLeagueSystem,
		&c.Deleted, &c.CreatedAt, &c.LogoKey,
	)
}

func (r *postgresChampionshipRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	query := `
		INSERT INTO championships
			(name, description, initial_date, final_date, team_quantity, format, sport_type, status,
			 organizer_id, double_match_eliminations, double_match_group_stage, double_start_league_system)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		c.Name, c.Description, c.InitialDate, c.FinalDate, c.TeamQuantity, c.Format, c.SportType, c.Status,
		c.OrganizerID, c.DoubleMatchEliminations, c.DoubleMatchGroupStage, c.DoubleStartLeagueSystem,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if constraint, _, ok := constraintOf(err); ok && constraint == "championships_organizer_id_name_key" {
			return ErrChampionshipNameConflict
		}
		return translateError(fmt.Errorf("create championship: %w", err))
	}
	return nil
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1 AND NOT deleted`

	c := &models.Championship{}
	if err := scanChampionship(getExecutor(exec, r.db).QueryRowContext(ctx, query, id), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, translateError(fmt.Errorf("get championship %d: %w", id, err))
	}
	return c, nil
}

func (r *postgresChampionshipRepository) ListByOrganizer(ctx context.Context, organizerID int) ([]models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships
		WHERE organizer_id = $1 AND NOT deleted ORDER BY initial_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list championships for organizer %d: %w", organizerID, err))
	}
	defer rows.Close()

	championships := make([]models.Championship, 0)
	for rows.Next() {
		var c models.Championship
		if err := scanChampionship(rows, &c); err != nil {
			return nil, translateError(fmt.Errorf("scan championship row: %w", err))
		}
		championships = append(championships, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return championships, nil
}

func (r *postgresChampionshipRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ChampionshipStatus) error {
	query := `UPDATE championships SET status = $1 WHERE id = $2 AND NOT deleted`
	result, err := getExecutor(exec, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		return translateError(fmt.Errorf("update championship %d status: %w", id, err))
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE championships SET deleted = TRUE WHERE id = $1 AND NOT deleted`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(fmt.Errorf("delete championship %d: %w", id, err))
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) LockForUpdate(ctx context.Context, exec SQLExecutor, id int) error {
	if _, err := getExecutor(exec, r.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(id)); err != nil {
		return translateError(fmt.Errorf("lock championship %d: %w", id, err))
	}
	return nil
}

func (r *postgresChampionshipRepository) AddTeam(ctx context.Context, exec SQLExecutor, championshipID, teamID int) error {
	query := `INSERT INTO championship_teams (championship_id, team_id) VALUES ($1, $2)`
	if _, err := getExecutor(exec, r.db).ExecContext(ctx, query, championshipID, teamID); err != nil {
		if _, code, ok := constraintOf(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrChampionshipTeamExists
			case pqForeignKeyViolation:
				return ErrChampionshipTeamInvalid
			}
		}
		return translateError(fmt.Errorf("add team %d to championship %d: %w", teamID, championshipID, err))
	}
	return nil
}

func (r *postgresChampionshipRepository) ListTeams(ctx context.Context, exec SQLExecutor, championshipID int) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns("t") + `
		FROM teams t
		JOIN championship_teams ct ON ct.team_id = t.id
		WHERE ct.championship_id = $1 AND NOT t.deleted
		ORDER BY ct.id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list teams of championship %d: %w", championshipID, err))
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, translateError(fmt.Errorf("scan team row: %w", err))
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return teams, nil
}

func (r *postgresChampionshipRepository) CountTeams(ctx context.Context, exec SQLExecutor, championshipID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM championship_teams WHERE championship_id = $1`
	if err := getExecutor(exec, r.db).QueryRowContext(ctx, query, championshipID).Scan(&count); err != nil {
		return 0, translateError(fmt.Errorf("count teams of championship %d: %w", championshipID, err))
	}
	return count, nil
}
