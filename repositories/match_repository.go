package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

var (
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchChampionshipInvalid = errors.New("match championship invalid")
	ErrMatchTeamInvalid         = errors.New("match team invalid")
	// ErrMatchLineageConflict means a match descending from the same previous match already exists.
	ErrMatchLineageConflict = errors.New("next phase match already exists for previous match")
)

// MatchResult is the outcome written when a match is settled.
type MatchResult struct {
	Winner    *int
	Tied      bool
	Penalties bool
	WO        bool
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.Match, error)
	// ListByPhase returns the matches of one phase in insertion order.
	ListByPhase(ctx context.Context, exec SQLExecutor, championshipID int, phase models.Phase) ([]*models.Match, error)
	CountByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) (int, error)
	SetResult(ctx context.Context, exec SQLExecutor, id int, result MatchResult) error
	UpdateDetails(ctx context.Context, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, championship_id, home_id, visitor_id, round, phase, group_number, date, local, arbitrator,
	uniform_home, uniform_away, previous_match_id, winner, tied, penalties, prorrogation, wo, created_at`

func scanMatch(row interface{ Scan(dest ...any) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.ChampionshipID, &m.HomeID, &m.VisitorID, &m.Round, &m.Phase, &m.GroupNumber, &m.Date, &m.Local,
		&m.Arbitrator, &m.UniformHome, &m.UniformAway, &m.PreviousMatchID, &m.Winner, &m.Tied, &m.Penalties,
		&m.Prorrogation, &m.WO, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(championship_id, home_id, visitor_id, round, phase, group_number, date, previous_match_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (previous_match_id) WHERE previous_match_id IS NOT NULL DO NOTHING
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		m.ChampionshipID, m.HomeID, m.VisitorID, m.Round, m.Phase, m.GroupNumber, m.Date, m.PreviousMatchID,
	).Scan(&m.ID, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// ON CONFLICT DO NOTHING returns no row; the transaction stays usable.
		return ErrMatchLineageConflict
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	if err := scanMatch(getExecutor(exec, r.db).QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, translateError(fmt.Errorf("get match %d: %w", id, err))
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE championship_id = $1
		ORDER BY phase ASC NULLS FIRST, round ASC NULLS FIRST, id ASC`
	return r.list(ctx, getExecutor(exec, r.db), query, championshipID)
}

func (r *postgresMatchRepository) ListByPhase(ctx context.Context, exec SQLExecutor, championshipID int, phase models.Phase) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE championship_id = $1 AND phase = $2 ORDER BY id ASC`
	return r.list(ctx, getExecutor(exec, r.db), query, championshipID, phase)
}

func (r *postgresMatchRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(fmt.Errorf("list matches: %w", err))
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, translateError(fmt.Errorf("scan match row: %w", err))
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(fmt.Errorf("error during match rows iteration: %w", err))
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM matches WHERE championship_id = $1`
	if err := getExecutor(exec, r.db).QueryRowContext(ctx, query, championshipID).Scan(&count); err != nil {
		return 0, translateError(fmt.Errorf("count matches of championship %d: %w", championshipID, err))
	}
	return count, nil
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, id int, res MatchResult) error {
	query := `UPDATE matches SET winner = $1, tied = $2, penalties = $3, wo = $4 WHERE id = $5`
	result, err := getExecutor(exec, r.db).ExecContext(ctx, query, res.Winner, res.Tied, res.Penalties, res.WO, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateDetails(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches
		SET date = $1, local = $2, arbitrator = $3, uniform_home = $4, uniform_away = $5, prorrogation = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		m.Date, m.Local, m.Arbitrator, m.UniformHome, m.UniformAway, m.Prorrogation, m.ID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, _, ok := constraintOf(err); ok {
		switch constraint {
		case "matches_previous_match_id_key":
			return ErrMatchLineageConflict
		case "matches_championship_id_fkey":
			return ErrMatchChampionshipInvalid
		case "matches_home_id_fkey", "matches_visitor_id_fkey", "matches_winner_fkey", "matches_winner_check":
			return ErrMatchTeamInvalid
		}
	}
	return translateError(err)
}
