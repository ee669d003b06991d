package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/championship-manager/models"
)

var (
	ErrClassificationNotFound = errors.New("classification not found")
	ErrClassificationExists   = errors.New("classification already exists for team")
)

type ClassificationRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.Classification) error
	// ListByChampionship returns rows ordered by group number, then position.
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.Classification, error)
	UpdatePointsAndPosition(ctx context.Context, exec SQLExecutor, rows []*models.Classification) error
}

type postgresClassificationRepository struct {
	db *sql.DB
}

func NewPostgresClassificationRepository(db *sql.DB) ClassificationRepository {
	return &postgresClassificationRepository{db: db}
}

func (r *postgresClassificationRepository) BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.Classification) error {
	executor := getExecutor(exec, r.db)
	query := `
		INSERT INTO classifications (championship_id, team_id, group_number, points, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for _, c := range rows {
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = time.Now()
		}
		err := executor.QueryRowContext(ctx, query,
			c.ChampionshipID, c.TeamID, c.GroupNumber, c.Points, c.Position, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			if _, code, ok := constraintOf(err); ok && code == pqUniqueViolation {
				return ErrClassificationExists
			}
			return translateError(fmt.Errorf("BatchCreate failed for team %d: %w", c.TeamID, err))
		}
	}
	return nil
}

func (r *postgresClassificationRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.Classification, error) {
	query := `
		SELECT id, championship_id, team_id, group_number, points, position, updated_at
		FROM classifications
		WHERE championship_id = $1
		ORDER BY group_number ASC NULLS FIRST, position ASC, id ASC`

	rows, err := getExecutor(exec, r.db).QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, translateError(fmt.Errorf("list classifications of championship %d: %w", championshipID, err))
	}
	defer rows.Close()

	result := make([]*models.Classification, 0)
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.ChampionshipID, &c.TeamID, &c.GroupNumber, &c.Points, &c.Position, &c.UpdatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan classification row: %w", err))
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

func (r *postgresClassificationRepository) UpdatePointsAndPosition(ctx context.Context, exec SQLExecutor, rows []*models.Classification) error {
	executor := getExecutor(exec, r.db)
	query := `UPDATE classifications SET points = $1, position = $2, updated_at = $3 WHERE id = $4`

	for _, c := range rows {
		c.UpdatedAt = time.Now()
		result, err := executor.ExecContext(ctx, query, c.Points, c.Position, c.UpdatedAt, c.ID)
		if err != nil {
			return translateError(fmt.Errorf("update classification %d: %w", c.ID, err))
		}
		if err := checkAffectedRows(result, ErrClassificationNotFound); err != nil {
			return err
		}
	}
	return nil
}
