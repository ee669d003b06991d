package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
)

type BracketCreatedPayload struct {
	ChampionshipID int             `json:"championship_id"`
	Format         models.Format   `json:"format"`
	Matches        []*models.Match `json:"matches"`
}

type BracketService interface {
	CreateKnockout(ctx context.Context, championshipID int) ([]*models.Match, error)
	CreateLeagueSystem(ctx context.Context, championshipID int) ([]*models.Match, error)
	CreateGroupStage(ctx context.Context, championshipID int) ([]*models.Match, error)
}

type bracketService struct {
	tx              repositories.TxRunner
	championships   repositories.ChampionshipRepository
	matches         repositories.MatchRepository
	classifications repositories.ClassificationRepository
	events          EventPublisher
	logger          *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewBracketService builds the service. rng drives knockout and group draws; pass a seeded
// source for reproducible brackets.
func NewBracketService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	classifications repositories.ClassificationRepository,
	events EventPublisher,
	rng *rand.Rand,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:              tx,
		championships:   championships,
		matches:         matches,
		classifications: classifications,
		events:          events,
		rng:             rng,
		logger:          logger,
	}
}

func (s *bracketService) CreateKnockout(ctx context.Context, championshipID int) ([]*models.Match, error) {
	return s.create(ctx, championshipID, models.FormatKnockout)
}

func (s *bracketService) CreateLeagueSystem(ctx context.Context, championshipID int) ([]*models.Match, error) {
	return s.create(ctx, championshipID, models.FormatLeagueSystem)
}

func (s *bracketService) CreateGroupStage(ctx context.Context, championshipID int) ([]*models.Match, error) {
	return s.create(ctx, championshipID, models.FormatGroupStage)
}

func (s *bracketService) create(ctx context.Context, championshipID int, format models.Format) ([]*models.Match, error) {
	var created []*models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championships.LockForUpdate(ctx, exec, championshipID); err != nil {
			return err
		}
		championship, err := s.championships.GetByID(ctx, exec, championshipID)
		if err != nil {
			return translateRepoError(err)
		}
		if championship.Format != format {
			return fmt.Errorf("%w: championship is %s", ErrFormatMismatch, championship.Format)
		}
		if championship.Status == models.ChampionshipCanceled {
			return fmt.Errorf("%w: championship is canceled", ErrChampionshipInvalidStatus)
		}

		existing, err := s.matches.CountByChampionship(ctx, exec, championshipID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrBracketAlreadyExists
		}

		teams, err := s.championships.ListTeams(ctx, exec, championshipID)
		if err != nil {
			return err
		}
		if len(teams) != championship.TeamQuantity {
			return fmt.Errorf("%w: %d of %d teams registered", ErrTeamCountMismatch, len(teams), championship.TeamQuantity)
		}
		teamIDs := make([]int, len(teams))
		for i := range teams {
			teamIDs[i] = teams[i].ID
		}
		sort.Ints(teamIDs)

		generated, err := s.generate(ctx, championship, teamIDs)
		if err != nil {
			return err
		}

		created = make([]*models.Match, 0, len(generated))
		for _, bm := range generated {
			match := bm.ToMatch(championshipID)
			if err := s.matches.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to save generated match %d vs %d: %w", bm.HomeID, bm.VisitorID, err)
			}
			created = append(created, match)
		}

		if !championship.Format.HasStandings() {
			return nil
		}
		return s.seedClassifications(ctx, exec, championshipID, teamIDs, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket created",
		slog.Int("championship_id", championshipID),
		slog.String("format", string(format)),
		slog.Int("matches", len(created)),
	)
	s.events.Publish(championshipID, brackets.EventBracketCreated, BracketCreatedPayload{
		ChampionshipID: championshipID,
		Format:         format,
		Matches:        created,
	})
	return created, nil
}

func (s *bracketService) generate(ctx context.Context, championship *models.Championship, teamIDs []int) ([]*brackets.BracketMatch, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	generator, err := brackets.ForFormat(championship.Format, s.rng)
	if err != nil {
		return nil, err
	}
	generated, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Championship: championship,
		TeamIDs:      teamIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("%s generator: %w", generator.GetName(), err)
	}
	return generated, nil
}

// seedClassifications creates one zeroed row per team so tables exist before the first result.
// Group-stage rows take the group number of the team's matches.
func (s *bracketService) seedClassifications(ctx context.Context, exec repositories.SQLExecutor, championshipID int,
	teamIDs []int, matches []*models.Match) error {

	groupOf := make(map[int]int)
	for _, m := range matches {
		if m.GroupNumber != nil {
			groupOf[m.HomeID] = *m.GroupNumber
			groupOf[m.VisitorID] = *m.GroupNumber
		}
	}

	rows := make([]*models.Classification, 0, len(teamIDs))
	positions := make(map[int]int)
	for _, id := range teamIDs {
		row := &models.Classification{ChampionshipID: championshipID, TeamID: id}
		key := 0
		if g, ok := groupOf[id]; ok {
			group := g
			row.GroupNumber = &group
			key = g
		}
		positions[key]++
		row.Position = positions[key]
		rows = append(rows, row)
	}
	if err := s.classifications.BatchCreate(ctx, exec, rows); err != nil {
		return translateRepoError(err)
	}
	return nil
}
