package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/Dosada05/championship-manager/scoring"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

type UpdateMatchInput struct {
	Date         *time.Time `json:"date,omitempty"`
	Local        *string    `json:"local,omitempty" validate:"omitempty,max=200"`
	Arbitrator   *string    `json:"arbitrator,omitempty" validate:"omitempty,max=120"`
	UniformHome  *string    `json:"uniform_home,omitempty" validate:"omitempty,max=60"`
	UniformAway  *string    `json:"uniform_away,omitempty" validate:"omitempty,max=60"`
	Prorrogation *bool      `json:"prorrogation,omitempty"`
}

type MatchService interface {
	GetDetails(ctx context.Context, id int) (*models.MatchDetails, error)
	ListByChampionship(ctx context.Context, championshipID int) ([]*models.Match, error)
	EndGame(ctx context.Context, id int) (*models.Match, error)
	Walkover(ctx context.Context, id, winnerID int) (*models.Match, error)
	UpdateDetails(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
}

type matchService struct {
	settlement *settlement
	teams      repositories.TeamRepository
	penalties  repositories.PenaltyRepository
	fouls      repositories.FoulRepository
	lineups    repositories.LineupRepository
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewMatchService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	teams repositories.TeamRepository,
	penalties repositories.PenaltyRepository,
	fouls repositories.FoulRepository,
	lineups repositories.LineupRepository,
	queue JobEnqueuer,
	events EventPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		settlement: newSettlement(tx, championships, matches, goals, queue, events, logger),
		teams:      teams,
		penalties:  penalties,
		fouls:      fouls,
		lineups:    lineups,
		validate:   newValidator(),
		logger:     logger,
	}
}

// GetDetails loads the match with its event logs and the score replayed from the goal log.
func (s *matchService) GetDetails(ctx context.Context, id int) (*models.MatchDetails, error) {
	match, err := s.settlement.matches.GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	details := &models.MatchDetails{Match: match}

	var championship *models.Championship
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.settlement.championships.GetByID(gCtx, nil, match.ChampionshipID)
		if err != nil {
			return translateRepoError(err)
		}
		championship = c
		return nil
	})
	g.Go(func() error {
		home, err := s.teams.GetByID(gCtx, nil, match.HomeID)
		if err != nil {
			return translateRepoError(err)
		}
		details.Home = home
		return nil
	})
	g.Go(func() error {
		visitor, err := s.teams.GetByID(gCtx, nil, match.VisitorID)
		if err != nil {
			return translateRepoError(err)
		}
		details.Visitor = visitor
		return nil
	})
	g.Go(func() error {
		goals, err := s.settlement.goals.ListByMatch(gCtx, nil, id)
		details.Goals = goals
		return err
	})
	g.Go(func() error {
		penalties, err := s.penalties.ListByMatch(gCtx, nil, id)
		details.Penalties = penalties
		return err
	})
	g.Go(func() error {
		fouls, err := s.fouls.ListByMatch(gCtx, id)
		details.Fouls = fouls
		return err
	})
	g.Go(func() error {
		lineup, err := s.lineups.ListFirstString(gCtx, nil, id)
		details.Lineup = lineup
		return err
	})
	g.Go(func() error {
		replacements, err := s.lineups.ListReplacements(gCtx, nil, id)
		details.Replacements = replacements
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load match details", slog.Int("match_id", id), slog.Any("error", err))
		return nil, err
	}

	settler, err := scoring.ForSport(championship.SportType)
	if err != nil {
		return nil, err
	}
	result := settler.Settle(match, details.Goals)
	if championship.SportType == models.SportVolleyball {
		details.HomeScore, details.VisitorScore = result.HomeSets, result.VisitorSets
		for _, set := range result.Sets {
			details.Sets = append(details.Sets, models.SetPoints{
				Number: set.Number, Home: set.Home, Visitor: set.Visitor, Finished: set.Finished,
			})
		}
	} else {
		details.HomeScore, details.VisitorScore = result.HomeScore, result.VisitorScore
	}
	return details, nil
}

func (s *matchService) ListByChampionship(ctx context.Context, championshipID int) ([]*models.Match, error) {
	if _, err := s.settlement.championships.GetByID(ctx, nil, championshipID); err != nil {
		return nil, translateRepoError(err)
	}
	matches, err := s.settlement.matches.ListByChampionship(ctx, nil, championshipID)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// EndGame closes a match at the final whistle. A drawn soccer knockout match moves to penalties
// and stays unresolved; a volleyball match can only end once a team has won three sets.
func (s *matchService) EndGame(ctx context.Context, id int) (*models.Match, error) {
	effects, err := s.settlement.withLockedMatch(ctx, id, func(exec repositories.SQLExecutor, championship *models.Championship, match *models.Match, effects *settleEffects) error {
		if match.IsResolved() {
			return ErrMatchFinished
		}
		if match.Penalties {
			return fmt.Errorf("%w: penalty shootout in progress", ErrMatchNotFinished)
		}

		settler, err := scoring.ForSport(championship.SportType)
		if err != nil {
			return err
		}
		goals, err := s.settlement.goals.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return err
		}
		result := settler.Settle(match, goals)

		if championship.SportType == models.SportVolleyball {
			if !result.Decided {
				return fmt.Errorf("%w: sets are %d-%d", ErrMatchNotFinished, result.HomeSets, result.VisitorSets)
			}
			return s.settlement.resolve(ctx, exec, championship, match, repositories.MatchResult{Winner: result.Winner}, effects)
		}

		outcome := scoring.SoccerOutcome(match, result)
		if outcome.Penalties {
			return s.settlement.markShootout(ctx, exec, match, effects)
		}
		return s.settlement.resolve(ctx, exec, championship, match, repositories.MatchResult{
			Winner: outcome.Winner,
			Tied:   outcome.Tied,
		}, effects)
	})
	if err != nil {
		return nil, err
	}
	return effects.match, nil
}

// Walkover awards the match to winnerID without play.
func (s *matchService) Walkover(ctx context.Context, id, winnerID int) (*models.Match, error) {
	effects, err := s.settlement.withLockedMatch(ctx, id, func(exec repositories.SQLExecutor, championship *models.Championship, match *models.Match, effects *settleEffects) error {
		if match.IsResolved() {
			return ErrMatchFinished
		}
		if !match.HasTeam(winnerID) {
			return ErrTeamNotInMatch
		}
		winner := winnerID
		return s.settlement.resolve(ctx, exec, championship, match, repositories.MatchResult{Winner: &winner, WO: true}, effects)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("walkover awarded", slog.Int("match_id", id), slog.Int("winner", winnerID))
	return effects.match, nil
}

// UpdateDetails edits scheduling data only. Nil fields keep their stored value.
func (s *matchService) UpdateDetails(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	if err := validationErrorOrNil(inputMessages(ctx, s.validate, input)); err != nil {
		return nil, err
	}

	match, err := s.settlement.matches.GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if input.Date != nil {
		match.Date = input.Date
	}
	if input.Local != nil {
		match.Local = input.Local
	}
	if input.Arbitrator != nil {
		match.Arbitrator = input.Arbitrator
	}
	if input.UniformHome != nil {
		match.UniformHome = input.UniformHome
	}
	if input.UniformAway != nil {
		match.UniformAway = input.UniformAway
	}
	if input.Prorrogation != nil {
		match.Prorrogation = *input.Prorrogation
	}

	if err := s.settlement.matches.UpdateDetails(ctx, match); err != nil {
		return nil, translateRepoError(err)
	}
	return match, nil
}
