package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/Dosada05/championship-manager/scoring"
	"github.com/go-playground/validator/v10"
)

type CreatePenaltyInput struct {
	MatchID      int  `json:"-"`
	TeamID       int  `json:"team_id" validate:"required,gt=0"`
	PlayerID     *int `json:"player_id,omitempty" validate:"omitempty,gt=0"`
	PlayerTempID *int `json:"player_temp_id,omitempty" validate:"omitempty,gt=0"`
	IsConverted  bool `json:"is_converted"`
}

type PenaltyService interface {
	CreatePenalty(ctx context.Context, input CreatePenaltyInput) (*models.Penalty, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Penalty, error)
}

type penaltyService struct {
	settlement *settlement
	penalties  repositories.PenaltyRepository
	resolver   *rosterResolver
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewPenaltyService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	penalties repositories.PenaltyRepository,
	roster repositories.RosterRepository,
	lineups repositories.LineupRepository,
	queue JobEnqueuer,
	events EventPublisher,
	logger *slog.Logger,
) PenaltyService {
	return &penaltyService{
		settlement: newSettlement(tx, championships, matches, goals, queue, events, logger),
		penalties:  penalties,
		resolver:   &rosterResolver{roster: roster, lineups: lineups},
		validate:   newValidator(),
		logger:     logger,
	}
}

// CreatePenalty records one shootout kick. The kick that decides the shootout resolves the match
// with Penalties set and runs phase advancement.
func (s *penaltyService) CreatePenalty(ctx context.Context, input CreatePenaltyInput) (*models.Penalty, error) {
	ref := models.PlayerRef{PlayerID: input.PlayerID, PlayerTempID: input.PlayerTempID}
	messages := inputMessages(ctx, s.validate, input)
	messages = append(messages, playerRefMessages("kicker", ref)...)
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	kick := &models.Penalty{
		MatchID:     input.MatchID,
		TeamID:      input.TeamID,
		PlayerRef:   ref,
		IsConverted: input.IsConverted,
	}

	_, err := s.settlement.withLockedMatch(ctx, input.MatchID, func(exec repositories.SQLExecutor, championship *models.Championship, match *models.Match, effects *settleEffects) error {
		if championship.SportType != models.SportSoccer {
			return fmt.Errorf("%w: %s has no shootouts", ErrPenaltyShootoutNotApplicable, championship.SportType)
		}
		if match.IsResolved() {
			if match.Penalties {
				return scoring.ErrShootoutDecided
			}
			return ErrMatchFinished
		}
		if match.IsGroupOrLeague() {
			return fmt.Errorf("%w: draws stand in league and group matches", ErrPenaltyShootoutNotApplicable)
		}
		if !match.HasTeam(kick.TeamID) {
			return ErrTeamNotInMatch
		}

		goals, err := s.settlement.goals.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return err
		}
		settler, err := scoring.ForSport(championship.SportType)
		if err != nil {
			return err
		}
		if score := settler.Settle(match, goals); score.HomeScore != score.VisitorScore {
			return fmt.Errorf("%w: score is %d-%d", scoring.ErrShootoutNotApplicable, score.HomeScore, score.VisitorScore)
		}

		eligible, err := s.resolver.eligible(ctx, exec, kick.TeamID, match.ID)
		if err != nil {
			return err
		}
		if !containsRef(eligible, kick.PlayerRef) {
			return fmt.Errorf("%w: kicker", ErrPlayerNotOnTeam)
		}

		history, err := s.penalties.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return err
		}
		if scoring.DecideShootout(history, match.HomeID, match.VisitorID) != nil {
			return scoring.ErrShootoutDecided
		}
		if err := scoring.ValidateKick(history, *kick, len(eligible)); err != nil {
			return err
		}

		if !match.Penalties {
			if err := s.settlement.markShootout(ctx, exec, match, effects); err != nil {
				return err
			}
		}
		if err := s.penalties.Create(ctx, exec, kick); err != nil {
			return translateRepoError(err)
		}

		winner := scoring.DecideShootout(append(history, *kick), match.HomeID, match.VisitorID)
		if winner == nil {
			return nil
		}
		s.logger.Info("penalty shootout decided",
			slog.Int("match_id", match.ID),
			slog.Int("winner", *winner),
			slog.Int("kicks", len(history)+1),
		)
		return s.settlement.resolve(ctx, exec, championship, match, repositories.MatchResult{Winner: winner, Penalties: true}, effects)
	})
	if err != nil {
		return nil, err
	}
	return kick, nil
}

func (s *penaltyService) ListByMatch(ctx context.Context, matchID int) ([]models.Penalty, error) {
	if _, err := s.settlement.matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, translateRepoError(err)
	}
	return s.penalties.ListByMatch(ctx, nil, matchID)
}
