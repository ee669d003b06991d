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

type CreateGoalInput struct {
	MatchID               int  `json:"-"`
	TeamID                int  `json:"team_id" validate:"required,gt=0"`
	PlayerID              *int `json:"player_id,omitempty" validate:"omitempty,gt=0"`
	PlayerTempID          *int `json:"player_temp_id,omitempty" validate:"omitempty,gt=0"`
	AssistingPlayerID     *int `json:"assisting_player_id,omitempty" validate:"omitempty,gt=0"`
	AssistingPlayerTempID *int `json:"assisting_player_temp_id,omitempty" validate:"omitempty,gt=0"`
	OwnGoal               bool `json:"own_goal"`
	Minutes               *int `json:"minutes,omitempty" validate:"omitempty,min=0,max=200"`
	Set                   int  `json:"set" validate:"min=0,max=5"`
}

func (in CreateGoalInput) scorer() models.PlayerRef {
	return models.PlayerRef{PlayerID: in.PlayerID, PlayerTempID: in.PlayerTempID}
}

func (in CreateGoalInput) assister() models.PlayerRef {
	return models.PlayerRef{PlayerID: in.AssistingPlayerID, PlayerTempID: in.AssistingPlayerTempID}
}

type GoalService interface {
	CreateGoal(ctx context.Context, input CreateGoalInput) (*models.Goal, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Goal, error)
}

type goalService struct {
	settlement *settlement
	goals      repositories.GoalRepository
	resolver   *rosterResolver
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewGoalService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	roster repositories.RosterRepository,
	lineups repositories.LineupRepository,
	queue JobEnqueuer,
	events EventPublisher,
	logger *slog.Logger,
) GoalService {
	return &goalService{
		settlement: newSettlement(tx, championships, matches, goals, queue, events, logger),
		goals:      goals,
		resolver:   &rosterResolver{roster: roster, lineups: lineups},
		validate:   newValidator(),
		logger:     logger,
	}
}

// CreateGoal appends a goal to the match log. A volleyball goal that wins the third set ends the
// match and may advance the bracket.
func (s *goalService) CreateGoal(ctx context.Context, input CreateGoalInput) (*models.Goal, error) {
	messages := inputMessages(ctx, s.validate, input)
	messages = append(messages, playerRefMessages("scorer", input.scorer())...)
	assister := input.assister()
	if assister.PlayerID != nil && assister.PlayerTempID != nil {
		messages = append(messages, "assister: only one of assisting_player_id or assisting_player_temp_id may be set")
	}
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		MatchID:               input.MatchID,
		TeamID:                input.TeamID,
		PlayerRef:             input.scorer(),
		AssistingPlayerID:     input.AssistingPlayerID,
		AssistingPlayerTempID: input.AssistingPlayerTempID,
		OwnGoal:               input.OwnGoal,
		Minutes:               input.Minutes,
		Set:                   input.Set,
	}

	_, err := s.settlement.withLockedMatch(ctx, input.MatchID, func(exec repositories.SQLExecutor, championship *models.Championship, match *models.Match, effects *settleEffects) error {
		if match.IsResolved() {
			return ErrMatchFinished
		}
		if match.Penalties {
			return fmt.Errorf("%w: penalty shootout in progress", ErrMatchFinished)
		}
		if !match.HasTeam(goal.TeamID) {
			return ErrTeamNotInMatch
		}

		eligible, err := s.resolver.eligible(ctx, exec, goal.TeamID, match.ID)
		if err != nil {
			return err
		}
		if !containsRef(eligible, goal.PlayerRef) {
			return fmt.Errorf("%w: scorer", ErrPlayerNotOnTeam)
		}
		if assister.IsValid() && !containsRef(eligible, assister) {
			return fmt.Errorf("%w: assister", ErrPlayerNotOnTeam)
		}

		settler, err := scoring.ForSport(championship.SportType)
		if err != nil {
			return err
		}
		goals, err := s.goals.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return err
		}
		if err := settler.ValidateGoal(match, goals, goal); err != nil {
			return err
		}
		if err := s.goals.Create(ctx, exec, goal); err != nil {
			return translateRepoError(err)
		}

		if championship.SportType != models.SportVolleyball {
			return nil
		}
		result := settler.Settle(match, append(goals, *goal))
		if !result.Decided {
			return nil
		}
		return s.settlement.resolve(ctx, exec, championship, match, repositories.MatchResult{Winner: result.Winner}, effects)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) ListByMatch(ctx context.Context, matchID int) ([]models.Goal, error) {
	if _, err := s.settlement.matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, translateRepoError(err)
	}
	return s.goals.ListByMatch(ctx, nil, matchID)
}
