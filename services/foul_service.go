package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/go-playground/validator/v10"
)

type CreateFoulInput struct {
	MatchID      int     `json:"-"`
	TeamID       int     `json:"team_id" validate:"required,gt=0"`
	PlayerID     *int    `json:"player_id,omitempty" validate:"omitempty,gt=0"`
	PlayerTempID *int    `json:"player_temp_id,omitempty" validate:"omitempty,gt=0"`
	Card         *string `json:"card,omitempty" validate:"omitempty,oneof=yellow red"`
	Minutes      *int    `json:"minutes,omitempty" validate:"omitempty,min=0,max=200"`
}

type FoulService interface {
	CreateFoul(ctx context.Context, input CreateFoulInput) (*models.Foul, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Foul, error)
}

type foulService struct {
	tx            repositories.TxRunner
	championships repositories.ChampionshipRepository
	matches       repositories.MatchRepository
	fouls         repositories.FoulRepository
	resolver      *rosterResolver
	validate      *validator.Validate
}

func NewFoulService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	fouls repositories.FoulRepository,
	roster repositories.RosterRepository,
	lineups repositories.LineupRepository,
) FoulService {
	return &foulService{
		tx:            tx,
		championships: championships,
		matches:       matches,
		fouls:         fouls,
		resolver:      &rosterResolver{roster: roster, lineups: lineups},
		validate:      newValidator(),
	}
}

func (s *foulService) CreateFoul(ctx context.Context, input CreateFoulInput) (*models.Foul, error) {
	ref := models.PlayerRef{PlayerID: input.PlayerID, PlayerTempID: input.PlayerTempID}
	messages := inputMessages(ctx, s.validate, input)
	messages = append(messages, playerRefMessages("player", ref)...)
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	foul := &models.Foul{
		MatchID:   input.MatchID,
		TeamID:    input.TeamID,
		PlayerRef: ref,
		Minutes:   input.Minutes,
	}
	if input.Card != nil {
		card := models.CardType(*input.Card)
		foul.Card = &card
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matches.GetByID(ctx, exec, foul.MatchID)
		if err != nil {
			return translateRepoError(err)
		}
		championship, err := s.championships.GetByID(ctx, exec, match.ChampionshipID)
		if err != nil {
			return translateRepoError(err)
		}
		if championship.SportType != models.SportSoccer {
			return ErrFoulsUnsupportedSport
		}
		if match.IsResolved() {
			return ErrMatchFinished
		}
		if !match.HasTeam(foul.TeamID) {
			return ErrTeamNotInMatch
		}
		roster, err := s.resolver.fullRoster(ctx, exec, foul.TeamID)
		if err != nil {
			return err
		}
		if !containsRef(roster, foul.PlayerRef) {
			return fmt.Errorf("%w: fouling player", ErrPlayerNotOnTeam)
		}
		return translateRepoError(s.fouls.Create(ctx, exec, foul))
	})
	if err != nil {
		return nil, err
	}
	return foul, nil
}

func (s *foulService) ListByMatch(ctx context.Context, matchID int) ([]models.Foul, error) {
	if _, err := s.matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, translateRepoError(err)
	}
	return s.fouls.ListByMatch(ctx, matchID)
}
