package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/go-playground/validator/v10"
)

// Лимит замен на команду за матч.
var replacementLimits = map[models.SportType]int{
	models.SportSoccer:     5,
	models.SportVolleyball: 6,
}

type LineupPlayerInput struct {
	PlayerID     *int `json:"player_id,omitempty" validate:"omitempty,gt=0"`
	PlayerTempID *int `json:"player_temp_id,omitempty" validate:"omitempty,gt=0"`
}

func (in LineupPlayerInput) ref() models.PlayerRef {
	return models.PlayerRef{PlayerID: in.PlayerID, PlayerTempID: in.PlayerTempID}
}

type SetFirstStringInput struct {
	MatchID int                 `json:"-"`
	TeamID  int                 `json:"team_id" validate:"required,gt=0"`
	Players []LineupPlayerInput `json:"players" validate:"required,min=1,dive"`
}

type CreateReplacementInput struct {
	MatchID            int               `json:"-"`
	TeamID             int               `json:"team_id" validate:"required,gt=0"`
	Replaced           LineupPlayerInput `json:"replaced"`
	Replacer           LineupPlayerInput `json:"replacer"`
	ReplacementMinutes *int              `json:"replacement_minutes,omitempty" validate:"omitempty,min=0,max=200"`
}

type LineupService interface {
	SetFirstString(ctx context.Context, input SetFirstStringInput) ([]models.FirstStringPlayer, error)
	CreateReplacement(ctx context.Context, input CreateReplacementInput) (*models.Replacement, error)
}

type lineupService struct {
	tx            repositories.TxRunner
	championships repositories.ChampionshipRepository
	matches       repositories.MatchRepository
	lineups       repositories.LineupRepository
	resolver      *rosterResolver
	validate      *validator.Validate
}

func NewLineupService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	roster repositories.RosterRepository,
	lineups repositories.LineupRepository,
) LineupService {
	return &lineupService{
		tx:            tx,
		championships: championships,
		matches:       matches,
		lineups:       lineups,
		resolver:      &rosterResolver{roster: roster, lineups: lineups},
		validate:      newValidator(),
	}
}

// openMatch loads a match that still accepts lineup changes and checks that teamID plays it.
func (s *lineupService) openMatch(ctx context.Context, exec repositories.SQLExecutor, matchID, teamID int) (*models.Match, *models.Championship, error) {
	match, err := s.matches.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, nil, translateRepoError(err)
	}
	if match.IsResolved() {
		return nil, nil, ErrMatchFinished
	}
	if !match.HasTeam(teamID) {
		return nil, nil, ErrTeamNotInMatch
	}
	championship, err := s.championships.GetByID(ctx, exec, match.ChampionshipID)
	if err != nil {
		return nil, nil, translateRepoError(err)
	}
	return match, championship, nil
}

// SetFirstString stores the starters of one team. Every starter must be on the team roster.
func (s *lineupService) SetFirstString(ctx context.Context, input SetFirstStringInput) ([]models.FirstStringPlayer, error) {
	messages := inputMessages(ctx, s.validate, input)
	for i, p := range input.Players {
		messages = append(messages, playerRefMessages(fmt.Sprintf("players[%d]", i), p.ref())...)
	}
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	var created []models.FirstStringPlayer
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, _, err := s.openMatch(ctx, exec, input.MatchID, input.TeamID); err != nil {
			return err
		}
		roster, err := s.resolver.fullRoster(ctx, exec, input.TeamID)
		if err != nil {
			return err
		}
		for _, p := range input.Players {
			ref := p.ref()
			if !containsRef(roster, ref) {
				return fmt.Errorf("%w: starter", ErrPlayerNotOnTeam)
			}
			player := models.FirstStringPlayer{MatchID: input.MatchID, TeamID: input.TeamID, PlayerRef: ref}
			if err := s.lineups.CreateFirstString(ctx, exec, &player); err != nil {
				return translateRepoError(err)
			}
			created = append(created, player)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateReplacement records a substitution. The replaced player must be on the field and the
// replacer must come from the bench.
func (s *lineupService) CreateReplacement(ctx context.Context, input CreateReplacementInput) (*models.Replacement, error) {
	messages := inputMessages(ctx, s.validate, input)
	messages = append(messages, playerRefMessages("replaced", input.Replaced.ref())...)
	messages = append(messages, playerRefMessages("replacer", input.Replacer.ref())...)
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	replacement := &models.Replacement{
		MatchID:            input.MatchID,
		TeamID:             input.TeamID,
		Replaced:           input.Replaced.ref(),
		Replacer:           input.Replacer.ref(),
		ReplacementMinutes: input.ReplacementMinutes,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		_, championship, err := s.openMatch(ctx, exec, input.MatchID, input.TeamID)
		if err != nil {
			return err
		}

		replacements, err := s.lineups.ListReplacements(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}
		used := 0
		for _, r := range replacements {
			if r.TeamID == input.TeamID {
				used++
			}
		}
		if limit := replacementLimits[championship.SportType]; used >= limit {
			return fmt.Errorf("%w: %d of %d", ErrReplacementLimit, used, limit)
		}

		onField, err := s.onField(ctx, exec, input.TeamID, input.MatchID, replacements)
		if err != nil {
			return err
		}
		if !containsRef(onField, replacement.Replaced) {
			return ErrPlayerNotOnField
		}

		roster, err := s.resolver.fullRoster(ctx, exec, input.TeamID)
		if err != nil {
			return err
		}
		if !containsRef(roster, replacement.Replacer) {
			return fmt.Errorf("%w: replacer", ErrPlayerNotOnTeam)
		}
		eligible, err := s.resolver.eligible(ctx, exec, input.TeamID, input.MatchID)
		if err != nil {
			return err
		}
		// the lineup exists here, so eligible is starters plus earlier replacers
		if containsRef(eligible, replacement.Replacer) {
			return ErrPlayerAlreadyUsed
		}

		return translateRepoError(s.lineups.CreateReplacement(ctx, exec, replacement))
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

// onField is the team's lineup with every recorded substitution applied in order.
func (s *lineupService) onField(ctx context.Context, exec repositories.SQLExecutor, teamID, matchID int,
	replacements []models.Replacement) ([]models.RosterPlayer, error) {

	lineup, err := s.lineups.ListFirstString(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	var field []models.RosterPlayer
	for _, p := range lineup {
		if p.TeamID == teamID {
			field = append(field, models.RosterPlayer{PlayerRef: p.PlayerRef, TeamID: teamID})
		}
	}
	for _, r := range replacements {
		if r.TeamID != teamID {
			continue
		}
		for i := range field {
			if field[i].PlayerRef.Same(r.Replaced) {
				field[i].PlayerRef = r.Replacer
				break
			}
		}
	}
	return field, nil
}
