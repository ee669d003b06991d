package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/Dosada05/championship-manager/storage"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
)

type CreateChampionshipInput struct {
	Name                    string    `json:"name" validate:"required,max=120"`
	Description             *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	InitialDate             time.Time `json:"initial_date" validate:"required"`
	FinalDate               time.Time `json:"final_date" validate:"required,gtfield=InitialDate"`
	TeamQuantity            int       `json:"team_quantity" validate:"required,min=2,max=64"`
	Format                  string    `json:"format" validate:"required,oneof=knockout league_system group_stage"`
	SportType               string    `json:"sport_type" validate:"required,oneof=soccer volleyball"`
	DoubleMatchEliminations bool      `json:"double_match_eliminations"`
	DoubleMatchGroupStage   bool      `json:"double_match_group_stage"`
	DoubleStartLeagueSystem bool      `json:"double_start_league_system"`
}

type ChampionshipService interface {
	Create(ctx context.Context, organizerID int, input CreateChampionshipInput) (*models.Championship, error)
	GetByID(ctx context.Context, id int) (*models.Championship, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]models.Championship, error)
	AddTeam(ctx context.Context, championshipID, teamID int) error
	UpdateStatus(ctx context.Context, id int, status models.ChampionshipStatus) (*models.Championship, error)
	Delete(ctx context.Context, id int) error
	HandleChangeChampionshipStatus(ctx context.Context, job jobs.ChangeChampionshipStatus) error
}

type championshipService struct {
	tx            repositories.TxRunner
	championships repositories.ChampionshipRepository
	teams         repositories.TeamRepository
	matches       repositories.MatchRepository
	queue         JobEnqueuer
	uploader      storage.FileUploader
	clock         clockwork.Clock
	validate      *validator.Validate
	logger        *slog.Logger
}

func NewChampionshipService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	teams repositories.TeamRepository,
	matches repositories.MatchRepository,
	queue JobEnqueuer,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	logger *slog.Logger,
) ChampionshipService {
	return &championshipService{
		tx:            tx,
		championships: championships,
		teams:         teams,
		matches:       matches,
		queue:         queue,
		uploader:      uploader,
		clock:         clock,
		validate:      newValidator(),
		logger:        logger,
	}
}

func capacityMessages(format models.Format, quantity int) []string {
	switch format {
	case models.FormatKnockout:
		if _, err := brackets.PhaseForTeamCount(quantity); err != nil {
			return []string{"team_quantity must be a power of two between 2 and 64 for knockout championships"}
		}
	case models.FormatGroupStage:
		if _, err := brackets.GroupCountForTeams(quantity); err != nil {
			return []string{"team_quantity must be 4, 8, 16, 32 or 64 for group stage championships"}
		}
	}
	return nil
}

func (s *championshipService) Create(ctx context.Context, organizerID int, input CreateChampionshipInput) (*models.Championship, error) {
	input.Name = strings.TrimSpace(input.Name)
	messages := inputMessages(ctx, s.validate, input)
	if len(messages) == 0 {
		messages = capacityMessages(models.Format(input.Format), input.TeamQuantity)
	}
	if err := validationErrorOrNil(messages); err != nil {
		return nil, err
	}

	championship := &models.Championship{
		Name:                    input.Name,
		Description:             input.Description,
		InitialDate:             input.InitialDate,
		FinalDate:               input.FinalDate,
		TeamQuantity:            input.TeamQuantity,
		Format:                  models.Format(input.Format),
		SportType:               models.SportType(input.SportType),
		Status:                  models.ChampionshipCreated,
		OrganizerID:             organizerID,
		DoubleMatchEliminations: input.DoubleMatchEliminations,
		DoubleMatchGroupStage:   input.DoubleMatchGroupStage,
		DoubleStartLeagueSystem: input.DoubleStartLeagueSystem,
	}
	if err := s.championships.Create(ctx, nil, championship); err != nil {
		return nil, translateRepoError(err)
	}

	s.scheduleStatusChanges(ctx, championship)
	return championship, nil
}

// scheduleStatusChanges activates the championship at its initial date and closes it at its final date.
func (s *championshipService) scheduleStatusChanges(ctx context.Context, c *models.Championship) {
	now := s.clock.Now()
	schedule := []struct {
		at     time.Time
		status models.ChampionshipStatus
	}{
		{c.InitialDate, models.ChampionshipActive},
		{c.FinalDate, models.ChampionshipInactive},
	}
	for _, item := range schedule {
		payload := jobs.ChangeChampionshipStatus{ChampionshipID: c.ID, Status: item.status}
		if _, err := s.queue.Enqueue(ctx, payload, item.at.Sub(now)); err != nil {
			s.logger.Error("failed to schedule championship status change",
				slog.Int("championship_id", c.ID),
				slog.String("status", string(item.status)),
				slog.Any("error", err),
			)
		}
	}
}

func (s *championshipService) GetByID(ctx context.Context, id int) (*models.Championship, error) {
	championship, err := s.championships.GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	teams, err := s.championships.ListTeams(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	populateTeamsEmblemURL(teams, s.uploader)
	championship.Teams = teams
	if championship.LogoKey != nil && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*championship.LogoKey); url != "" {
			championship.LogoURL = &url
		}
	}
	return championship, nil
}

func (s *championshipService) ListByOrganizer(ctx context.Context, organizerID int) ([]models.Championship, error) {
	return s.championships.ListByOrganizer(ctx, organizerID)
}

// AddTeam registers a team while the bracket has not been generated yet.
func (s *championshipService) AddTeam(ctx context.Context, championshipID, teamID int) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championships.LockForUpdate(ctx, exec, championshipID); err != nil {
			return err
		}
		championship, err := s.championships.GetByID(ctx, exec, championshipID)
		if err != nil {
			return translateRepoError(err)
		}
		if championship.Status == models.ChampionshipCanceled {
			return fmt.Errorf("%w: championship is canceled", ErrChampionshipInvalidStatus)
		}
		team, err := s.teams.GetByID(ctx, exec, teamID)
		if err != nil {
			return translateRepoError(err)
		}
		if team.SportType != championship.SportType {
			return fmt.Errorf("%w: team plays %s, championship is %s", ErrSportMismatch, team.SportType, championship.SportType)
		}

		matchCount, err := s.matches.CountByChampionship(ctx, exec, championshipID)
		if err != nil {
			return err
		}
		if matchCount > 0 {
			return ErrBracketAlreadyExists
		}
		teamCount, err := s.championships.CountTeams(ctx, exec, championshipID)
		if err != nil {
			return err
		}
		if teamCount >= championship.TeamQuantity {
			return fmt.Errorf("%w: capacity is %d", ErrChampionshipFull, championship.TeamQuantity)
		}

		return translateRepoError(s.championships.AddTeam(ctx, exec, championshipID, teamID))
	})
}

func (s *championshipService) UpdateStatus(ctx context.Context, id int, status models.ChampionshipStatus) (*models.Championship, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Messages: []string{fmt.Sprintf("status must be one of [created active inactive canceled], got %q", status)}}
	}

	var updated *models.Championship
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championships.LockForUpdate(ctx, exec, id); err != nil {
			return err
		}
		championship, err := s.championships.GetByID(ctx, exec, id)
		if err != nil {
			return translateRepoError(err)
		}
		if !isValidStatusTransition(championship.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrChampionshipInvalidStatus, championship.Status, status)
		}
		if err := s.championships.UpdateStatus(ctx, exec, id, status); err != nil {
			return translateRepoError(err)
		}
		championship.Status = status
		updated = championship
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *championshipService) Delete(ctx context.Context, id int) error {
	return translateRepoError(s.championships.SoftDelete(ctx, id))
}

// HandleChangeChampionshipStatus applies a scheduled status change. Changes that are no longer
// allowed, for example on a canceled championship, are skipped.
func (s *championshipService) HandleChangeChampionshipStatus(ctx context.Context, job jobs.ChangeChampionshipStatus) error {
	_, err := s.UpdateStatus(ctx, job.ChampionshipID, job.Status)
	switch {
	case err == nil:
		s.logger.Info("championship status changed",
			slog.Int("championship_id", job.ChampionshipID),
			slog.String("status", string(job.Status)),
		)
		return nil
	case errors.Is(err, ErrChampionshipInvalidStatus), errors.Is(err, ErrChampionshipNotFound):
		s.logger.Warn("skipping scheduled status change",
			slog.Int("championship_id", job.ChampionshipID),
			slog.String("status", string(job.Status)),
			slog.Any("reason", err),
		)
		return nil
	default:
		return err
	}
}
