package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/Dosada05/championship-manager/storage"
	"github.com/jonboulle/clockwork"
)

type TeamService interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByChampionship(ctx context.Context, championshipID int) ([]models.Team, error)
	Roster(ctx context.Context, teamID int) ([]models.RosterPlayer, error)
	EligiblePlayers(ctx context.Context, teamID, matchID int) ([]models.RosterPlayer, error)
	UploadEmblem(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	teams         repositories.TeamRepository
	championships repositories.ChampionshipRepository
	matches       repositories.MatchRepository
	resolver      *rosterResolver
	uploader      storage.FileUploader
	clock         clockwork.Clock
	logger        *slog.Logger
}

func NewTeamService(
	teams repositories.TeamRepository,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	roster repositories.RosterRepository,
	lineups repositories.LineupRepository,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teams:         teams,
		championships: championships,
		matches:       matches,
		resolver:      &rosterResolver{roster: roster, lineups: lineups},
		uploader:      uploader,
		clock:         clock,
		logger:        logger,
	}
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	populateTeamEmblemURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListByChampionship(ctx context.Context, championshipID int) ([]models.Team, error) {
	if _, err := s.championships.GetByID(ctx, nil, championshipID); err != nil {
		return nil, translateRepoError(err)
	}
	teams, err := s.championships.ListTeams(ctx, nil, championshipID)
	if err != nil {
		return nil, err
	}
	populateTeamsEmblemURL(teams, s.uploader)
	return teams, nil
}

func (s *teamService) Roster(ctx context.Context, teamID int) ([]models.RosterPlayer, error) {
	if _, err := s.teams.GetByID(ctx, nil, teamID); err != nil {
		return nil, translateRepoError(err)
	}
	return s.resolver.fullRoster(ctx, nil, teamID)
}

func (s *teamService) EligiblePlayers(ctx context.Context, teamID, matchID int) ([]models.RosterPlayer, error) {
	match, err := s.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !match.HasTeam(teamID) {
		return nil, ErrTeamNotInMatch
	}
	return s.resolver.eligible(ctx, nil, teamID, matchID)
}

// UploadEmblem stores a new emblem, points the team at it and removes the previous object.
func (s *teamService) UploadEmblem(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploaderUnavailable
	}
	team, err := s.teams.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := storage.TeamEmblemKey(teamID, strconv.FormatInt(s.clock.Now().Unix(), 10), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("upload emblem for team %d: %w", teamID, err)
	}

	if err := s.teams.UpdateEmblemKey(ctx, teamID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to remove orphaned emblem", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, translateRepoError(err)
	}

	if team.EmblemKey != nil && *team.EmblemKey != "" && *team.EmblemKey != key {
		if err := s.uploader.Delete(ctx, *team.EmblemKey); err != nil {
			s.logger.Warn("failed to delete previous emblem", slog.String("key", *team.EmblemKey), slog.Any("error", err))
		}
	}

	team.EmblemKey = &key
	populateTeamEmblemURL(team, s.uploader)
	return team, nil
}
