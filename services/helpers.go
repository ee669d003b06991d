package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/Dosada05/championship-manager/storage"
	"github.com/google/uuid"
)

// JobEnqueuer schedules deferred work. *jobs.Queue implements it.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, payload jobs.Payload, delay time.Duration) (uuid.UUID, error)
}

// EventPublisher pushes live updates to championship followers. *brackets.Hub implements it.
type EventPublisher interface {
	Publish(championshipID int, eventType string, payload interface{})
}

// --- Общие хелперы ---

// translateRepoError maps repository sentinels to service sentinels. Storage failures pass
// through unchanged so handlers can answer "try again later".
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrChampionshipNotFound):
		return ErrChampionshipNotFound
	case errors.Is(err, repositories.ErrTeamNotFound), errors.Is(err, repositories.ErrChampionshipTeamInvalid):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrChampionshipTeamExists):
		return ErrTeamAlreadyRegistered
	case errors.Is(err, repositories.ErrChampionshipNameConflict):
		return ErrChampionshipNameConflict
	case errors.Is(err, repositories.ErrGoalPlayerInvalid):
		return ErrPlayerNotOnTeam
	case errors.Is(err, repositories.ErrLineupPlayerExists):
		return ErrPlayerAlreadyInLineup
	default:
		return err
	}
}

var allowedStatusTransitions = map[models.ChampionshipStatus][]models.ChampionshipStatus{
	models.ChampionshipCreated:  {models.ChampionshipActive, models.ChampionshipCanceled},
	models.ChampionshipActive:   {models.ChampionshipInactive, models.ChampionshipCanceled},
	models.ChampionshipInactive: {models.ChampionshipActive, models.ChampionshipCanceled},
	models.ChampionshipCanceled: {},
}

func isValidStatusTransition(current, next models.ChampionshipStatus) bool {
	for _, allowedNextStatus := range allowedStatusTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// --- Хелперы для заполнения URL эмблем ---

func populateTeamEmblemURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.EmblemKey != nil && *team.EmblemKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.EmblemKey)
		if url != "" {
			team.EmblemURL = &url
		}
	}
}

func populateTeamsEmblemURL(teams []models.Team, uploader storage.FileUploader) {
	for i := range teams {
		populateTeamEmblemURL(&teams[i], uploader)
	}
}

// GetExtensionFromContentType returns the file extension of an image content type.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	}
	if strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}
	return "", fmt.Errorf("%w: could not determine file extension from '%s'", ErrInvalidContentType, contentType)
}

func playerRefMessages(field string, ref models.PlayerRef) []string {
	if ref.IsValid() {
		return nil
	}
	return []string{fmt.Sprintf("%s: exactly one of player_id or player_temp_id must be set", field)}
}

func containsRef(players []models.RosterPlayer, ref models.PlayerRef) bool {
	for i := range players {
		if players[i].PlayerRef.Same(ref) {
			return true
		}
	}
	return false
}

func intRef(v int) *int { return &v }
