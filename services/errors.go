package services

import (
	"errors"
	"strings"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")

	// Ошибки бизнес-правил
	ErrChampionshipFull             = errors.New("championship team capacity exceeded")
	ErrChampionshipNotActive        = errors.New("championship is not active")
	ErrChampionshipInvalidStatus    = errors.New("invalid championship status transition")
	ErrSportMismatch                = errors.New("sport does not match championship")
	ErrFormatMismatch               = errors.New("bracket format does not match championship")
	ErrTeamCountMismatch            = errors.New("registered teams do not match championship capacity")
	ErrBracketAlreadyExists         = errors.New("bracket already generated for championship")
	ErrMatchFinished                = errors.New("match already finished")
	ErrMatchNotFinished             = errors.New("match cannot be ended yet")
	ErrTeamNotInMatch               = errors.New("team does not play this match")
	ErrPlayerNotOnTeam              = errors.New("player is not eligible for this team")
	ErrReplacementLimit             = errors.New("replacement limit reached for team")
	ErrPlayerNotOnField             = errors.New("replaced player is not on the field")
	ErrPlayerAlreadyUsed            = errors.New("replacer already played in this match")
	ErrStandingsUnsupportedFormat   = errors.New("standings are not available for knockout championships")
	ErrUploaderUnavailable          = errors.New("file uploads are not configured")
	ErrInvalidContentType           = errors.New("unsupported file content type")
	ErrForbiddenOperation           = errors.New("operation not allowed for the current user")
	ErrTeamAlreadyRegistered        = errors.New("team is already registered for this championship")
	ErrChampionshipRequiresBracket  = errors.New("championship has no bracket")
	ErrChampionshipNameConflict     = errors.New("championship name already exists")
	ErrPenaltyShootoutNotApplicable = errors.New("penalty shootout requires a tied knockout match")
	ErrPlayerAlreadyInLineup        = errors.New("player is already in the match lineup")
	ErrFoulsUnsupportedSport        = errors.New("fouls are recorded for soccer matches only")

	// Ошибки, специфичные для сущностей
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMatchNotFound        = errors.New("match not found")
)

// ValidationError carries every input problem found, as human-readable messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// validationErrorOrNil returns nil when messages is empty.
func validationErrorOrNil(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
