package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/championship-manager/services"
)

const maxEmblemSize = 5 << 20

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// GetTeam godoc
// @Summary Получить команду
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /teams/{teamID} [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRoster godoc
// @Summary Состав команды (игроки и временные игроки)
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Router /teams/{teamID}/players [get]
func (h *TeamHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.teamService.Roster(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEligiblePlayers godoc
// @Summary Игроки команды, допущенные к событиям матча
// @Tags teams
// @Produce json
// @Param matchID path int true "Match ID"
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{matchID}/teams/{teamID}/players [get]
func (h *TeamHandler) GetEligiblePlayers(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.teamService.EligiblePlayers(r.Context(), teamID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadEmblem godoc
// @Summary Загрузить эмблему команды
// @Tags teams
// @Accept multipart/form-data
// @Produce json
// @Param teamID path int true "Team ID"
// @Param emblem formData file true "Emblem image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неподдерживаемый тип файла"
// @Failure 503 {object} map[string]string "Загрузка файлов не настроена"
// @Security BearerAuth
// @Router /teams/{teamID}/emblem [post]
func (h *TeamHandler) UploadEmblem(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEmblemSize)
	file, header, err := r.FormFile("emblem")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	team, err := h.teamService.UploadEmblem(r.Context(), teamID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
