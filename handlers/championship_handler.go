package handlers

import (
	"net/http"

	"github.com/Dosada05/championship-manager/middleware"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/services"
)

type ChampionshipHandler struct {
	championshipService services.ChampionshipService
	bracketService      services.BracketService
	matchService        services.MatchService
	teamService         services.TeamService
	statisticsService   services.StatisticsService
}

func NewChampionshipHandler(
	cs services.ChampionshipService,
	bs services.BracketService,
	ms services.MatchService,
	ts services.TeamService,
	ss services.StatisticsService,
) *ChampionshipHandler {
	return &ChampionshipHandler{
		championshipService: cs,
		bracketService:      bs,
		matchService:        ms,
		teamService:         ts,
		statisticsService:   ss,
	}
}

type addTeamRequest struct {
	TeamID int `json:"team_id"`
}

type updateStatusRequest struct {
	Status models.ChampionshipStatus `json:"status"`
}

// CreateChampionship godoc
// @Summary Создать чемпионат
// @Tags championships
// @Accept json
// @Produce json
// @Param input body services.CreateChampionshipInput true "Championship"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{} "Ошибки валидации"
// @Security BearerAuth
// @Router /championships [post]
func (h *ChampionshipHandler) CreateChampionship(w http.ResponseWriter, r *http.Request) {
	var input services.CreateChampionshipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	championship, err := h.championshipService.Create(r.Context(), organizerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetChampionship godoc
// @Summary Получить чемпионат с командами
// @Tags championships
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /championships/{championshipID} [get]
func (h *ChampionshipHandler) GetChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMyChampionships godoc
// @Summary Чемпионаты текущего организатора
// @Tags championships
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /championships/mine [get]
func (h *ChampionshipHandler) ListMyChampionships(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	championships, err := h.championshipService.ListByOrganizer(r.Context(), organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if championships == nil {
		championships = []models.Championship{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championships": championships}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatus godoc
// @Summary Сменить статус чемпионата
// @Tags championships
// @Accept json
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Param input body updateStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Недопустимый переход"
// @Security BearerAuth
// @Router /championships/{championshipID}/status [patch]
func (h *ChampionshipHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateStatusRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteChampionship godoc
// @Summary Мягко удалить чемпионат
// @Tags championships
// @Param championshipID path int true "Championship ID"
// @Success 204
// @Security BearerAuth
// @Router /championships/{championshipID} [delete]
func (h *ChampionshipHandler) DeleteChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.championshipService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTeam godoc
// @Summary Зарегистрировать команду в чемпионате
// @Tags championships
// @Accept json
// @Param championshipID path int true "Championship ID"
// @Param input body addTeamRequest true "Team"
// @Success 204
// @Failure 409 {object} map[string]string "Команда уже зарегистрирована / чемпионат заполнен"
// @Security BearerAuth
// @Router /championships/{championshipID}/teams [post]
func (h *ChampionshipHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addTeamRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 {
		failedValidationResponse(w, r, []string{"team_id is required"})
		return
	}

	if err := h.championshipService.AddTeam(r.Context(), id, input.TeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTeams godoc
// @Summary Команды чемпионата
// @Tags championships
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Router /championships/{championshipID}/teams [get]
func (h *ChampionshipHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ListByChampionship(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary Матчи чемпионата
// @Tags championships
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Router /championships/{championshipID}/matches [get]
func (h *ChampionshipHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByChampionship(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateBracket godoc
// @Summary Сгенерировать сетку чемпионата
// @Tags brackets
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Param format path string true "knockout | league_system | group_stage"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Формат не совпадает / команд не хватает"
// @Failure 409 {object} map[string]string "Сетка уже создана"
// @Security BearerAuth
// @Router /championships/{championshipID}/brackets/{format} [post]
func (h *ChampionshipHandler) CreateBracket(format models.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := getIDFromURL(r, "championshipID")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}

		var matches []*models.Match
		switch format {
		case models.FormatKnockout:
			matches, err = h.bracketService.CreateKnockout(r.Context(), id)
		case models.FormatLeagueSystem:
			matches, err = h.bracketService.CreateLeagueSystem(r.Context(), id)
		default:
			matches, err = h.bracketService.CreateGroupStage(r.Context(), id)
		}
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}

		if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

// GetClassifications godoc
// @Summary Турнирная таблица
// @Tags statistics
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Таблица недоступна для плей-офф"
// @Router /championships/{championshipID}/classifications [get]
func (h *ChampionshipHandler) GetClassifications(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.statisticsService.GetClassifications(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"classifications": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStrikers godoc
// @Summary Бомбардиры чемпионата
// @Tags statistics
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Router /championships/{championshipID}/strikers [get]
func (h *ChampionshipHandler) GetStrikers(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	strikers, err := h.statisticsService.GetStrikers(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"strikers": strikers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
