package handlers

import (
	"net/http"

	"github.com/Dosada05/championship-manager/services"
)

type MatchHandler struct {
	matchService   services.MatchService
	goalService    services.GoalService
	penaltyService services.PenaltyService
	foulService    services.FoulService
	lineupService  services.LineupService
}

func NewMatchHandler(
	ms services.MatchService,
	gs services.GoalService,
	ps services.PenaltyService,
	fs services.FoulService,
	ls services.LineupService,
) *MatchHandler {
	return &MatchHandler{
		matchService:   ms,
		goalService:    gs,
		penaltyService: ps,
		foulService:    fs,
		lineupService:  ls,
	}
}

type walkoverRequest struct {
	WinnerID int `json:"winner_id"`
}

// GetMatch godoc
// @Summary Матч с голами, пенальти, фолами и составами
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} models.MatchDetails
// @Failure 404 {object} map[string]string
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.matchService.GetDetails(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatch godoc
// @Summary Изменить дату, место, судью, форму или признак овертайма
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.UpdateMatchInput true "Match details"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{matchID} [patch]
func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateDetails(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndGame godoc
// @Summary Завершить матч
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Матч нельзя завершить"
// @Failure 409 {object} map[string]string "Матч уже завершён"
// @Security BearerAuth
// @Router /matches/{matchID}/end [post]
func (h *MatchHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.EndGame(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Walkover godoc
// @Summary Техническая победа (W.O.)
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body walkoverRequest true "Winner"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{matchID}/walkover [post]
func (h *MatchHandler) Walkover(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input walkoverRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		failedValidationResponse(w, r, []string{"winner_id is required"})
		return
	}

	match, err := h.matchService.Walkover(r.Context(), matchID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateGoal godoc
// @Summary Добавить гол (очко в волейболе)
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.CreateGoalInput true "Goal"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный сет / игрок не в составе"
// @Failure 422 {object} map[string]interface{} "Ошибки валидации"
// @Security BearerAuth
// @Router /matches/{matchID}/goals [post]
func (h *MatchHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateGoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	goal, err := h.goalService.CreateGoal(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"goal": goal}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListGoals godoc
// @Summary Голы матча
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{matchID}/goals [get]
func (h *MatchHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	goals, err := h.goalService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"goals": goals}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreatePenalty godoc
// @Summary Добавить удар в серии пенальти
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.CreatePenaltyInput true "Penalty kick"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{matchID}/penalties [post]
func (h *MatchHandler) CreatePenalty(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreatePenaltyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	penalty, err := h.penaltyService.CreatePenalty(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"penalty": penalty}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPenalties godoc
// @Summary Серия пенальти матча
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{matchID}/penalties [get]
func (h *MatchHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	penalties, err := h.penaltyService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"penalties": penalties}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateFoul godoc
// @Summary Добавить фол / карточку
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.CreateFoulInput true "Foul"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{matchID}/fouls [post]
func (h *MatchHandler) CreateFoul(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateFoulInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	foul, err := h.foulService.CreateFoul(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"foul": foul}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListFouls godoc
// @Summary Фолы матча
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{matchID}/fouls [get]
func (h *MatchHandler) ListFouls(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fouls, err := h.foulService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fouls": fouls}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetLineup godoc
// @Summary Стартовый состав команды на матч
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.SetFirstStringInput true "Lineup"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{matchID}/lineup [post]
func (h *MatchHandler) SetLineup(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SetFirstStringInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	lineup, err := h.lineupService.SetFirstString(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"lineup": lineup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateReplacement godoc
// @Summary Замена игрока
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.CreateReplacementInput true "Replacement"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Лимит замен / игрок не на поле"
// @Security BearerAuth
// @Router /matches/{matchID}/replacements [post]
func (h *MatchHandler) CreateReplacement(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateReplacementInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	replacement, err := h.lineupService.CreateReplacement(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"replacement": replacement}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
