package roundhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jas7457/playlist-party/app/api"
	roundservice "github.com/jas7457/playlist-party/app/modules/round/application"
)

// RoundHandlers handles HTTP requests for rounds.
type RoundHandlers struct {
	service *roundservice.RoundService
	logger  *slog.Logger
}

// NewRoundHandlers creates a new RoundHandlers instance.
func NewRoundHandlers(service *roundservice.RoundService, logger *slog.Logger) *RoundHandlers {
	return &RoundHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the round routes.
func (h *RoundHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/leagues/{leagueID}/rounds", func(r chi.Router) {
		r.Post("/", h.CreateRound)
		r.Get("/", h.ListRounds)
	})
	r.Get("/api/rounds/{roundID}", h.GetRound)
	r.Get("/api/rounds/{roundID}/reminders", h.ListReminders)
}

type createRoundRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	IsBonusRound bool   `json:"isBonusRound"`
}

// CreateRound schedules a new round in the league.
func (h *RoundHandlers) CreateRound(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	leagueID, err := uuid.Parse(chi.URLParam(r, "leagueID"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid league ID")
		return
	}

	var req createRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	round, err := h.service.CreateRound(r.Context(), userID, leagueID, roundservice.CreateRoundInput{
		Title:        req.Title,
		Description:  req.Description,
		IsBonusRound: req.IsBonusRound,
	})
	if err != nil {
		h.respondRoundError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, round)
}

// ListRounds returns the league's rounds decorated for the caller.
func (h *RoundHandlers) ListRounds(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	leagueID, err := uuid.Parse(chi.URLParam(r, "leagueID"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid league ID")
		return
	}

	views, err := h.service.ListRounds(r.Context(), leagueID, userID)
	if err != nil {
		h.respondRoundError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, views)
}

// GetRound returns one round decorated for the caller.
func (h *RoundHandlers) GetRound(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	roundID, err := uuid.Parse(chi.URLParam(r, "roundID"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid round ID")
		return
	}

	view, err := h.service.GetRound(r.Context(), roundID, userID)
	if err != nil {
		h.respondRoundError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, view)
}

// ListReminders returns the reminder jobs still queued for the round.
func (h *RoundHandlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	roundID, err := uuid.Parse(chi.URLParam(r, "roundID"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid round ID")
		return
	}

	jobs, err := h.service.ListReminders(r.Context(), roundID, userID)
	if err != nil {
		h.respondRoundError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]any{"reminders": jobs})
}

func (h *RoundHandlers) respondRoundError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roundservice.ErrRoundNotFound):
		api.RespondError(w, http.StatusNotFound, "Round not found")
	case errors.Is(err, roundservice.ErrLeagueNotFound):
		api.RespondError(w, http.StatusNotFound, "League not found")
	case errors.Is(err, roundservice.ErrNotMember):
		api.RespondError(w, http.StatusForbidden, "Not a member of this league")
	case errors.Is(err, roundservice.ErrInvalidInput):
		api.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Round request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
