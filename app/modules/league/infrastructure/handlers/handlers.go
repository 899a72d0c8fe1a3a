package leaguehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jas7457/playlist-party/app/api"
	leagueservice "github.com/jas7457/playlist-party/app/modules/league/application"
)

// LeagueHandlers handles HTTP requests for leagues and standings.
type LeagueHandlers struct {
	service *leagueservice.LeagueService
	logger  *slog.Logger
}

// NewLeagueHandlers creates a new LeagueHandlers instance.
func NewLeagueHandlers(service *leagueservice.LeagueService, logger *slog.Logger) *LeagueHandlers {
	return &LeagueHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the league routes.
func (h *LeagueHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/leagues", func(r chi.Router) {
		r.Post("/", h.CreateLeague)
		r.Get("/", h.ListLeagues)
		r.Route("/{leagueID}", func(r chi.Router) {
			r.Get("/", h.GetLeague)
			r.Get("/standings", h.Standings)
			r.Post("/members", h.JoinLeague)
		})
	})
}

type createLeagueRequest struct {
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	MemberIDs         []uuid.UUID `json:"memberIds"`
	VotesPerRound     int         `json:"votesPerRound"`
	DaysForSubmission int         `json:"daysForSubmission"`
	DaysForVoting     int         `json:"daysForVoting"`
	StartDate         *time.Time  `json:"startDate"`
}

// CreateLeague creates a league owned by the caller.
func (h *LeagueHandlers) CreateLeague(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := leagueservice.CreateLeagueInput{
		Title:             req.Title,
		Description:       req.Description,
		MemberIDs:         req.MemberIDs,
		VotesPerRound:     req.VotesPerRound,
		DaysForSubmission: req.DaysForSubmission,
		DaysForVoting:     req.DaysForVoting,
	}
	if req.StartDate != nil {
		in.StartDate = *req.StartDate
	}

	league, err := h.service.CreateLeague(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, leagueservice.ErrInvalidInput) {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to create league", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, league)
}

// ListLeagues returns the caller's leagues.
func (h *LeagueHandlers) ListLeagues(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	leagues, err := h.service.ListLeagues(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list leagues", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, leagues)
}

// GetLeague returns one league the caller belongs to.
func (h *LeagueHandlers) GetLeague(w http.ResponseWriter, r *http.Request) {
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

	league, err := h.service.GetLeague(r.Context(), leagueID, userID)
	if err != nil {
		h.respondLeagueError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, league)
}

// Standings returns the league table over completed rounds.
func (h *LeagueHandlers) Standings(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.service.Standings(r.Context(), leagueID, userID)
	if err != nil {
		h.respondLeagueError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, result)
}

// JoinLeague adds the caller to the league.
func (h *LeagueHandlers) JoinLeague(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.JoinLeague(r.Context(), leagueID, userID); err != nil {
		h.respondLeagueError(w, r, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *LeagueHandlers) respondLeagueError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leagueservice.ErrLeagueNotFound):
		api.RespondError(w, http.StatusNotFound, "League not found")
	case errors.Is(err, leagueservice.ErrNotMember):
		api.RespondError(w, http.StatusForbidden, "Not a member of this league")
	default:
		h.logger.ErrorContext(r.Context(), "League request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
