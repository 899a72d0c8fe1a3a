package votehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jas7457/playlist-party/app/api"
	voteservice "github.com/jas7457/playlist-party/app/modules/vote/application"
)

// VoteHandlers handles HTTP requests for vote casting.
type VoteHandlers struct {
	service *voteservice.VoteService
	logger  *slog.Logger
}

// NewVoteHandlers creates a new VoteHandlers instance.
func NewVoteHandlers(service *voteservice.VoteService, logger *slog.Logger) *VoteHandlers {
	return &VoteHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the vote routes.
func (h *VoteHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/api/rounds/{roundID}/votes", h.CastVote)
}

type castVoteRequest struct {
	SubmissionID  uuid.UUID  `json:"submissionId"`
	Points        int        `json:"points"`
	Note          string     `json:"note"`
	GuessedUserID *uuid.UUID `json:"guessedUserId"`
}

// CastVote records, updates, or retracts the caller's vote on a submission.
// Zero points retracts; a cast that would overrun the budget is rejected
// with the overage in the error message.
func (h *VoteHandlers) CastVote(w http.ResponseWriter, r *http.Request) {
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

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CastVote(r.Context(), userID, roundID, voteservice.CastVoteInput{
		SubmissionID:  req.SubmissionID,
		Points:        req.Points,
		Note:          req.Note,
		GuessedUserID: req.GuessedUserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, voteservice.ErrInvalidPoints),
			errors.Is(err, voteservice.ErrBudgetExceeded):
			api.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, voteservice.ErrVotingNotOpen),
			errors.Is(err, voteservice.ErrVotingEnded),
			errors.Is(err, voteservice.ErrNotMember):
			api.RespondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, voteservice.ErrRoundNotFound):
			api.RespondError(w, http.StatusNotFound, "Round not found")
		case errors.Is(err, voteservice.ErrSubmissionNotFound):
			api.RespondError(w, http.StatusNotFound, "Submission not found")
		default:
			h.logger.ErrorContext(r.Context(), "Vote cast failed", slog.Any("error", err))
			api.RespondError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	if result.Deleted || result.Vote == nil {
		api.RespondJSON(w, http.StatusOK, map[string]bool{"success": true, "deleted": result.Deleted})
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]any{"vote": result.Vote})
}
