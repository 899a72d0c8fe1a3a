package submissionhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jas7457/playlist-party/app/api"
	submissionservice "github.com/jas7457/playlist-party/app/modules/submission/application"
	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
)

// SubmissionHandlers handles HTTP requests for submissions and the on-deck
// shortlist.
type SubmissionHandlers struct {
	service *submissionservice.SubmissionService
	logger  *slog.Logger
}

// NewSubmissionHandlers creates a new SubmissionHandlers instance.
func NewSubmissionHandlers(service *submissionservice.SubmissionService, logger *slog.Logger) *SubmissionHandlers {
	return &SubmissionHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the submission routes.
func (h *SubmissionHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/rounds/{roundID}", func(r chi.Router) {
		r.Post("/submissions", h.Submit)
		r.Put("/submissions", h.Submit)
		r.Post("/ondeck", h.OnDeck)
	})
}

type submitRequest struct {
	TrackInfo  submissiondomain.TrackInfo `json:"trackInfo"`
	Note       string                     `json:"note"`
	YoutubeURL string                     `json:"youtubeURL"`
	Force      bool                       `json:"force"`
}

// Submit records the caller's song for the round. A forceable duplicate comes
// back as 200 {success:false, code, trackInfo} awaiting confirmation; an
// exact duplicate is a hard 409.
func (h *SubmissionHandlers) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), userID, roundID, submissionservice.SubmitInput{
		Track:      req.TrackInfo,
		Note:       req.Note,
		YoutubeURL: req.YoutubeURL,
		Force:      req.Force,
	})
	if err != nil {
		switch {
		case errors.Is(err, submissionservice.ErrDuplicateSubmission):
			api.RespondJSON(w, http.StatusConflict, map[string]any{
				"error":     err.Error(),
				"code":      result.Duplicate.Reason,
				"trackInfo": result.Duplicate.Track,
			})
		case errors.Is(err, submissionservice.ErrRoundNotFound):
			api.RespondError(w, http.StatusNotFound, "Round not found")
		case errors.Is(err, submissionservice.ErrNotMember):
			api.RespondError(w, http.StatusForbidden, "Not a member of this league")
		case errors.Is(err, submissionservice.ErrNotInSubmissionStage):
			api.RespondError(w, http.StatusForbidden, "Round is not accepting submissions")
		case errors.Is(err, submissionservice.ErrInvalidInput):
			api.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "Submission failed", slog.Any("error", err))
			api.RespondError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	if result.Duplicate != nil {
		api.RespondJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"code":      result.Duplicate.Reason,
			"trackInfo": result.Duplicate.Track,
		})
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]any{"submission": result.Submission})
}

type onDeckRequest struct {
	Action string                       `json:"action"`
	Tracks []submissiondomain.TrackInfo `json:"tracks"`
}

// OnDeck updates the caller's shortlist or pushes it to the side playlist,
// depending on the action field.
func (h *SubmissionHandlers) OnDeck(w http.ResponseWriter, r *http.Request) {
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

	var req onDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "update":
		onDeck, err := h.service.UpdateOnDeck(r.Context(), userID, roundID, req.Tracks)
		if err != nil {
			h.respondOnDeckError(w, r, err)
			return
		}
		api.RespondJSON(w, http.StatusOK, map[string]any{"onDeck": onDeck})

	case "saveToSidePlaylist":
		if err := h.service.SaveToSidePlaylist(r.Context(), userID, roundID); err != nil {
			h.respondOnDeckError(w, r, err)
			return
		}
		api.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		api.RespondError(w, http.StatusBadRequest, "Unknown action")
	}
}

func (h *SubmissionHandlers) respondOnDeckError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, submissionservice.ErrRoundNotFound):
		api.RespondError(w, http.StatusNotFound, "Round not found")
	case errors.Is(err, submissionservice.ErrNotMember):
		api.RespondError(w, http.StatusForbidden, "Not a member of this league")
	default:
		h.logger.ErrorContext(r.Context(), "On-deck request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
