package userhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jas7457/playlist-party/app/api"
	userservice "github.com/jas7457/playlist-party/app/modules/user/application"
)

// UserHandlers handles HTTP requests for user profiles and preferences.
type UserHandlers struct {
	service *userservice.UserService
	logger  *slog.Logger
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(service *userservice.UserService, logger *slog.Logger) *UserHandlers {
	return &UserHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the user routes.
func (h *UserHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/users/me", func(r chi.Router) {
		r.Get("/", h.GetMe)
		r.Put("/", h.UpdateMe)
		r.Put("/preferences", h.UpdatePreferences)
	})
}

// GetMe returns the authenticated user's profile.
func (h *UserHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			api.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to load user", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PhoneCarrier string `json:"phoneCarrier"`
}

// UpdateMe creates or updates the authenticated user's profile.
func (h *UserHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpsertProfile(r.Context(), userID, userservice.UpdateProfileInput{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PhoneCarrier: req.PhoneCarrier,
	})
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidInput) {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to save user", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, user)
}

// UpdatePreferences replaces the authenticated user's notification opt-ins.
func (h *UserHandlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserID(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var preferences map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&preferences); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdatePreferences(r.Context(), userID, preferences); err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			api.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to update preferences", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
