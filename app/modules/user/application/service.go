package userservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	userdb "github.com/jas7457/playlist-party/app/modules/user/infrastructure/repositories"
)

// Domain errors for user operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// UserService owns account profiles and notification preferences.
type UserService struct {
	userDB userdb.Repository
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userDB userdb.Repository, logger *slog.Logger) *UserService {
	return &UserService{userDB: userDB, logger: logger}
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*userdb.User, error) {
	user, err := s.userDB.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Name         string
	Username     string
	Email        string
	Phone        string
	PhoneCarrier string
}

// UpsertProfile creates or updates the user's profile.
func (s *UserService) UpsertProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*userdb.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	user := &userdb.User{
		ID:           userID,
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		Phone:        in.Phone,
		PhoneCarrier: in.PhoneCarrier,
	}
	if err := s.userDB.Upsert(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "User profile saved",
		slog.String("user_id", userID.String()),
		slog.String("username", user.Username),
	)
	return user, nil
}

// UpdatePreferences replaces the user's notification opt-in map.
func (s *UserService) UpdatePreferences(ctx context.Context, userID uuid.UUID, preferences map[string]bool) error {
	if err := s.userDB.UpdatePreferences(ctx, nil, userID, preferences); err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}
