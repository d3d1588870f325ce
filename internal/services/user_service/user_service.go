package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/digits"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/lib/password"
	"nerdhub/internal/session"
	"nerdhub/internal/storage"
	"nerdhub/internal/transport/http/dto"
)

var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrWrongPassword = errors.New("current password does not match")
	ErrUserNotFound  = errors.New("user not found")
)

type UserRepository interface {
	UserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	Users(ctx context.Context) ([]models.UserRef, error)
}

type UserService struct {
	log      *slog.Logger
	repo     UserRepository
	validate *validator.Validate
}

func NewUserService(log *slog.Logger, repo UserRepository) *UserService {
	return &UserService{
		log:      log,
		repo:     repo,
		validate: apperr.NewValidator(),
	}
}

// profileFields is the normalized form of UpdateProfileInput that reaches storage.
type profileFields struct {
	Name      string `json:"name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,numeric,max=11"`
	BirthDate string `json:"birth_date" validate:"omitempty,numeric,max=8"`
}

func (s *UserService) Profile(ctx context.Context, sess *session.Session) (*dto.ProfileResponse, error) {
	const op = "services.UserService.Profile"

	current, err := sess.Require()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", current.ID))

	user, err := s.repo.UserByID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("session user is gone")
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to load profile", sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	return toProfileResponse(user), nil
}

func toProfileResponse(u models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}

	if u.Phone != nil && *u.Phone != "" {
		resp.Phone = *u.Phone
		resp.PhoneDisplay = digits.FormatPhone(*u.Phone)
	}
	if u.BirthDate != nil && *u.BirthDate != "" {
		resp.BirthDate = *u.BirthDate
		resp.BirthDateDisplay = digits.FormatBirthDate(*u.BirthDate)
	}

	return resp
}

// UpdateProfile writes only the fields present in input and refreshes the session snapshot.
func (s *UserService) UpdateProfile(ctx context.Context, sess *session.Session, input dto.UpdateProfileInput) (*dto.ProfileResponse, error) {
	const op = "services.UserService.UpdateProfile"

	current, err := sess.Require()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", current.ID))

	if err := s.validate.Struct(input); err != nil {
		log.Warn("invalid profile data", sl.Err(err))
		return nil, apperr.Validation(op, err)
	}

	fields := profileFields{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     digits.Only(input.Phone),
		BirthDate: digits.Only(input.BirthDate),
	}

	if err := s.validate.Struct(fields); err != nil {
		log.Warn("invalid profile data", sl.Err(err))
		return nil, apperr.Validation(op, err)
	}

	upd := models.ProfileUpdate{
		Name:      nonEmpty(fields.Name),
		Email:     nonEmpty(fields.Email),
		Phone:     nonEmpty(fields.Phone),
		BirthDate: nonEmpty(fields.BirthDate),
	}

	if err := s.repo.UpdateProfile(ctx, current.ID, upd); err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailExists):
			log.Warn("email already taken", slog.String("email", fields.Email))
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to update profile", sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	user, err := s.repo.UserByID(ctx, current.ID)
	if err != nil {
		log.Error("failed to reload profile", sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	sess.Refresh(user.Name, user.Email)

	log.Info("profile updated")

	return toProfileResponse(user), nil
}

// ChangePassword requires the current password before storing the new digest.
func (s *UserService) ChangePassword(ctx context.Context, sess *session.Session, input dto.ChangePasswordInput) error {
	const op = "services.UserService.ChangePassword"

	current, err := sess.Require()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", current.ID))

	if err := s.validate.Struct(input); err != nil {
		log.Warn("invalid password change", sl.Err(err))
		return apperr.Validation(op, err)
	}

	user, err := s.repo.UserByID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to load user", sl.Err(err))
		return apperr.Storage(op, err)
	}

	if !password.Matches(user.PasswordHash, input.CurrentPassword) {
		log.Warn("wrong current password")
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	if err := s.repo.UpdatePassword(ctx, current.ID, password.Digest(input.NewPassword)); err != nil {
		log.Error("failed to update password", sl.Err(err))
		return apperr.Storage(op, err)
	}

	log.Info("password changed")

	return nil
}

// Users lists every account; backs the "users" CLI command.
func (s *UserService) Users(ctx context.Context) ([]models.UserRef, error) {
	const op = "services.UserService.Users"

	users, err := s.repo.Users(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), sl.Err(err))
		return nil, apperr.Storage(op, err)
	}

	return users, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
