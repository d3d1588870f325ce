package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/sl"
	"nerdhub/internal/lib/password"
	"nerdhub/internal/metrics"
	"nerdhub/internal/session"
	"nerdhub/internal/storage"
	"nerdhub/internal/transport/http/dto"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	validate    *validator.Validate
}

type UserSaver interface {
	SaveUser(ctx context.Context, name, email, passwordHash string) (int64, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

func New(log *slog.Logger, userSaver UserSaver, userProvider UserProvider) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		validate:    apperr.NewValidator(),
	}
}

// Register stores a new user with the digest of the password and returns its id.
func (a *Auth) Register(ctx context.Context, input dto.RegisterInput) (int64, error) {
	const op = "auth.Register"

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", input.Email),
	)

	log.Info("register user")

	if err := a.validate.Struct(input); err != nil {
		log.Warn("invalid registration data", sl.Err(err))
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()

		return 0, apperr.Validation(op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, input.Name, input.Email, password.Digest(input.Password))
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			log.Warn("user already exist", sl.Err(err))
			metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()

			return 0, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()

		return 0, apperr.Storage(op, err)
	}

	log.Info("user registered", slog.Int64("user_id", id))
	metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()

	return id, nil
}

// Login checks the credentials and, on success, makes the user current in sess.
func (a *Auth) Login(ctx context.Context, sess *session.Session, email, pass string) (models.UserRef, error) {
	const op = "auth.Login"

	email = strings.TrimSpace(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login user")

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			metrics.AuthAttempts.WithLabelValues(metrics.ResultInvalid).Inc()

			return models.UserRef{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		metrics.AuthAttempts.WithLabelValues(metrics.ResultError).Inc()

		return models.UserRef{}, apperr.Storage(op, err)
	}

	if !password.Matches(user.PasswordHash, pass) {
		log.Info("invalid credentials")
		metrics.AuthAttempts.WithLabelValues(metrics.ResultInvalid).Inc()

		return models.UserRef{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	ref := user.Ref()
	sess.Login(ref)

	log.Info("user logged in successfully", slog.Int64("user_id", ref.ID))
	metrics.AuthAttempts.WithLabelValues(metrics.ResultSuccess).Inc()

	return ref, nil
}

// Logout clears sess. Used for "switch account" as well.
func (a *Auth) Logout(sess *session.Session) {
	if user, ok := sess.Current(); ok {
		a.log.Info("user logged out", slog.String("op", "auth.Logout"), slog.Int64("user_id", user.ID))
	}

	sess.Logout()
}
