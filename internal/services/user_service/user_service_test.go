package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/lib/apperr"
	"nerdhub/internal/lib/logger/handlers/slogdiscard"
	"nerdhub/internal/lib/password"
	"nerdhub/internal/session"
	"nerdhub/internal/storage"
	"nerdhub/internal/transport/http/dto"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UserByID(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error {
	args := m.Called(ctx, userID, upd)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Users(ctx context.Context) ([]models.UserRef, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.UserRef), args.Error(1)
}

func strPtr(s string) *string { return &s }

func loggedIn(user models.User) *session.Session {
	sess := session.New()
	sess.Login(user.Ref())
	return sess
}

var testUser = models.User{
	ID:           5,
	Name:         "Ana",
	Email:        "ana@email.com",
	PasswordHash: password.Digest("1234"),
	Phone:        strPtr("11987654321"),
	BirthDate:    strPtr("15031990"),
}

func TestUserService_RequiresSession(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

	_, err := service.Profile(ctx, session.New())
	assert.ErrorIs(t, err, session.ErrAuthRequired)

	_, err = service.UpdateProfile(ctx, session.New(), dto.UpdateProfileInput{Name: "X"})
	assert.ErrorIs(t, err, session.ErrAuthRequired)

	err = service.ChangePassword(ctx, session.New(), dto.ChangePasswordInput{
		CurrentPassword: "1234", NewPassword: "abcd", ConfirmPassword: "abcd",
	})
	assert.ErrorIs(t, err, session.ErrAuthRequired)

	repo.AssertExpectations(t)
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

	repo.On("UserByID", ctx, int64(5)).Return(testUser, nil).Once()

	profile, err := service.Profile(ctx, loggedIn(testUser))
	require.NoError(t, err)
	assert.Equal(t, "11987654321", profile.Phone)
	assert.Equal(t, "(11) 9 8765-4321", profile.PhoneDisplay)
	assert.Equal(t, "15/03/1990", profile.BirthDateDisplay)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("only phone supplied, normalized to digits", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("UpdateProfile", ctx, int64(5), models.ProfileUpdate{Phone: strPtr("11912345678")}).Return(nil).Once()
		repo.On("UserByID", ctx, int64(5)).Return(testUser, nil).Once()

		_, err := service.UpdateProfile(ctx, loggedIn(testUser), dto.UpdateProfileInput{Phone: "(11) 9 1234-5678"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("session snapshot refreshed", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)
		sess := loggedIn(testUser)

		renamed := testUser
		renamed.Name = "Ana Maria"

		repo.On("UpdateProfile", ctx, int64(5), models.ProfileUpdate{Name: strPtr("Ana Maria")}).Return(nil).Once()
		repo.On("UserByID", ctx, int64(5)).Return(renamed, nil).Once()

		profile, err := service.UpdateProfile(ctx, sess, dto.UpdateProfileInput{Name: " Ana Maria "})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", profile.Name)

		current, _ := sess.Current()
		assert.Equal(t, "Ana Maria", current.Name)
	})

	t.Run("email conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("UpdateProfile", ctx, int64(5), mock.Anything).
			Return(storage.ErrEmailExists).Once()

		_, err := service.UpdateProfile(ctx, loggedIn(testUser), dto.UpdateProfileInput{Email: "outro@email.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid values rejected before storage", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		for _, in := range []dto.UpdateProfileInput{
			{Email: "nope"},
			{Phone: "119876543210"},
			{BirthDate: "1503199012"},
		} {
			_, err := service.UpdateProfile(ctx, loggedIn(testUser), in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		}

		repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("UpdateProfile", ctx, int64(5), mock.Anything).Return(errors.New("locked")).Once()

		_, err := service.UpdateProfile(ctx, loggedIn(testUser), dto.UpdateProfileInput{Name: "B"})
		assert.ErrorIs(t, err, apperr.ErrStorage)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("UserByID", ctx, int64(5)).Return(testUser, nil).Once()
		repo.On("UpdatePassword", ctx, int64(5), password.Digest("nova")).Return(nil).Once()

		err := service.ChangePassword(ctx, loggedIn(testUser), dto.ChangePasswordInput{
			CurrentPassword: "1234", NewPassword: "nova", ConfirmPassword: "nova",
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		repo.On("UserByID", ctx, int64(5)).Return(testUser, nil).Once()

		err := service.ChangePassword(ctx, loggedIn(testUser), dto.ChangePasswordInput{
			CurrentPassword: "errada", NewPassword: "nova", ConfirmPassword: "nova",
		})
		assert.ErrorIs(t, err, ErrWrongPassword)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmation mismatch and short password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

		err := service.ChangePassword(ctx, loggedIn(testUser), dto.ChangePasswordInput{
			CurrentPassword: "1234", NewPassword: "nova", ConfirmPassword: "novo",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		err = service.ChangePassword(ctx, loggedIn(testUser), dto.ChangePasswordInput{
			CurrentPassword: "1234", NewPassword: "abc", ConfirmPassword: "abc",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		repo.AssertExpectations(t)
	})
}

func TestUserService_Users(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(slogdiscard.NewDiscardLogger(), repo)

	repo.On("Users", ctx).Return([]models.UserRef{{ID: 1, Name: "Ana"}}, nil).Once()

	users, err := service.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	repo.On("Users", ctx).Return([]models.UserRef(nil), errors.New("boom")).Once()

	_, err = service.Users(ctx)
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
