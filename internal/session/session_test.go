package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerdhub/internal/domain/models"
)

func TestSession_Lifecycle(t *testing.T) {
	s := New()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())

	_, err := s.Require()
	assert.ErrorIs(t, err, ErrAuthRequired)

	user := models.UserRef{ID: 7, Name: "Ana", Email: "ana@email.com"}
	token := s.Login(user)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, s.Token())

	got, err := s.Require()
	require.NoError(t, err)
	assert.Equal(t, user, got)

	s.Refresh("Ana Maria", "ana.maria@email.com")
	got, _ = s.Current()
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, "ana.maria@email.com", got.Email)

	s.Logout()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSession_SwitchAccountIssuesNewToken(t *testing.T) {
	s := New()

	first := s.Login(models.UserRef{ID: 1})
	second := s.Login(models.UserRef{ID: 2})

	assert.NotEqual(t, first, second)

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)
}

func TestSession_RefreshWhenLoggedOut(t *testing.T) {
	s := New()
	s.Refresh("x", "y")

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_SnapshotIsCopied(t *testing.T) {
	s := New()
	s.Login(models.UserRef{ID: 1, Name: "Ana"})

	got, _ := s.Current()
	got.Name = "mutated"

	again, _ := s.Current()
	assert.Equal(t, "Ana", again.Name)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			s.Login(models.UserRef{ID: id})
		}(int64(i))
		go func() {
			defer wg.Done()
			s.Current()
			s.Token()
		}()
	}
	wg.Wait()

	_, ok := s.Current()
	assert.True(t, ok)
}
