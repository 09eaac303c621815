package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *GoogleOAuthService {
	return NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
		StateSecret:  "state-secret",
	})
}

func TestAuthURL_CarriesVerifiableState(t *testing.T) {
	s := newTestService()

	url, state := s.AuthURL()
	assert.Contains(t, url, "client_id=client")
	assert.Contains(t, url, "state="+state)
	require.NoError(t, s.verifyState(state))
}

func TestVerifyState_RejectsTamperedAndExpired(t *testing.T) {
	s := newTestService()
	_, state := s.AuthURL()

	assert.ErrorIs(t, s.verifyState(state+"x"), ErrInvalidState)
	assert.ErrorIs(t, s.verifyState("garbage"), ErrInvalidState)

	s.now = func() time.Time { return time.Now().Add(stateLifetime + time.Minute) }
	assert.ErrorIs(t, s.verifyState(state), ErrInvalidState)
}

func TestAuthenticate_NotConfigured(t *testing.T) {
	s := NewGoogleOAuthService(GoogleOAuthConfig{})

	_, err := s.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}
