package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedeposit/timedeposit/internal/model"
)

func TestAuthServiceJWTRoundTrip(t *testing.T) {
	s := NewAuthService(nil, nil, nil, "test-secret", false, time.Hour)

	token, err := s.GenerateJWT(&model.User{ID: "user-1", Email: "saver@example.com"})
	require.NoError(t, err)

	userID, err := s.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	other := NewAuthService(nil, nil, nil, "other-secret", false, time.Hour)
	_, err = other.VerifyJWT(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsExpiredAndForeignTokens(t *testing.T) {
	s := NewAuthService(nil, nil, nil, "test-secret", false, -time.Minute)

	expired, err := s.GenerateJWT(&model.User{ID: "user-1"})
	require.NoError(t, err)
	_, err = s.VerifyJWT(expired)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.VerifyJWT(unsigned)
	assert.Error(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := noUser.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.VerifyJWT(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceCookies(t *testing.T) {
	s := NewAuthService(nil, nil, nil, "test-secret", true, time.Hour)

	rec := httptest.NewRecorder()
	s.SetJWTCookie(rec, "token", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	s.ClearJWTCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestAuthenticateOAuthCreatesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.AuthenticateOAuth(ctx, OAuthIdentity{
		Provider:  "github",
		Email:     "  Saver@Example.com ",
		Name:      "",
		AvatarURL: "https://avatars.example.com/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "saver@example.com", first.Email)

	profile, err := env.profiles.ByUserID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "saver", profile.Name)
	assert.Equal(t, "https://avatars.example.com/1", profile.AvatarURL)

	second, err := env.auth.AuthenticateOAuth(ctx, OAuthIdentity{Provider: "google", Email: "saver@example.com", Name: "Other"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = env.auth.AuthenticateOAuth(ctx, OAuthIdentity{Provider: "google", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
