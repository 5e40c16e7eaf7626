package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("provider-secret"))
	require.NoError(t, err)
	return signed
}

func newTokenServer(t *testing.T, response map[string]interface{}, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}))
}

func newTestProvider(serverURL string) *Provider {
	return NewProvider(ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      serverURL + "/authorize",
		TokenURL:     serverURL + "/token",
		RedirectURL:  "http://localhost:8080/api/auth/callback",
	})
}

func TestExchangeSuccess(t *testing.T) {
	idToken := signIDToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	srv := newTokenServer(t, map[string]interface{}{
		"access_token": "at-123",
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     idToken,
	}, http.StatusOK)
	defer srv.Close()

	session, err := newTestProvider(srv.URL).Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user-1", session.Subject)
	assert.Equal(t, "ada@example.com", session.Email)
	assert.Equal(t, "at-123", session.AccessToken)
}

func TestExchangeProviderFailure(t *testing.T) {
	srv := newTokenServer(t, map[string]interface{}{"error": "invalid_grant"}, http.StatusBadRequest)
	defer srv.Close()

	session, err := newTestProvider(srv.URL).Exchange(context.Background(), "expired-code")
	assert.Error(t, err)
	assert.Nil(t, session)
}

func TestExchangeNoIDToken(t *testing.T) {
	srv := newTokenServer(t, map[string]interface{}{
		"access_token": "at-123",
		"token_type":   "Bearer",
	}, http.StatusOK)
	defer srv.Close()

	session, err := newTestProvider(srv.URL).Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Nil(t, session, "a token response without identity is no session")
}

func TestExchangeNoSubject(t *testing.T) {
	idToken := signIDToken(t, jwt.MapClaims{"email": "ada@example.com"})
	srv := newTokenServer(t, map[string]interface{}{
		"access_token": "at-123",
		"token_type":   "Bearer",
		"id_token":     idToken,
	}, http.StatusOK)
	defer srv.Close()

	session, err := newTestProvider(srv.URL).Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}
