package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/labj86/calorie-tracker/internal/domain"
)

var testConfig = Config{Secret: "test-secret", Issuer: "calorie-tracker.test"}

func TestSignParseRoundTrip(t *testing.T) {
	token, err := Sign(Claims{
		Subject:   "user-1",
		TenantID:  "tenant-1",
		Scopes:    map[string]struct{}{ScopeActivitiesRead: {}},
		ExpiresAt: time.Now().Add(time.Hour),
	}, testConfig)
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, domain.Owner{TenantID: "tenant-1", UserID: "user-1"}, claims.Owner())
	require.True(t, claims.CanRead())
	require.False(t, claims.HasScope(ScopeActivitiesWrite))
}

func TestParseRejectsWrongIssuerAndExpired(t *testing.T) {
	base := Claims{Subject: "u", TenantID: "t", ExpiresAt: time.Now().Add(time.Hour)}

	token, err := Sign(base, Config{Secret: testConfig.Secret, Issuer: "someone-else"})
	require.NoError(t, err)
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	base.ExpiresAt = time.Now().Add(-time.Minute)
	token, err = Sign(base, testConfig)
	require.NoError(t, err)
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse("  ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewMiddleware(testConfig).Wrap(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/form", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Nil(t, seen)

	token, err := Sign(Claims{Subject: "u", TenantID: "t", ExpiresAt: time.Now().Add(time.Hour)}, testConfig)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/form", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	require.Equal(t, "u", seen.Subject)
}

func TestBearerToken(t *testing.T) {
	_, err := bearerToken("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = bearerToken("Basic abc")
	require.ErrorIs(t, err, ErrInvalidToken)

	token, err := bearerToken("bearer  abc.def ")
	require.NoError(t, err)
	require.Equal(t, "abc.def", token)
}

func TestUnauthorizedBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewMiddleware(testConfig).Wrap(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/activities", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
	require.JSONEq(t, `{"type":"unauthorized","detail":"missing bearer token"}`, rr.Body.String())
}
