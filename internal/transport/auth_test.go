package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	principals map[string]access.Principal
	err        error
}

func (r *testResolver) ResolvePrincipal(_ context.Context, token string) (access.Principal, error) {
	if r.err != nil {
		return access.Principal{}, r.err
	}
	p, ok := r.principals[token]
	if !ok {
		return access.Principal{}, ErrUnauthorized
	}
	return p, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{principals: map[string]access.Principal{
		"token": {TenantID: "tenant1", Username: "ana", Role: access.RoleManager},
	}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "tenant1", p.TenantID)
		require.Equal(t, access.RoleManager, p.Role)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{err: errors.New("invalid")}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddleware(t *testing.T) {
	var got string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", "plain")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "plain", got)

	req.Header.Set("Mcp-Session-Id", "mcp")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "mcp", got)
}
