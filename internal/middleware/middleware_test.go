package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"baby-care-tracker/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	claims auth.Claims
	err    error
}

func (f fakeVerifier) Verify(_ context.Context, _ string) (auth.Claims, error) {
	return f.claims, f.err
}

func TestAuthContext_DevHeader(t *testing.T) {
	var got auth.Claims
	h := AuthContext(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "u-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u-1", got.UserID)
}

func TestAuthContext_Verifier(t *testing.T) {
	var (
		got   auth.Claims
		ok    bool
		token string
	)
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
		token = GetAccessToken(r.Context())
	})

	h := AuthContext(fakeVerifier{claims: auth.Claims{UserID: "u-2"}})(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "u-2", got.UserID)
	assert.Equal(t, "abc", token)

	// token inválido: sigue sin claims
	h = AuthContext(fakeVerifier{err: errors.New("expired")})(next)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)

	// el header de debug se ignora cuando hay verifier
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "intruder")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestTenantContextAndRequireTenant(t *testing.T) {
	resolver := TenantResolverFunc(func(_ context.Context, principalID string) (Tenant, bool) {
		if principalID != "u-1" {
			return Tenant{}, false
		}
		return Tenant{CaregiverID: "u-1", FamilyID: "fam-1"}, true
	})

	var got Tenant
	h := AuthContext(nil)(TenantContext(resolver)(RequireTenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetTenant(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))))

	cases := []struct {
		user   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"orphan", http.StatusForbidden},
		{"u-1", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.user != "" {
			req.Header.Set(DebugUserHeader, tc.user)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.user)
	}
	assert.Equal(t, Tenant{PrincipalID: "u-1", CaregiverID: "u-1", FamilyID: "fam-1"}, got)
}
