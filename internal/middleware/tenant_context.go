package middleware

import (
	"context"
	"net/http"
)

const tenantKey ctxKey = "tenant"

// Tenant es el (cuidador, familia) resuelto para el principal del request.
type Tenant struct {
	PrincipalID string
	CaregiverID string
	FamilyID    string
}

// TenantResolver resuelve el tenant de un principal. ok=false si no tiene perfil o familia.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, principalID string) (Tenant, bool)
}

type TenantResolverFunc func(ctx context.Context, principalID string) (Tenant, bool)

func (f TenantResolverFunc) ResolveTenant(ctx context.Context, principalID string) (Tenant, bool) {
	return f(ctx, principalID)
}

// TenantContext resuelve la familia una vez por request (requiere AuthContext antes).
// Sin claims o sin familia el request sigue; RequireTenant corta.
func TenantContext(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			t, ok := resolver.ResolveTenant(r.Context(), claims.UserID)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			t.PrincipalID = claims.UserID
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

func WithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

func GetTenant(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(Tenant)
	if !ok || t.FamilyID == "" {
		return Tenant{}, false
	}
	return t, true
}

// RequireTenant responde 401 sin principal y 403 si el principal no tiene familia.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, ok := GetTenant(r.Context()); !ok {
			writeError(w, http.StatusForbidden, "family not resolved, please sign in again")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
