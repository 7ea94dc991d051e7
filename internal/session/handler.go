package session

import (
	"context"
	"net/http"
	"time"

	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"
	"baby-care-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth (público) y /me (requiere principal).
func RegisterRoutes(r chi.Router, accounts *Accounts, resolver *Resolver) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/sign-in", signInHandler(accounts))
		ar.Post("/sign-up", signUpHandler(accounts))
		ar.Post("/sign-out", signOutHandler(accounts))
	})
	r.Get("/me", meHandler(resolver))
}

type signInRequest struct {
	Phone    string `json:"phone" example:"(11) 99999-8888"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Phone      string `json:"phone" example:"(11) 99999-8888"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	FamilyName string `json:"family_name"`
}

type sessionResponse struct {
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	PrincipalID  string     `json:"principal_id"`
}

type signUpResponse struct {
	Session     sessionResponse `json:"session"`
	CaregiverID string          `json:"caregiver_id"`
	FamilyID    string          `json:"family_id"`
	// ConfirmationRequired: el backend no abrió sesión, hay que confirmar el email.
	ConfirmationRequired bool `json:"confirmation_required"`
}

type meResponse struct {
	PrincipalID   string `json:"principal_id"`
	CaregiverID   string `json:"caregiver_id,omitempty"`
	CaregiverName string `json:"caregiver_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	FamilyID      string `json:"family_id,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
}

func toSessionResponse(s auth.Session) sessionResponse {
	out := sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		PrincipalID:  s.Principal.ID,
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}

// signInHandler godoc
// @Summary      Login por teléfono
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body signInRequest true "Credenciales"
// @Success      200 {object} sessionResponse
// @Failure      404 {object} httpjson.ErrorResponse
// @Failure      422 {object} httpjson.ErrorResponse
// @Router       /auth/sign-in [post]
func signInHandler(accounts *Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		s, err := accounts.SignInWithPhone(r.Context(), req.Phone, req.Password)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toSessionResponse(s))
	}
}

// signUpHandler godoc
// @Summary      Registro por teléfono
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body signUpRequest true "Datos de la cuenta"
// @Success      201 {object} signUpResponse
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /auth/sign-up [post]
func signUpHandler(accounts *Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		res, err := accounts.SignUpWithPhone(r.Context(), SignUpInput{
			Phone:      req.Phone,
			Password:   req.Password,
			Name:       req.Name,
			FamilyName: req.FamilyName,
		})
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, signUpResponse{
			Session:              toSessionResponse(res.Session),
			CaregiverID:          res.Caregiver.ID,
			FamilyID:             res.Family.ID,
			ConfirmationRequired: res.Session.AccessToken == "",
		})
	}
}

// signOutHandler godoc
// @Summary      Cierra la sesión del bearer token
// @Tags         auth
// @Success      204
// @Router       /auth/sign-out [post]
func signOutHandler(accounts *Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := accounts.SignOut(r.Context(), middleware.GetAccessToken(r.Context())); err != nil {
			accounts.log.Warn("remote sign out failed", map[string]any{"error": err})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary      Perfil y familia del principal
// @Tags         auth
// @Produce      json
// @Success      200 {object} meResponse
// @Failure      401 {object} httpjson.ErrorResponse
// @Router       /me [get]
func meHandler(resolver *Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpjson.Unauthorized(w)
			return
		}

		res := resolver.Resolve(r.Context(), claims.UserID)
		out := meResponse{PrincipalID: claims.UserID}
		if res.Caregiver != nil {
			out.CaregiverID = res.Caregiver.ID
			out.CaregiverName = res.Caregiver.Name
			out.Phone = res.Caregiver.Phone
		}
		if res.Family != nil {
			out.FamilyID = res.Family.ID
			out.FamilyName = res.Family.Name
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// TenantResolver adapta el Resolver al middleware de tenant.
func TenantResolver(resolver *Resolver) middleware.TenantResolver {
	return middleware.TenantResolverFunc(func(ctx context.Context, principalID string) (middleware.Tenant, bool) {
		res := resolver.Resolve(ctx, principalID)
		if res.Family == nil {
			return middleware.Tenant{}, false
		}
		return middleware.Tenant{CaregiverID: res.CaregiverID(), FamilyID: res.FamilyID()}, true
	})
}
