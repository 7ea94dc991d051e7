package caregivers

import (
	"net/http"
	"time"

	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /caregivers. Requiere middleware.RequireTenant en el grupo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/caregivers", func(cr chi.Router) {
		cr.Get("/", listCaregiversHandler(svc))
		cr.Post("/", addCaregiverHandler(svc))
		cr.Patch("/{caregiverID}", updateCaregiverHandler(svc))
		cr.Delete("/{caregiverID}", removeCaregiverHandler(svc))
	})
}

type addCaregiverRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

type updateCaregiverRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Relationship *string `json:"relationship"`
}

type caregiverResponse struct {
	ID           string       `json:"id"`
	FamilyID     string       `json:"family_id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email,omitempty"`
	Relationship Relationship `json:"relationship,omitempty"`
	IsPrimary    bool         `json:"is_primary"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// listCaregiversHandler godoc
// @Summary      Lista los cuidadores de la familia
// @Tags         caregivers
// @Produce      json
// @Success      200 {array} caregiverResponse
// @Failure      401 {object} httpjson.ErrorResponse
// @Router       /caregivers [get]
func listCaregiversHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		items, err := svc.List(r.Context(), t.FamilyID)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		out := make([]caregiverResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCaregiverResponse(c))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// addCaregiverHandler godoc
// @Summary      Agrega un cuidador sin cuenta
// @Tags         caregivers
// @Accept       json
// @Produce      json
// @Param        body body addCaregiverRequest true "Cuidador"
// @Success      201 {object} caregiverResponse
// @Failure      400 {object} httpjson.ErrorResponse
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /caregivers [post]
func addCaregiverHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		var req addCaregiverRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		c, err := svc.Add(r.Context(), t.FamilyID, AddInput(req))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toCaregiverResponse(c))
	}
}

// updateCaregiverHandler godoc
// @Summary      Actualiza un cuidador
// @Tags         caregivers
// @Accept       json
// @Produce      json
// @Param        caregiverID path string true "Caregiver ID"
// @Param        body body updateCaregiverRequest true "Campos a cambiar"
// @Success      200 {object} caregiverResponse
// @Failure      404 {object} httpjson.ErrorResponse
// @Router       /caregivers/{caregiverID} [patch]
func updateCaregiverHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		var req updateCaregiverRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		c, err := svc.Update(r.Context(), t.FamilyID, chi.URLParam(r, "caregiverID"), UpdateInput(req))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toCaregiverResponse(c))
	}
}

// removeCaregiverHandler godoc
// @Summary      Elimina un cuidador (no el principal ni uno mismo)
// @Tags         caregivers
// @Param        caregiverID path string true "Caregiver ID"
// @Success      204
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /caregivers/{caregiverID} [delete]
func removeCaregiverHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		if err := svc.Remove(r.Context(), t.FamilyID, t.CaregiverID, chi.URLParam(r, "caregiverID")); err != nil {
			httpjson.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toCaregiverResponse(c Caregiver) caregiverResponse {
	return caregiverResponse{
		ID:           c.ID,
		FamilyID:     c.FamilyID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Relationship: c.Relationship,
		IsPrimary:    c.IsPrimary,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
