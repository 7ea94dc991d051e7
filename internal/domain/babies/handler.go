package babies

import (
	"net/http"
	"strings"
	"time"

	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /babies. Requiere middleware.RequireTenant en el grupo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/babies", func(br chi.Router) {
		br.Get("/", listBabiesHandler(svc))
		br.Post("/", createBabyHandler(svc))
		br.Get("/{babyID}", getBabyHandler(svc))
		br.Patch("/{babyID}", updateBabyHandler(svc))
		br.Delete("/{babyID}", deactivateBabyHandler(svc))
	})
}

type createBabyRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Gender    string `json:"gender"`
}

type updateBabyRequest struct {
	Name      *string `json:"name"`
	BirthDate *string `json:"birth_date"`
	Gender    *string `json:"gender"`
}

type babyResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	Gender    Gender    `json:"gender,omitempty"`
	IsActive  bool      `json:"is_active"`
	AgeDays   int       `json:"age_days"`
	AgeText   string    `json:"age_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// listBabiesHandler godoc
// @Summary      Lista los bebés activos de la familia
// @Tags         babies
// @Produce      json
// @Success      200 {array} babyResponse
// @Router       /babies [get]
func listBabiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		items, err := svc.ListActive(r.Context(), t.FamilyID)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		out := make([]babyResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBabyResponse(b, svc.Age(b)))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// createBabyHandler godoc
// @Summary      Registra un bebé
// @Tags         babies
// @Accept       json
// @Produce      json
// @Param        body body createBabyRequest true "Bebé"
// @Success      201 {object} babyResponse
// @Failure      400 {object} httpjson.ErrorResponse
// @Router       /babies [post]
func createBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		var req createBabyRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
		bd, err := parseDate(req.BirthDate)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		b, err := svc.Create(r.Context(), t.FamilyID, CreateInput{
			Name:      req.Name,
			BirthDate: bd,
			Gender:    req.Gender,
		})
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toBabyResponse(b, svc.Age(b)))
	}
}

// getBabyHandler godoc
// @Summary      Perfil de un bebé
// @Tags         babies
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Success      200 {object} babyResponse
// @Failure      404 {object} httpjson.ErrorResponse
// @Router       /babies/{babyID} [get]
func getBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		b, err := svc.Get(r.Context(), t.FamilyID, chi.URLParam(r, "babyID"))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toBabyResponse(b, svc.Age(b)))
	}
}

// updateBabyHandler godoc
// @Summary      Actualiza un bebé
// @Tags         babies
// @Accept       json
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Param        body body updateBabyRequest true "Campos a cambiar"
// @Success      200 {object} babyResponse
// @Router       /babies/{babyID} [patch]
func updateBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		var req updateBabyRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		in := UpdateInput{Name: req.Name, Gender: req.Gender}
		if req.BirthDate != nil {
			bd, err := parseDate(*req.BirthDate)
			if err != nil {
				httpjson.Error(w, err)
				return
			}
			in.BirthDate = &bd
		}

		b, err := svc.Update(r.Context(), t.FamilyID, chi.URLParam(r, "babyID"), in)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toBabyResponse(b, svc.Age(b)))
	}
}

// deactivateBabyHandler godoc
// @Summary      Desactiva un bebé (conserva su historial)
// @Tags         babies
// @Param        babyID path string true "Baby ID"
// @Success      204
// @Router       /babies/{babyID} [delete]
func deactivateBabyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _ := middleware.GetTenant(r.Context())

		if err := svc.Deactivate(r.Context(), t.FamilyID, chi.URLParam(r, "babyID")); err != nil {
			httpjson.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errs.ErrInvalidInput
	}
	return t, nil
}

func toBabyResponse(b Baby, age Age) babyResponse {
	return babyResponse{
		ID:        b.ID,
		FamilyID:  b.FamilyID,
		Name:      b.Name,
		BirthDate: b.BirthDate.Format("2006-01-02"),
		Gender:    b.Gender,
		IsActive:  b.IsActive,
		AgeDays:   age.Days,
		AgeText:   age.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
