package quickaction

import (
	"errors"
	"net/http"
	"strings"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /quick-actions. Requiere middleware.RequireTenant en el grupo.
// En el servidor el "conjunto cargado" son los registros en curso del bebé.
func RegisterRoutes(r chi.Router, m *Mutator, svc *activities.Service) {
	r.Route("/quick-actions", func(qr chi.Router) {
		qr.Post("/start", startHandler(m, svc))
		qr.Post("/stop", stopHandler(m, svc))
		qr.Post("/diaper", diaperHandler(m))
	})
}

type startRequest struct {
	BabyID   string `json:"baby_id"`
	Activity string `json:"activity" example:"sleep"`
}

type stopRequest struct {
	RecordID string `json:"record_id"`
	Activity string `json:"activity" example:"breastfeeding"`
	Side     string `json:"side,omitempty" example:"right"`
}

type diaperRequest struct {
	BabyID string `json:"baby_id"`
	Type   string `json:"type" example:"urine"`
}

func actorFrom(r *http.Request) activities.Actor {
	t, _ := middleware.GetTenant(r.Context())
	return activities.Actor{FamilyID: t.FamilyID, CaregiverID: t.CaregiverID}
}

// startHandler godoc
// @Summary      Inicia sueño, paseo o amamantamiento
// @Tags         quick-actions
// @Accept       json
// @Produce      json
// @Param        body body startRequest true "Actividad"
// @Success      201 {object} activities.RecordResponse
// @Failure      400 {object} httpjson.ErrorResponse
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /quick-actions/start [post]
func startHandler(m *Mutator, svc *activities.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
		a, ok := activities.ParseTimedActivity(req.Activity)
		if !ok || strings.TrimSpace(req.BabyID) == "" {
			httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "baby_id and activity (sleep|walk|breastfeeding) are required"})
			return
		}

		actor := actorFrom(r)
		loaded, err := svc.List(r.Context(), activities.ListFilter{
			FamilyID:       actor.FamilyID,
			BabyIDs:        []string{req.BabyID},
			Kinds:          []activities.Kind{a.Kind()},
			InProgressOnly: true,
		})
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		rec, err := m.Start(r.Context(), actor, loaded, req.BabyID, a)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, activities.ToResponse(rec))
	}
}

// stopHandler godoc
// @Summary      Detiene una actividad en curso
// @Tags         quick-actions
// @Accept       json
// @Produce      json
// @Param        body body stopRequest true "Registro"
// @Success      200 {object} activities.RecordResponse
// @Failure      404 {object} httpjson.ErrorResponse
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /quick-actions/stop [post]
func stopHandler(m *Mutator, svc *activities.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stopRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
		a, ok := activities.ParseTimedActivity(req.Activity)
		if !ok {
			httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "activity must be sleep, walk or breastfeeding"})
			return
		}

		actor := actorFrom(r)
		rec, err := svc.Get(r.Context(), actor.FamilyID, a.Kind(), req.RecordID)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		stopped, err := m.Stop(r.Context(), actor, []activities.Record{rec}, rec.ID, StopOptions{Side: activities.BreastSide(req.Side)})
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, activities.ToResponse(stopped))
	}
}

// diaperHandler godoc
// @Summary      Registra un pañal con un toque
// @Description  solid responde 422 con kind needs_full_form: se carga desde el formulario completo.
// @Tags         quick-actions
// @Accept       json
// @Produce      json
// @Param        body body diaperRequest true "Pañal"
// @Success      201 {object} activities.RecordResponse
// @Failure      422 {object} httpjson.ErrorResponse
// @Router       /quick-actions/diaper [post]
func diaperHandler(m *Mutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diaperRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}

		rec, err := m.QuickDiaper(r.Context(), actorFrom(r), req.BabyID, activities.DiaperType(req.Type))
		if errors.Is(err, ErrNeedsFullForm) {
			httpjson.Write(w, http.StatusUnprocessableEntity, httpjson.ErrorResponse{Error: err.Error(), Kind: "needs_full_form"})
			return
		}
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, activities.ToResponse(rec))
	}
}
