package dashboard

import (
	"net/http"
	"strconv"
	"strings"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /dashboard. Requiere middleware.RequireTenant en el grupo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/", overviewHandler(svc))
		dr.Get("/activities/{kind}", activitiesHandler(svc))
		dr.Get("/diapers", diapersHandler(svc))
	})
}

func familyFrom(r *http.Request) string {
	t, _ := middleware.GetTenant(r.Context())
	return t.FamilyID
}

// overviewHandler godoc
// @Summary      Resumen de la familia
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} Overview
// @Router       /dashboard [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov, err := svc.Overview(r.Context(), familyFrom(r))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, ov)
	}
}

// activitiesHandler godoc
// @Summary      Lista de actividades con nombres
// @Tags         dashboard
// @Produce      json
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        baby_id query string false "Filtra por bebé"
// @Param        limit query int false "Máximo (default 50)"
// @Success      200 {array} ActivityItem
// @Router       /dashboard/activities/{kind} [get]
func activitiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := activities.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			httpjson.Write(w, http.StatusNotFound, httpjson.ErrorResponse{Error: "unknown activity kind"})
			return
		}

		q := ListQuery{Kind: kind, BabyID: strings.TrimSpace(r.URL.Query().Get("baby_id")), Limit: 50}
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "limit must be a positive integer"})
				return
			}
			q.Limit = n
		}

		items, err := svc.Activities(r.Context(), familyFrom(r), q)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// diapersHandler godoc
// @Summary      Estadísticas y gráfico de pañales
// @Tags         dashboard
// @Produce      json
// @Param        period query string false "day|week|month (default week)"
// @Param        baby_id query string false "Filtra por bebé"
// @Success      200 {object} DiaperView
// @Router       /dashboard/diapers [get]
func diapersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := ParsePeriod(r.URL.Query().Get("period"))
		if !ok {
			httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "period must be day, week or month"})
			return
		}

		view, err := svc.Diapers(r.Context(), familyFrom(r), strings.TrimSpace(r.URL.Query().Get("baby_id")), period)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, view)
	}
}
