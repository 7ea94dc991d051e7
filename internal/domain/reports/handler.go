package reports

import (
	"net/http"
	"strings"
	"time"

	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /reports/{babyID}. Requiere middleware.RequireTenant en el grupo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports/{babyID}", func(rr chi.Router) {
		rr.Get("/daily-sleep", dailySleepHandler(svc))
		rr.Get("/daily-feeding", dailyFeedingHandler(svc))
		rr.Get("/status", currentStatusHandler(svc))
		rr.Get("/growth/latest", latestGrowthHandler(svc))
		rr.Get("/growth", growthReportHandler(svc))
	})
}

func familyID(r *http.Request) string {
	t, _ := middleware.GetTenant(r.Context())
	return t.FamilyID
}

// parseDay acepta ?date=YYYY-MM-DD; vacío = hoy.
func parseDay(r *http.Request, param string) (time.Time, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(param))
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func badDate(w http.ResponseWriter, param string) {
	httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: param + " must be YYYY-MM-DD"})
}

// dailySleepHandler godoc
// @Summary      Reporte diario de sueño
// @Tags         reports
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Param        date query string false "YYYY-MM-DD (default hoy)"
// @Success      200 {object} DailySleep
// @Router       /reports/{babyID}/daily-sleep [get]
func dailySleepHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := parseDay(r, "date")
		if !ok {
			badDate(w, "date")
			return
		}
		out, err := svc.DailySleep(r.Context(), familyID(r), chi.URLParam(r, "babyID"), day)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// dailyFeedingHandler godoc
// @Summary      Reporte diario de alimentación
// @Tags         reports
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Param        date query string false "YYYY-MM-DD (default hoy)"
// @Success      200 {object} DailyFeeding
// @Router       /reports/{babyID}/daily-feeding [get]
func dailyFeedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := parseDay(r, "date")
		if !ok {
			badDate(w, "date")
			return
		}
		out, err := svc.DailyFeeding(r.Context(), familyID(r), chi.URLParam(r, "babyID"), day)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// currentStatusHandler godoc
// @Summary      Estado actual del bebé
// @Tags         reports
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Success      200 {object} CurrentStatus
// @Router       /reports/{babyID}/status [get]
func currentStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.CurrentStatus(r.Context(), familyID(r), chi.URLParam(r, "babyID"))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// latestGrowthHandler godoc
// @Summary      Última medición de crecimiento
// @Tags         reports
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Success      200 {object} GrowthPoint
// @Success      204
// @Router       /reports/{babyID}/growth/latest [get]
func latestGrowthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, ok, err := svc.LatestGrowth(r.Context(), familyID(r), chi.URLParam(r, "babyID"))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// growthReportHandler godoc
// @Summary      Evolución de crecimiento en un rango
// @Tags         reports
// @Produce      json
// @Param        babyID path string true "Baby ID"
// @Param        from query string false "YYYY-MM-DD"
// @Param        to query string false "YYYY-MM-DD"
// @Success      200 {object} GrowthReport
// @Router       /reports/{babyID}/growth [get]
func growthReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var from, to *time.Time
		if d, ok := parseDay(r, "from"); !ok {
			badDate(w, "from")
			return
		} else if !d.IsZero() {
			from = &d
		}
		if d, ok := parseDay(r, "to"); !ok {
			badDate(w, "to")
			return
		} else if !d.IsZero() {
			end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
			to = &end
		}

		out, err := svc.GrowthReport(r.Context(), familyID(r), chi.URLParam(r, "babyID"), from, to)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}
