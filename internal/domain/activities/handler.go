package activities

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /activities/{kind}. Requiere middleware.RequireTenant en el grupo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/activities/{kind}", func(ar chi.Router) {
		ar.Get("/", listRecordsHandler(svc))
		ar.Post("/", createRecordHandler(svc))
		ar.Get("/{recordID}", getRecordHandler(svc))
		ar.Put("/{recordID}", updateRecordHandler(svc))
		ar.Delete("/{recordID}", deleteRecordHandler(svc))
	})
}

func actorFrom(r *http.Request) Actor {
	t, _ := middleware.GetTenant(r.Context())
	return Actor{FamilyID: t.FamilyID, CaregiverID: t.CaregiverID}
}

func kindParam(w http.ResponseWriter, r *http.Request) (Kind, bool) {
	k, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httpjson.Write(w, http.StatusNotFound, httpjson.ErrorResponse{Error: "unknown activity kind"})
		return "", false
	}
	return k, true
}

// listRecordsHandler godoc
// @Summary      Lista registros de un tipo
// @Tags         activities
// @Produce      json
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        baby_id query string false "Filtra por bebé"
// @Param        from query string false "RFC3339 (inclusive)"
// @Param        to query string false "RFC3339 (exclusivo)"
// @Param        in_progress query bool false "Solo en curso"
// @Param        limit query int false "Máximo"
// @Success      200 {array} RecordResponse
// @Router       /activities/{kind} [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(w, r)
		if !ok {
			return
		}

		f := ListFilter{
			FamilyID: actorFrom(r).FamilyID,
			Kinds:    []Kind{kind},
		}
		q := r.URL.Query()
		if v := strings.TrimSpace(q.Get("baby_id")); v != "" {
			f.BabyIDs = []string{v}
		}
		if v := strings.TrimSpace(q.Get("from")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "from must be RFC3339"})
				return
			}
			f.From = &t
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "to must be RFC3339"})
				return
			}
			f.To = &t
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorResponse{Error: "limit must be a positive integer"})
				return
			}
			f.Limit = n
		}
		f.InProgressOnly, _ = strconv.ParseBool(q.Get("in_progress"))

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		out := make([]RecordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, ToResponse(rec))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// createRecordHandler godoc
// @Summary      Crea un registro desde el formulario completo
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        body body recordRequest true "Registro"
// @Success      201 {object} RecordResponse
// @Failure      400 {object} httpjson.ErrorResponse
// @Failure      409 {object} httpjson.ErrorResponse
// @Router       /activities/{kind} [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(w, r)
		if !ok {
			return
		}

		var req recordRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
		detail, err := req.detail(kind)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		in := CreateInput{
			BabyID:  req.BabyID,
			EndedAt: req.EndedAt,
			Detail:  detail,
		}
		if req.StartedAt != nil {
			in.StartedAt = *req.StartedAt
		}
		if req.Notes != nil {
			in.Notes = *req.Notes
		}

		rec, err := svc.Create(r.Context(), actorFrom(r), in)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, ToResponse(rec))
	}
}

// getRecordHandler godoc
// @Summary      Obtiene un registro
// @Tags         activities
// @Produce      json
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        recordID path string true "Record ID"
// @Success      200 {object} RecordResponse
// @Failure      404 {object} httpjson.ErrorResponse
// @Router       /activities/{kind}/{recordID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(w, r)
		if !ok {
			return
		}

		rec, err := svc.Get(r.Context(), actorFrom(r).FamilyID, kind, chi.URLParam(r, "recordID"))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, ToResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary      Edita un registro (reemplaza el detalle)
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        recordID path string true "Record ID"
// @Param        body body recordRequest true "Registro"
// @Success      200 {object} RecordResponse
// @Router       /activities/{kind}/{recordID} [put]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(w, r)
		if !ok {
			return
		}

		var req recordRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
		detail, err := req.detail(kind)
		if err != nil {
			httpjson.Error(w, err)
			return
		}

		rec, err := svc.Update(r.Context(), actorFrom(r), kind, chi.URLParam(r, "recordID"), UpdateInput{
			StartedAt: req.StartedAt,
			EndedAt:   req.EndedAt,
			Notes:     req.Notes,
			Detail:    detail,
		})
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, ToResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary      Borra un registro
// @Tags         activities
// @Param        kind path string true "sleep|feeding|walk|diaper|growth"
// @Param        recordID path string true "Record ID"
// @Success      204
// @Router       /activities/{kind}/{recordID} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), actorFrom(r), kind, chi.URLParam(r, "recordID")); err != nil {
			httpjson.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
