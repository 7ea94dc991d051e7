// Package httpjson reúne los helpers de respuesta que antes se duplicaban en cada handler.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"baby-care-tracker/internal/platform/errs"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode lee el body JSON rechazando campos desconocidos.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errs.ErrInvalidInput, err)
	}
	return nil
}

// Status traduce la taxonomía de errores a un código HTTP.
func Status(err error) int {
	switch errs.Classify(err) {
	case errs.KindInvalidInput:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindLegacyAccount:
		return http.StatusUnprocessableEntity
	case errs.KindTransientNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error escribe err como JSON. Los 500 no exponen el mensaje interno.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	Write(w, status, ErrorResponse{Error: msg, Kind: string(errs.Classify(err))})
}

func Unauthorized(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Kind: string(errs.KindUnauthorized)})
}
