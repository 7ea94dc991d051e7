// Package errs define la taxonomía de errores compartida por la capa de acceso a datos.
//
// Cada paquete de dominio mantiene sus propios errores sentinela, pero los
// envuelve con uno de estos para que handlers, loader y CLI puedan decidir
// (reintentar, 404, 409...) sin conocer el origen.
package errs

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrLegacyAccount    = errors.New("legacy account")
	ErrTransientNetwork = errors.New("network error")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindLegacyAccount    Kind = "legacy_account"
	KindTransientNetwork Kind = "transient_network"
	KindInvalidInput     Kind = "invalid_input"
	KindUnauthorized     Kind = "unauthorized"
	KindUnknown          Kind = "unknown"
)

// Classify ubica err en la taxonomía. nil => "".
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrLegacyAccount):
		return KindLegacyAccount
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case IsTransient(err):
		return KindTransientNetwork
	default:
		return KindUnknown
	}
}

// IsTransient reporta si el error "parece" de conectividad.
// Se evalúa por tipo (net.Error, timeouts) y, como último recurso, por el mensaje,
// igual que hacen los clientes del backend hospedado.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransientNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return looksLikeNetwork(err.Error())
}

func looksLikeNetwork(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "network") || strings.Contains(msg, "fetch")
}

const (
	MsgConnection = "connection error, check your internet and try again"
	MsgGeneric    = "error loading data"
)

// UserMessage traduce un error de carga a un texto para mostrar.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsTransient(err) {
		return MsgConnection
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return MsgGeneric
	}
	return msg
}
