package activities

import (
	"fmt"
	"time"
)

// Record es un registro de actividad de un bebé.
//
// StartedAt es el inicio (o el instante, en los instantáneos). Para los
// temporizados (sleep, walk, breast feeding) EndedAt == nil significa "en curso".
type Record struct {
	ID          string
	BabyID      string
	CaregiverID string

	Kind      Kind
	StartedAt time.Time
	EndedAt   *time.Time
	Notes     string

	Detail Detail

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Timed reporta si el registro tiene fin.
func (r Record) Timed() bool {
	_, ok := TimedActivityOf(r)
	return ok
}

func (r Record) InProgress() bool {
	return r.Timed() && r.EndedAt == nil
}

// DurationMinutes devuelve la duración de un registro terminado.
func (r Record) DurationMinutes() (int, bool) {
	if !r.Timed() || r.EndedAt == nil {
		return 0, false
	}
	return DurationMinutes(r.StartedAt, *r.EndedAt), true
}

// DurationMinutes es max(1, minutos enteros entre start y end).
// Un start/stop en el mismo segundo (o con reloj desfasado) cuenta 1 minuto.
func DurationMinutes(start, end time.Time) int {
	m := int(end.Sub(start) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

// Validate chequea coherencia entre Kind, Detail y tiempos.
func (r Record) Validate() error {
	if r.BabyID == "" || r.StartedAt.IsZero() {
		return fmt.Errorf("%w: baby_id and start are required", ErrInvalidInput)
	}
	if r.Detail == nil {
		return fmt.Errorf("%w: missing %s detail", ErrInvalidInput, r.Kind)
	}
	if r.Detail.Kind() != r.Kind {
		return fmt.Errorf("%w: %s detail on a %s record", ErrInvalidInput, r.Detail.Kind(), r.Kind)
	}
	if err := r.Detail.Validate(); err != nil {
		return err
	}
	if r.EndedAt != nil {
		if !r.Timed() {
			return fmt.Errorf("%w: %s records have no end", ErrInvalidInput, r.Kind)
		}
		if r.EndedAt.Before(r.StartedAt) {
			return fmt.Errorf("%w: end before start", ErrInvalidInput)
		}
	}
	return nil
}
