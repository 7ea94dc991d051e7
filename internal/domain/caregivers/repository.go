package caregivers

import (
	"context"
	"fmt"

	"baby-care-tracker/internal/platform/errs"
)

var (
	ErrNotFound   = fmt.Errorf("caregiver %w", errs.ErrNotFound)
	ErrPhoneTaken = fmt.Errorf("%w: phone already registered", errs.ErrConflict)
)

type Repository interface {
	// Create devuelve ErrPhoneTaken si el backend rechaza el teléfono duplicado.
	Create(ctx context.Context, c Caregiver) error
	Update(ctx context.Context, c Caregiver) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (Caregiver, error)

	// GetByPhone prioriza perfiles con email de login y luego el más antiguo.
	GetByPhone(ctx context.Context, phone string) (Caregiver, error)

	ListByFamily(ctx context.Context, familyID string) ([]Caregiver, error)
}
