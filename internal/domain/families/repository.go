package families

import (
	"context"
	"fmt"

	"baby-care-tracker/internal/platform/errs"
)

var ErrNotFound = fmt.Errorf("family %w", errs.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, f Family) error
	GetByID(ctx context.Context, id string) (Family, error)

	// GetByPhone devuelve la familia más antigua con ese teléfono de contacto.
	GetByPhone(ctx context.Context, phone string) (Family, error)
}
