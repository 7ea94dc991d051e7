package babies

import (
	"context"
	"fmt"

	"baby-care-tracker/internal/platform/errs"
)

var ErrNotFound = fmt.Errorf("baby %w", errs.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, b Baby) error
	Update(ctx context.Context, b Baby) error
	GetByID(ctx context.Context, id string) (Baby, error)

	// ListActive devuelve los bebés activos de la familia, más recientes primero.
	ListActive(ctx context.Context, familyID string) ([]Baby, error)
}
