package activities

import (
	"context"
	"fmt"
	"time"

	"baby-care-tracker/internal/platform/errs"
)

var (
	ErrNotFound   = fmt.Errorf("activity record %w", errs.ErrNotFound)
	ErrInProgress = fmt.Errorf("%w: activity already in progress", errs.ErrConflict)
)

type Repository interface {
	// Create devuelve ErrInProgress si ya hay un registro en curso
	// para el mismo (bebé, actividad).
	Create(ctx context.Context, r Record) error
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, kind Kind, id string) error
	GetByID(ctx context.Context, kind Kind, id string) (Record, error)

	// List ordena por StartedAt desc.
	List(ctx context.Context, f ListFilter) ([]Record, error)
}

type ListFilter struct {
	FamilyID string // obligatorio
	BabyIDs  []string
	Kinds    []Kind // vacío = todos
	From     *time.Time
	To       *time.Time

	InProgressOnly bool
	Limit          int
}

func (f ListFilter) HasKind(k Kind) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for _, x := range f.Kinds {
		if x == k {
			return true
		}
	}
	return false
}

func (f ListFilter) HasBaby(id string) bool {
	if len(f.BabyIDs) == 0 {
		return true
	}
	for _, x := range f.BabyIDs {
		if x == id {
			return true
		}
	}
	return false
}

// Matches aplica los filtros de tiempo y estado (no familia ni bebé).
func (f ListFilter) Matches(r Record) bool {
	if !f.HasKind(r.Kind) || !f.HasBaby(r.BabyID) {
		return false
	}
	if f.From != nil && r.StartedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !r.StartedAt.Before(*f.To) {
		return false
	}
	if f.InProgressOnly && !r.InProgress() {
		return false
	}
	return true
}
