package babies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/errs"

	"github.com/google/uuid"
)

var ErrInvalidInput = fmt.Errorf("baby: %w", errs.ErrInvalidInput)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	BirthDate time.Time
	Gender    string
}

func (s *Service) Create(ctx context.Context, familyID string, in CreateInput) (Baby, error) {
	if strings.TrimSpace(familyID) == "" || strings.TrimSpace(in.Name) == "" {
		return Baby{}, ErrInvalidInput
	}
	g, err := parseGender(in.Gender)
	if err != nil {
		return Baby{}, err
	}
	now := s.now()
	if in.BirthDate.IsZero() || in.BirthDate.After(now) {
		return Baby{}, fmt.Errorf("%w: birth_date must be in the past", ErrInvalidInput)
	}

	b := Baby{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Name:      strings.TrimSpace(in.Name),
		BirthDate: dateOnly(in.BirthDate),
		Gender:    g,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Baby{}, err
	}
	return b, nil
}

type UpdateInput struct {
	Name      *string
	BirthDate *time.Time
	Gender    *string
}

func (s *Service) Update(ctx context.Context, familyID, id string, in UpdateInput) (Baby, error) {
	b, err := s.Get(ctx, familyID, id)
	if err != nil {
		return Baby{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Baby{}, ErrInvalidInput
		}
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.BirthDate != nil {
		if in.BirthDate.IsZero() || in.BirthDate.After(s.now()) {
			return Baby{}, fmt.Errorf("%w: birth_date must be in the past", ErrInvalidInput)
		}
		b.BirthDate = dateOnly(*in.BirthDate)
	}
	if in.Gender != nil {
		g, err := parseGender(*in.Gender)
		if err != nil {
			return Baby{}, err
		}
		b.Gender = g
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Baby{}, err
	}
	return b, nil
}

// Deactivate es el "eliminar" de la UI: los registros del bebé se conservan.
func (s *Service) Deactivate(ctx context.Context, familyID, id string) error {
	b, err := s.Get(ctx, familyID, id)
	if err != nil {
		return err
	}
	if !b.IsActive {
		return nil
	}
	b.IsActive = false
	b.UpdatedAt = s.now()
	return s.repo.Update(ctx, b)
}

// Get devuelve el bebé solo si pertenece a familyID.
func (s *Service) Get(ctx context.Context, familyID, id string) (Baby, error) {
	if strings.TrimSpace(id) == "" {
		return Baby{}, ErrNotFound
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Baby{}, err
	}
	if b.FamilyID != familyID {
		return Baby{}, ErrNotFound
	}
	return b, nil
}

func (s *Service) ListActive(ctx context.Context, familyID string) ([]Baby, error) {
	return s.repo.ListActive(ctx, familyID)
}

// Age calcula la edad del bebé hoy.
func (s *Service) Age(b Baby) Age {
	return AgeAt(b.BirthDate, s.now())
}

func parseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case "", GenderMale, GenderFemale:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, s)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
