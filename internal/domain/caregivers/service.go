package caregivers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/phone"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = fmt.Errorf("caregiver: %w", errs.ErrInvalidInput)
	ErrPrimaryCaregiver = fmt.Errorf("%w: primary caregiver cannot be removed", errs.ErrConflict)
	ErrSelfRemoval      = fmt.Errorf("%w: cannot remove your own profile", errs.ErrConflict)
)

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

// AccountHolderInput crea el perfil 1:1 de un Principal recién registrado.
type AccountHolderInput struct {
	PrincipalID string
	FamilyID    string
	Name        string
	Phone       string
	Email       string
}

func (s *Service) CreateAccountHolder(ctx context.Context, in AccountHolderInput) (Caregiver, error) {
	if strings.TrimSpace(in.PrincipalID) == "" || strings.TrimSpace(in.FamilyID) == "" {
		return Caregiver{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || phone.Normalize(in.Phone) == "" || strings.TrimSpace(in.Email) == "" {
		return Caregiver{}, ErrInvalidInput
	}

	now := s.now()
	c := Caregiver{
		ID:           in.PrincipalID,
		FamilyID:     in.FamilyID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        phone.Normalize(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Relationship: RelationshipGuardian,
		IsPrimary:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Caregiver{}, err
	}
	return c, nil
}

type AddInput struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
}

// Add registra un cuidador sin cuenta (niñera, abuelos...).
func (s *Service) Add(ctx context.Context, familyID string, in AddInput) (Caregiver, error) {
	if strings.TrimSpace(familyID) == "" {
		return Caregiver{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || phone.Normalize(in.Phone) == "" {
		return Caregiver{}, fmt.Errorf("%w: name and phone are required", ErrInvalidInput)
	}
	rel, ok := ParseRelationship(in.Relationship)
	if !ok {
		return Caregiver{}, fmt.Errorf("%w: unknown relationship %q", ErrInvalidInput, in.Relationship)
	}

	now := s.now()
	c := Caregiver{
		ID:           uuid.NewString(),
		FamilyID:     familyID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        phone.Normalize(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Relationship: rel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Caregiver{}, err
	}
	return c, nil
}

type UpdateInput struct {
	// Punteros: nil = no tocar.
	Name         *string
	Phone        *string
	Email        *string
	Relationship *string
}

func (s *Service) Update(ctx context.Context, familyID, id string, in UpdateInput) (Caregiver, error) {
	c, err := s.get(ctx, familyID, id)
	if err != nil {
		return Caregiver{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Caregiver{}, ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		p := phone.Normalize(*in.Phone)
		if p == "" {
			return Caregiver{}, ErrInvalidInput
		}
		c.Phone = p
	}
	if in.Email != nil {
		// el email de login de un titular no se edita desde aquí
		if !c.IsPrimary {
			c.Email = strings.TrimSpace(*in.Email)
		}
	}
	if in.Relationship != nil {
		rel, ok := ParseRelationship(*in.Relationship)
		if !ok {
			return Caregiver{}, fmt.Errorf("%w: unknown relationship %q", ErrInvalidInput, *in.Relationship)
		}
		c.Relationship = rel
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Caregiver{}, err
	}
	return c, nil
}

// Remove borra un cuidador de la familia. actorID es el cuidador que opera.
func (s *Service) Remove(ctx context.Context, familyID, actorID, id string) error {
	c, err := s.get(ctx, familyID, id)
	if err != nil {
		return err
	}
	if c.ID == actorID {
		return ErrSelfRemoval
	}
	if c.IsPrimary {
		return ErrPrimaryCaregiver
	}
	return s.repo.Delete(ctx, c.ID)
}

func (s *Service) GetByID(ctx context.Context, id string) (Caregiver, error) {
	if strings.TrimSpace(id) == "" {
		return Caregiver{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPhone(ctx context.Context, p string) (Caregiver, error) {
	p = phone.Normalize(p)
	if p == "" {
		return Caregiver{}, ErrNotFound
	}
	return s.repo.GetByPhone(ctx, p)
}

func (s *Service) List(ctx context.Context, familyID string) ([]Caregiver, error) {
	return s.repo.ListByFamily(ctx, familyID)
}

// get valida que el cuidador pertenezca a familyID (si no, NotFound).
func (s *Service) get(ctx context.Context, familyID, id string) (Caregiver, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Caregiver{}, err
	}
	if c.FamilyID != familyID {
		return Caregiver{}, ErrNotFound
	}
	return c, nil
}
