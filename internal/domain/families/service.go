package families

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/phone"

	"github.com/google/uuid"
)

var ErrInvalidInput = fmt.Errorf("family: %w", errs.ErrInvalidInput)

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

func (s *Service) GetByID(ctx context.Context, id string) (Family, error) {
	if strings.TrimSpace(id) == "" {
		return Family{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// FindOrCreateByPhone reutiliza la familia existente con ese teléfono
// o crea una nueva con nombre name.
func (s *Service) FindOrCreateByPhone(ctx context.Context, contactPhone, name string) (Family, bool, error) {
	contactPhone = phone.Normalize(contactPhone)
	name = strings.TrimSpace(name)
	if contactPhone == "" || name == "" {
		return Family{}, false, ErrInvalidInput
	}

	f, err := s.repo.GetByPhone(ctx, contactPhone)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return Family{}, false, err
	}

	now := s.now()
	f = Family{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     contactPhone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Family{}, false, err
	}
	return f, true, nil
}
