package memory

import (
	"context"
	"errors"
	"strings"

	"baby-care-tracker/internal/domain/families"
)

type familyRepo struct {
	s *Store
}

func (r *familyRepo) Create(ctx context.Context, f families.Family) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("family id required")
	}
	if _, exists := r.s.families[f.ID]; exists {
		return errors.New("family already exists")
	}
	r.s.families[f.ID] = f
	return nil
}

func (r *familyRepo) GetByID(ctx context.Context, id string) (families.Family, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.families[id]
	if !ok {
		return families.Family{}, families.ErrNotFound
	}
	return f, nil
}

func (r *familyRepo) GetByPhone(ctx context.Context, phone string) (families.Family, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var (
		found families.Family
		ok    bool
	)
	for _, f := range r.s.families {
		if f.Phone != phone {
			continue
		}
		if !ok || f.CreatedAt.Before(found.CreatedAt) {
			found, ok = f, true
		}
	}
	if !ok {
		return families.Family{}, families.ErrNotFound
	}
	return found, nil
}
