package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"baby-care-tracker/internal/domain/babies"
)

type babyRepo struct {
	s *Store
}

func (r *babyRepo) Create(ctx context.Context, b babies.Baby) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("baby id required")
	}
	if _, exists := r.s.babies[b.ID]; exists {
		return errors.New("baby already exists")
	}
	r.s.babies[b.ID] = b
	return nil
}

func (r *babyRepo) Update(ctx context.Context, b babies.Baby) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.babies[b.ID]; !exists {
		return babies.ErrNotFound
	}
	r.s.babies[b.ID] = b
	return nil
}

func (r *babyRepo) GetByID(ctx context.Context, id string) (babies.Baby, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.babies[id]
	if !ok {
		return babies.Baby{}, babies.ErrNotFound
	}
	return b, nil
}

func (r *babyRepo) ListActive(ctx context.Context, familyID string) ([]babies.Baby, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]babies.Baby, 0)
	for _, b := range r.s.babies {
		if b.FamilyID == familyID && b.IsActive {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
