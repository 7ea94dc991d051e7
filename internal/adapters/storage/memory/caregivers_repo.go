package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"baby-care-tracker/internal/domain/caregivers"
)

type caregiverRepo struct {
	s *Store
}

// Create aplica la misma unicidad que el índice parcial de Postgres:
// un teléfono solo puede pertenecer a un perfil con email de login.
func (r *caregiverRepo) Create(ctx context.Context, c caregivers.Caregiver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("caregiver id required")
	}
	if _, exists := r.s.caregivers[c.ID]; exists {
		return caregivers.ErrPhoneTaken
	}
	if r.loginPhoneTakenLocked(c, "") {
		return caregivers.ErrPhoneTaken
	}
	r.s.caregivers[c.ID] = c
	return nil
}

func (r *caregiverRepo) Update(ctx context.Context, c caregivers.Caregiver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.caregivers[c.ID]; !exists {
		return caregivers.ErrNotFound
	}
	if r.loginPhoneTakenLocked(c, c.ID) {
		return caregivers.ErrPhoneTaken
	}
	r.s.caregivers[c.ID] = c
	return nil
}

func (r *caregiverRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.caregivers[id]; !exists {
		return caregivers.ErrNotFound
	}
	delete(r.s.caregivers, id)
	return nil
}

func (r *caregiverRepo) GetByID(ctx context.Context, id string) (caregivers.Caregiver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.caregivers[id]
	if !ok {
		return caregivers.Caregiver{}, caregivers.ErrNotFound
	}
	return c, nil
}

func (r *caregiverRepo) GetByPhone(ctx context.Context, phone string) (caregivers.Caregiver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]caregivers.Caregiver, 0, 1)
	for _, c := range r.s.caregivers {
		if c.Phone == phone {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return caregivers.Caregiver{}, caregivers.ErrNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].HasLoginEmail() != matches[j].HasLoginEmail() {
			return matches[i].HasLoginEmail()
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches[0], nil
}

func (r *caregiverRepo) ListByFamily(ctx context.Context, familyID string) ([]caregivers.Caregiver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]caregivers.Caregiver, 0)
	for _, c := range r.s.caregivers {
		if c.FamilyID == familyID {
			out = append(out, c)
		}
	}

	// primario primero, luego por antigüedad
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *caregiverRepo) loginPhoneTakenLocked(c caregivers.Caregiver, selfID string) bool {
	if c.Phone == "" || !c.HasLoginEmail() {
		return false
	}
	for id, other := range r.s.caregivers {
		if id != selfID && other.Phone == c.Phone && other.HasLoginEmail() {
			return true
		}
	}
	return false
}
