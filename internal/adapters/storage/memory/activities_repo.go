package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"baby-care-tracker/internal/domain/activities"
)

type activityRepo struct {
	s *Store
}

func (r *activityRepo) table(kind activities.Kind) (map[string]activities.Record, error) {
	t, ok := r.s.records[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", activities.ErrInvalidInput, kind)
	}
	return t, nil
}

func (r *activityRepo) Create(ctx context.Context, rec activities.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	t, err := r.table(rec.Kind)
	if err != nil {
		return err
	}
	if _, exists := t[rec.ID]; exists {
		return errors.New("record already exists")
	}
	if r.openDuplicateLocked(t, rec) {
		return activities.ErrInProgress
	}
	t[rec.ID] = rec
	return nil
}

func (r *activityRepo) Update(ctx context.Context, rec activities.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.table(rec.Kind)
	if err != nil {
		return err
	}
	if _, exists := t[rec.ID]; !exists {
		return activities.ErrNotFound
	}
	if r.openDuplicateLocked(t, rec) {
		return activities.ErrInProgress
	}
	t[rec.ID] = rec
	return nil
}

func (r *activityRepo) Delete(ctx context.Context, kind activities.Kind, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.table(kind)
	if err != nil {
		return err
	}
	if _, exists := t[id]; !exists {
		return activities.ErrNotFound
	}
	delete(t, id)
	return nil
}

func (r *activityRepo) GetByID(ctx context.Context, kind activities.Kind, id string) (activities.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, err := r.table(kind)
	if err != nil {
		return activities.Record{}, err
	}
	rec, ok := t[id]
	if !ok {
		return activities.Record{}, activities.ErrNotFound
	}
	return rec, nil
}

func (r *activityRepo) List(ctx context.Context, f activities.ListFilter) ([]activities.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.listLocked(f), nil
}

// openDuplicateLocked: a lo sumo un registro en curso por (bebé, actividad).
func (r *activityRepo) openDuplicateLocked(t map[string]activities.Record, rec activities.Record) bool {
	act, ok := activities.TimedActivityOf(rec)
	if !ok || !rec.InProgress() {
		return false
	}
	for id, other := range t {
		if id != rec.ID && other.BabyID == rec.BabyID && other.InProgress() && act.Matches(other) {
			return true
		}
	}
	return false
}

func (s *Store) listLocked(f activities.ListFilter) []activities.Record {
	out := make([]activities.Record, 0)
	for _, kind := range activities.AllKinds {
		if !f.HasKind(kind) {
			continue
		}
		for _, rec := range s.records[kind] {
			b, ok := s.babies[rec.BabyID]
			if !ok || b.FamilyID != f.FamilyID {
				continue
			}
			if f.Matches(rec) {
				out = append(out, rec)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
