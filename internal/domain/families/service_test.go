package families

import (
	"context"
	"errors"
	"testing"
	"time"

	"baby-care-tracker/internal/platform/errs"
)

type fakeRepo struct {
	byID    map[string]Family
	created int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]Family{}} }

func (r *fakeRepo) Create(_ context.Context, f Family) error {
	r.byID[f.ID] = f
	r.created++
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Family, error) {
	f, ok := r.byID[id]
	if !ok {
		return Family{}, ErrNotFound
	}
	return f, nil
}

func (r *fakeRepo) GetByPhone(_ context.Context, phone string) (Family, error) {
	var oldest *Family
	for _, f := range r.byID {
		if f.Phone != phone {
			continue
		}
		if oldest == nil || f.CreatedAt.Before(oldest.CreatedAt) {
			f := f
			oldest = &f
		}
	}
	if oldest == nil {
		return Family{}, ErrNotFound
	}
	return *oldest, nil
}

func TestFindOrCreateByPhone_CreatesThenReuses(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	fixed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	f, created, err := svc.FindOrCreateByPhone(context.Background(), "(11) 99999-8888", "  Silva ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !created {
		t.Fatalf("expected a new family")
	}
	if f.Name != "Silva" || f.Phone != "11999998888" || !f.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected family: %+v", f)
	}

	again, created, err := svc.FindOrCreateByPhone(context.Background(), "11999998888", "Otra")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created || again.ID != f.ID || again.Name != "Silva" {
		t.Fatalf("expected reuse of %s, got created=%v %+v", f.ID, created, again)
	}
	if repo.created != 1 {
		t.Fatalf("expected 1 create, got %d", repo.created)
	}
}

func TestFindOrCreateByPhone_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	cases := []struct{ phone, name string }{
		{"", "Silva"},
		{"(11) 99999-8888", "   "},
		{"abc", "Silva"},
	}
	for _, tc := range cases {
		_, _, err := svc.FindOrCreateByPhone(context.Background(), tc.phone, tc.name)
		if !errors.Is(err, errs.ErrInvalidInput) {
			t.Fatalf("FindOrCreateByPhone(%q, %q): expected invalid input, got %v", tc.phone, tc.name, err)
		}
	}
}

type brokenRepo struct{ fakeRepo }

func (brokenRepo) GetByPhone(context.Context, string) (Family, error) {
	return Family{}, errors.New("network down")
}

func TestFindOrCreateByPhone_PropagatesLookupErrors(t *testing.T) {
	repo := &brokenRepo{fakeRepo: *newFakeRepo()}
	svc := NewService(repo)

	_, _, err := svc.FindOrCreateByPhone(context.Background(), "(11) 99999-8888", "Silva")
	if err == nil || errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if repo.created != 0 {
		t.Fatalf("must not create on lookup failure")
	}
}

func TestGetByID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.GetByID(context.Background(), " "); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for empty id, got %v", err)
	}

	f, _, err := svc.FindOrCreateByPhone(context.Background(), "(11) 99999-8888", "Silva")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := svc.GetByID(context.Background(), f.ID)
	if err != nil || got.ID != f.ID {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}
}
