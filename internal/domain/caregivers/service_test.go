package caregivers

import (
	"context"
	"errors"
	"testing"
	"time"

	"baby-care-tracker/internal/platform/errs"
)

type fakeRepo struct {
	byID map[string]Caregiver
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]Caregiver{}}
}

func (r *fakeRepo) Create(_ context.Context, c Caregiver) error {
	for _, existing := range r.byID {
		if existing.Phone == c.Phone {
			return ErrPhoneTaken
		}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c Caregiver) error {
	if _, ok := r.byID[c.ID]; !ok {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Caregiver, error) {
	c, ok := r.byID[id]
	if !ok {
		return Caregiver{}, ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) GetByPhone(_ context.Context, p string) (Caregiver, error) {
	for _, c := range r.byID {
		if c.Phone == p {
			return c, nil
		}
	}
	return Caregiver{}, ErrNotFound
}

func (r *fakeRepo) ListByFamily(_ context.Context, familyID string) ([]Caregiver, error) {
	out := []Caregiver{}
	for _, c := range r.byID {
		if c.FamilyID == familyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateAccountHolder(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.CreateAccountHolder(context.Background(), AccountHolderInput{
		PrincipalID: "u-1",
		FamilyID:    "fam-1",
		Name:        " Ana ",
		Phone:       "(11) 99999-8888",
		Email:       "abc@babybot.app",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ID != "u-1" || !c.IsPrimary || c.Relationship != RelationshipGuardian {
		t.Fatalf("unexpected caregiver: %+v", c)
	}
	if c.Phone != "11999998888" || c.Name != "Ana" {
		t.Fatalf("expected normalized fields, got %+v", c)
	}
}

func TestAddValidatesRelationship(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), "fam-1", AddInput{Name: "Rosa", Phone: "11988887777", Relationship: "cousin"})
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	c, err := svc.Add(context.Background(), "fam-1", AddInput{Name: "Rosa", Phone: "11988887777", Relationship: "Nanny"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Relationship != RelationshipNanny || c.IsPrimary {
		t.Fatalf("unexpected caregiver: %+v", c)
	}
}

func TestRemoveGuards(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	primary, _ := svc.CreateAccountHolder(ctx, AccountHolderInput{
		PrincipalID: "u-1", FamilyID: "fam-1", Name: "Ana", Phone: "11999998888", Email: "a@babybot.app",
	})
	nanny, _ := svc.Add(ctx, "fam-1", AddInput{Name: "Rosa", Phone: "11988887777"})
	other, _ := svc.Add(ctx, "fam-2", AddInput{Name: "Zé", Phone: "11977776666"})

	if err := svc.Remove(ctx, "fam-1", nanny.ID, nanny.ID); !errors.Is(err, ErrSelfRemoval) {
		t.Fatalf("expected self removal conflict, got %v", err)
	}
	if err := svc.Remove(ctx, "fam-1", nanny.ID, primary.ID); !errors.Is(err, ErrPrimaryCaregiver) {
		t.Fatalf("expected primary conflict, got %v", err)
	}
	if err := svc.Remove(ctx, "fam-1", primary.ID, other.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found across families, got %v", err)
	}
	if err := svc.Remove(ctx, "fam-1", primary.ID, nanny.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := repo.byID[nanny.ID]; ok {
		t.Fatal("expected nanny removed")
	}
}

func TestUpdateKeepsPrimaryLoginEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	primary, _ := svc.CreateAccountHolder(ctx, AccountHolderInput{
		PrincipalID: "u-1", FamilyID: "fam-1", Name: "Ana", Phone: "11999998888", Email: "a@babybot.app",
	})

	email := "ana@example.com"
	name := "Ana Maria"
	got, err := svc.Update(ctx, "fam-1", primary.ID, UpdateInput{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Email != "a@babybot.app" || got.Name != "Ana Maria" {
		t.Fatalf("unexpected update: %+v", got)
	}
}
