package session

import (
	"context"
	"sync"
	"testing"

	"baby-care-tracker/internal/adapters/auth/jwtauth"
	"baby-care-tracker/internal/adapters/auth/memauth"
	"baby-care-tracker/internal/adapters/storage/memory"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

// spyProvider cuenta las llamadas al backend de auth.
type spyProvider struct {
	*memauth.Provider

	mu         sync.Mutex
	calls      []string
	signOutErr error
}

func (p *spyProvider) record(name string) {
	p.mu.Lock()
	p.calls = append(p.calls, name)
	p.mu.Unlock()
}

func (p *spyProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *spyProvider) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	p.record("sign_in")
	return p.Provider.SignInWithPassword(ctx, email, password)
}

func (p *spyProvider) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	p.record("sign_up")
	return p.Provider.SignUp(ctx, in)
}

func (p *spyProvider) SignOut(ctx context.Context, token string) error {
	p.record("sign_out")
	if p.signOutErr != nil {
		return p.signOutErr
	}
	return p.Provider.SignOut(ctx, token)
}

func (p *spyProvider) DeleteUser(ctx context.Context, id string) error {
	p.record("delete_user")
	return p.Provider.DeleteUser(ctx, id)
}

// failingProfiles delega en el servicio real salvo CreateAccountHolder.
type failingProfiles struct {
	*caregivers.Service
	err error
}

func (f failingProfiles) CreateAccountHolder(context.Context, caregivers.AccountHolderInput) (caregivers.Caregiver, error) {
	return caregivers.Caregiver{}, f.err
}

type fixture struct {
	provider   *spyProvider
	caregivers *caregivers.Service
	families   *families.Service
	accounts   *Accounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		provider: &spyProvider{
			Provider: memauth.New(jwtauth.Config{Secret: "test-secret", Issuer: "test"}, memauth.WithBcryptCost(bcrypt.MinCost)),
		},
		caregivers: caregivers.NewService(store.Caregivers()),
		families:   families.NewService(store.Families()),
	}
	f.accounts = NewAccounts(f.provider, f.caregivers, f.families, nil)
	return f
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(f.caregivers, f.families, WithRetryDelay(0))
}

func (f *fixture) signUp(t *testing.T, p string) SignUpResult {
	t.Helper()
	res, err := f.accounts.SignUpWithPhone(context.Background(), SignUpInput{
		Phone:      p,
		Password:   "secret1",
		Name:       "Ana",
		FamilyName: "Silva",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return res
}
