// Package memauth es un auth.Provider en memoria (bcrypt + JWT HS256)
// para desarrollo local y tests end-to-end.
package memauth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"baby-care-tracker/internal/adapters/auth/jwtauth"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid login credentials", errs.ErrInvalidInput)
	ErrEmailTaken         = fmt.Errorf("%w: user already registered", errs.ErrConflict)
	ErrWeakPassword       = fmt.Errorf("%w: password should be at least %d characters", errs.ErrInvalidInput, minPasswordLen)
	ErrUserNotFound       = fmt.Errorf("user %w", errs.ErrNotFound)
	ErrSessionRevoked     = fmt.Errorf("%w: session revoked", errs.ErrUnauthorized)
)

type user struct {
	principal auth.Principal
	hash      []byte
}

type Provider struct {
	cfg  jwtauth.Config
	ttl  time.Duration
	cost int
	now  func() time.Time

	mu      sync.Mutex
	users   map[string]*user
	byEmail map[string]string
	revoked map[string]struct{}

	subsMu  sync.Mutex
	subs    map[int]func(auth.Event)
	nextSub int
}

type Option func(*Provider)

func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithBcryptCost permite bajar el costo en tests.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

func New(cfg jwtauth.Config, opts ...Option) *Provider {
	p := &Provider{
		cfg:     cfg,
		ttl:     time.Hour,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
		users:   make(map[string]*user),
		byEmail: make(map[string]string),
		revoked: make(map[string]struct{}),
		subs:    make(map[int]func(auth.Event)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	p.mu.Lock()
	u, ok := p.users[p.byEmail[normalizeEmail(email)]]
	p.mu.Unlock()
	if !ok {
		return auth.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return auth.Session{}, ErrInvalidCredentials
	}
	return p.issue(u.principal)
}

// SignUp confirma en el acto: siempre devuelve una sesión viva.
func (p *Provider) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return auth.Session{}, fmt.Errorf("%w: email required", errs.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return auth.Session{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return auth.Session{}, fmt.Errorf("memauth: hash password: %w", err)
	}

	meta := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		meta[k] = v
	}
	principal := auth.Principal{ID: uuid.NewString(), Email: email, Metadata: meta}

	p.mu.Lock()
	if _, taken := p.byEmail[email]; taken {
		p.mu.Unlock()
		return auth.Session{}, ErrEmailTaken
	}
	p.users[principal.ID] = &user{principal: principal, hash: hash}
	p.byEmail[email] = principal.ID
	p.mu.Unlock()

	return p.issue(principal)
}

func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	tok, err := jwtauth.Parse(accessToken, p.cfg)
	if err != nil {
		// token vencido o ajeno: no hay nada que revocar
		return nil
	}
	p.mu.Lock()
	p.revoked[tok.ID] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (auth.Principal, error) {
	tok, err := jwtauth.Parse(accessToken, p.cfg)
	if err != nil {
		return auth.Principal{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, revoked := p.revoked[tok.ID]; revoked {
		return auth.Principal{}, ErrSessionRevoked
	}
	u, ok := p.users[tok.Subject]
	if !ok {
		return auth.Principal{}, fmt.Errorf("%w: user no longer exists", errs.ErrUnauthorized)
	}
	return u.principal, nil
}

// DeleteUser borra el principal y avisa a los suscriptores como un cierre de sesión externo.
func (p *Provider) DeleteUser(ctx context.Context, principalID string) error {
	p.mu.Lock()
	u, ok := p.users[principalID]
	if ok {
		delete(p.users, principalID)
		delete(p.byEmail, u.principal.Email)
	}
	p.mu.Unlock()

	if !ok {
		return ErrUserNotFound
	}
	p.Emit(auth.Event{Type: auth.EventSignedOut, Session: &auth.Session{Principal: u.principal}})
	return nil
}

func (p *Provider) Subscribe(fn func(auth.Event)) (cancel func()) {
	p.subsMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subsMu.Lock()
			delete(p.subs, id)
			p.subsMu.Unlock()
		})
	}
}

// Emit publica un evento de auth como si viniera de otra pestaña o dispositivo.
func (p *Provider) Emit(ev auth.Event) {
	p.subsMu.Lock()
	fns := make([]func(auth.Event), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// UserCount es útil para verificar compensaciones en tests.
func (p *Provider) UserCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users)
}

func (p *Provider) issue(principal auth.Principal) (auth.Session, error) {
	signed, tok, err := jwtauth.Issue(p.cfg, principal, p.ttl, p.now())
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{
		AccessToken:  signed,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    tok.ExpiresAt,
		Principal:    principal,
	}, nil
}
