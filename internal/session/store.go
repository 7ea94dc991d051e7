package session

import (
	"context"
	"errors"
	"sync"

	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"
	"baby-care-tracker/internal/ports/auth"
)

var ErrClosed = errors.New("session: store closed")

// State es una foto del store. Los punteros se copian: no mutar.
type State struct {
	// Loading cubre solo la verificación inicial de auth, no la resolución.
	Loading   bool
	Session   auth.Session
	Caregiver *caregivers.Caregiver
	Family    *families.Family
}

func (s State) PrincipalID() string { return s.Session.Principal.ID }

func (s State) TenantID() string {
	if s.Family == nil {
		return ""
	}
	return s.Family.ID
}

type StoreOption func(*Store)

func WithStoreLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store es la fuente de verdad de quién está logueado, en qué familia y con qué perfil.
// Se crea en el entry point, se arranca con Init y se cierra con Close.
type Store struct {
	accounts *Accounts
	resolver *Resolver
	provider auth.Provider
	storage  auth.SessionStorage
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	state  State
	gen    uint64
	closed bool
	unsub  func()

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int

	// notifyMu serializa las entregas para que lleguen en orden.
	notifyMu sync.Mutex
}

func NewStore(accounts *Accounts, resolver *Resolver, provider auth.Provider, storage auth.SessionStorage, opts ...StoreOption) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		accounts: accounts,
		resolver: resolver,
		provider: provider,
		storage:  storage,
		log:      logger.Nop(),
		ctx:      ctx,
		cancel:   cancel,
		state:    State{Loading: true},
		subs:     map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init recupera la sesión persistida y la valida contra el backend.
// Perfil y familia se resuelven en segundo plano; Init no los espera.
func (s *Store) Init(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	if src, ok := s.provider.(auth.EventSource); ok {
		cancel := src.Subscribe(s.HandleAuthEvent)
		s.mu.Lock()
		s.unsub = cancel
		s.mu.Unlock()
	}

	defer s.finishLoading()

	stored, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Error("load persisted session failed", map[string]any{"error": err})
		return err
	}
	if !ok || stored.AccessToken == "" {
		return nil
	}

	principal, err := s.provider.GetUser(ctx, stored.AccessToken)
	if err != nil {
		s.log.Warn("persisted session rejected", map[string]any{"error": err})
		if !errs.IsTransient(err) {
			if cerr := s.storage.Clear(ctx); cerr != nil {
				s.log.Error("clear persisted session failed", map[string]any{"error": cerr})
			}
		}
		return nil
	}

	stored.Principal = principal
	s.HandleAuthEvent(auth.Event{Type: auth.EventSignedIn, Session: &stored})
	return nil
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	changed := s.state.Loading
	s.state.Loading = false
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// HandleAuthEvent es el único camino para cambios de autenticación,
// propios o externos (otra pestaña, otro dispositivo).
func (s *Store) HandleAuthEvent(ev auth.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	switch ev.Type {
	case auth.EventSignedIn:
		if ev.Session == nil || ev.Session.Principal.ID == "" {
			s.mu.Unlock()
			return
		}
		if s.state.Session.Principal.ID != ev.Session.Principal.ID {
			s.state.Caregiver = nil
			s.state.Family = nil
		}
		s.state.Session = *ev.Session
		s.gen++
		s.resolveAsyncLocked(s.gen, ev.Session.Principal.ID)
		s.mu.Unlock()

		s.notify()

	case auth.EventSignedOut:
		// Un sign-out de otro principal no nos afecta.
		if ev.Session != nil && ev.Session.Principal.ID != "" &&
			ev.Session.Principal.ID != s.state.Session.Principal.ID {
			s.mu.Unlock()
			return
		}
		wasSignedIn := s.state.Session.Principal.ID != ""
		s.clearLocked()
		s.mu.Unlock()

		if wasSignedIn {
			s.notify()
		}

	default:
		s.mu.Unlock()
	}
}

// clearLocked borra principal, perfil y familia en la misma sección crítica.
func (s *Store) clearLocked() {
	s.state.Session = auth.Session{}
	s.state.Caregiver = nil
	s.state.Family = nil
	s.gen++
}

// resolveAsyncLocked se llama con mu tomado: Close no puede colarse entre
// el chequeo de closed y el Add.
func (s *Store) resolveAsyncLocked(gen uint64, principalID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := s.resolver.Resolve(s.ctx, principalID)
		s.apply(gen, res)
	}()
}

// apply descarta resoluciones cuyo principal ya fue reemplazado.
// Si la resolución falló, conserva perfil y familia previos del mismo principal.
func (s *Store) apply(gen uint64, res Resolution) bool {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	if !res.Failed {
		s.state.Caregiver = res.Caregiver
		s.state.Family = res.Family
	} else {
		// una resolución fallida solo completa, nunca borra lo ya resuelto
		if res.Caregiver != nil {
			if s.state.Family != nil && s.state.Family.ID != res.Caregiver.FamilyID {
				s.state.Family = nil
			}
			s.state.Caregiver = res.Caregiver
		}
		if res.Family != nil {
			s.state.Family = res.Family
		}
		s.log.Warn("user data resolution failed, keeping previous state", map[string]any{
			"principal_id": s.state.Session.Principal.ID,
			"family_id":    s.state.TenantID(),
		})
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// SignIn autentica por teléfono, persiste la sesión y emite SignedIn.
func (s *Store) SignIn(ctx context.Context, rawPhone, password string) error {
	if s.isClosed() {
		return ErrClosed
	}
	sess, err := s.accounts.SignInWithPhone(ctx, rawPhone, password)
	if err != nil {
		return err
	}
	s.adopt(ctx, sess)
	return nil
}

// SignUp registra la cuenta. Si el backend abre sesión en el acto, se adopta;
// si exige confirmación, el store queda sin principal.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	if s.isClosed() {
		return SignUpResult{}, ErrClosed
	}
	res, err := s.accounts.SignUpWithPhone(ctx, in)
	if err != nil {
		return SignUpResult{}, err
	}
	if res.Session.AccessToken != "" {
		s.adopt(ctx, res.Session)
	}
	return res, nil
}

func (s *Store) adopt(ctx context.Context, sess auth.Session) {
	if err := s.storage.Save(ctx, sess); err != nil {
		s.log.Error("persist session failed", map[string]any{"error": err})
	}
	s.HandleAuthEvent(auth.Event{Type: auth.EventSignedIn, Session: &sess})
}

// SignOut limpia el estado local antes de llamar al backend. Nunca falla:
// los errores solo se registran.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	token := s.state.Session.AccessToken
	wasSignedIn := s.state.Session.Principal.ID != ""
	s.clearLocked()
	s.mu.Unlock()

	if wasSignedIn {
		s.notify()
	}

	if err := s.storage.Clear(ctx); err != nil {
		s.log.Error("clear persisted session failed", map[string]any{"error": err})
	}
	if token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		s.log.Warn("remote sign out failed", map[string]any{"error": err})
	}
}

// RefreshUserData vuelve a resolver perfil y familia del principal actual.
func (s *Store) RefreshUserData(ctx context.Context) {
	s.mu.Lock()
	gen, principalID := s.gen, s.state.Session.Principal.ID
	s.mu.Unlock()

	if principalID == "" {
		return
	}
	s.apply(gen, s.resolver.Resolve(ctx, principalID))
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) AuthLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

func (s *Store) PrincipalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PrincipalID()
}

func (s *Store) TenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TenantID()
}

func (s *Store) CaregiverID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Caregiver == nil {
		return ""
	}
	return s.state.Caregiver.ID
}

// AccessToken es el token vigente, para clientes que llaman al API.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session.AccessToken
}

// Subscribe registra fn para cada cambio de estado. Las entregas son
// secuenciales y en orden; fn no debe bloquear.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Watch es Subscribe sin payload, para quien relee los accesores.
func (s *Store) Watch(fn func()) (cancel func()) {
	return s.Subscribe(func(State) { fn() })
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	st := s.State()

	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancela las resoluciones en curso y espera a que terminen.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.cancel()
	s.wg.Wait()
}
