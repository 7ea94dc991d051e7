// Package pageload envuelve la carga de datos de una página con las
// esperas de auth y familia, los reintentos y un estado observable.
package pageload

import (
	"context"
	"sync"
	"time"

	"baby-care-tracker/internal/observability"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"
)

// MsgTenantUnresolved es el error terminal cuando la familia nunca aparece.
const MsgTenantUnresolved = "family not resolved, please sign in again"

type Phase string

const (
	PhaseAwaitingAuth   Phase = "awaiting_auth"
	PhaseIdle           Phase = "idle"
	PhaseAwaitingTenant Phase = "awaiting_tenant"
	PhaseLoading        Phase = "loading"
	PhaseBackoff        Phase = "backoff"
	PhaseReady          Phase = "ready"
	PhaseFailed         Phase = "failed"
)

// Settled reporta si la fase no avanza sola (sin eventos externos).
func (p Phase) Settled() bool {
	return p == PhaseReady || p == PhaseFailed || p == PhaseIdle
}

type Status struct {
	Phase      Phase
	Loading    bool
	Error      string
	IsRetrying bool
	RetryCount int
}

// Source es lo que el loader necesita de la sesión.
type Source interface {
	AuthLoading() bool
	PrincipalID() string
	TenantID() string
	Watch(fn func()) (cancel func())
}

// LoadFunc carga los datos de la familia. Debe respetar ctx.
type LoadFunc func(ctx context.Context, tenantID string) error

type readiness struct {
	authLoading bool
	principalID string
	tenantID    string
}

type Loader struct {
	src  Source
	load LoadFunc

	name         string
	autoRetry    bool
	retryDelay   time.Duration
	maxRetries   int
	pollInterval time.Duration
	log          logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	unwatch func()

	sourceCh     chan struct{}
	retryCh      chan struct{}
	invalidateCh chan struct{}

	// solo los toca la goroutine de run
	last       readiness
	retryCount int
	timer      *time.Timer
	timerC     <-chan time.Time

	mu      sync.Mutex
	status  Status
	changed chan struct{}
	subs    map[int]func(Status)
	nextSub int
}

// New arranca el loader. Close lo detiene.
func New(src Source, load LoadFunc, opts ...Option) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		src:          src,
		load:         load,
		name:         "page",
		autoRetry:    true,
		retryDelay:   2 * time.Second,
		maxRetries:   3,
		pollInterval: 800 * time.Millisecond,
		log:          logger.Nop(),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
		sourceCh:     make(chan struct{}, 1),
		retryCh:      make(chan struct{}, 1),
		invalidateCh: make(chan struct{}, 1),
		status:       Status{Phase: PhaseAwaitingAuth, Loading: true},
		changed:      make(chan struct{}),
		subs:         map[int]func(Status){},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With(map[string]any{"page": l.name})

	l.unwatch = src.Watch(func() { kick(l.sourceCh) })
	go l.run()
	return l
}

func kick(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Retry reinicia el contador y vuelve a cargar.
func (l *Loader) Retry() { kick(l.retryCh) }

// Invalidate vuelve a cargar porque cambiaron dependencias de la página.
func (l *Loader) Invalidate() { kick(l.invalidateCh) }

func (l *Loader) run() {
	defer close(l.done)
	defer l.stopTimer()

	l.evaluate()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-l.sourceCh:
			r := l.readiness()
			if r == l.last {
				continue
			}
			if r.principalID != l.last.principalID || r.tenantID != l.last.tenantID {
				l.retryCount = 0
			}
			l.stopTimer()
			l.evaluate()
		case <-l.retryCh:
			l.retryCount = 0
			l.stopTimer()
			l.evaluate()
		case <-l.invalidateCh:
			l.stopTimer()
			l.evaluate()
		case <-l.timerC:
			l.timer, l.timerC = nil, nil
			l.evaluate()
		}
	}
}

func (l *Loader) readiness() readiness {
	return readiness{
		authLoading: l.src.AuthLoading(),
		principalID: l.src.PrincipalID(),
		tenantID:    l.src.TenantID(),
	}
}

// evaluate aplica el orden auth → principal → familia → carga. loadFn corre
// en esta goroutine, así que nunca hay dos intentos en vuelo.
func (l *Loader) evaluate() {
	r := l.readiness()
	l.last = r

	switch {
	case r.authLoading:
		l.setStatus(Status{Phase: PhaseAwaitingAuth, Loading: true})
		return

	case r.principalID == "":
		l.retryCount = 0
		l.setStatus(Status{Phase: PhaseIdle})
		return

	case r.tenantID == "":
		if l.retryCount >= l.maxRetries {
			l.log.Warn("family not resolved", map[string]any{"checks": l.retryCount})
			l.setStatus(Status{Phase: PhaseFailed, Error: MsgTenantUnresolved, RetryCount: l.retryCount})
			return
		}
		l.retryCount++
		observability.RecordTenantPoll(l.name)
		l.setStatus(Status{Phase: PhaseAwaitingTenant, Loading: true, RetryCount: l.retryCount})
		l.startTimer(l.pollInterval)
		return
	}

	if l.currentPhase() == PhaseAwaitingTenant {
		// los sondeos de familia no consumen reintentos de carga
		l.retryCount = 0
	}

	retrying := l.retryCount > 0
	l.setStatus(Status{Phase: PhaseLoading, Loading: true, IsRetrying: retrying, RetryCount: l.retryCount})

	started := time.Now()
	err := l.load(l.ctx, r.tenantID)
	observability.RecordLoadAttempt(l.name, err, time.Since(started))

	if l.ctx.Err() != nil {
		return
	}
	if err == nil {
		l.retryCount = 0
		l.setStatus(Status{Phase: PhaseReady})
		return
	}

	msg := errs.UserMessage(err)
	l.log.Warn("page load failed", map[string]any{
		"error":       err,
		"retry_count": l.retryCount,
	})

	if l.autoRetry && l.retryCount < l.maxRetries {
		l.retryCount++
		l.setStatus(Status{Phase: PhaseBackoff, Error: msg, IsRetrying: true, RetryCount: l.retryCount})
		l.startTimer(l.retryDelay)
		return
	}
	// IsRetrying sigue indicando que hubo reintentos antes de rendirse
	l.setStatus(Status{Phase: PhaseFailed, Error: msg, IsRetrying: l.retryCount > 0, RetryCount: l.retryCount})
}

func (l *Loader) startTimer(d time.Duration) {
	l.stopTimer()
	l.timer = time.NewTimer(d)
	l.timerC = l.timer.C
}

func (l *Loader) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer, l.timerC = nil, nil
}

func (l *Loader) currentPhase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status.Phase
}

func (l *Loader) setStatus(st Status) {
	l.mu.Lock()
	l.status = st
	close(l.changed)
	l.changed = make(chan struct{})
	fns := make([]func(Status), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Subscribe registra fn para cada cambio de estado. fn corre en la
// goroutine del loader: no debe bloquear.
func (l *Loader) Subscribe(fn func(Status)) (cancel func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Wait bloquea hasta que el loader se asiente (ready, failed o idle).
func (l *Loader) Wait(ctx context.Context) (Status, error) {
	for {
		l.mu.Lock()
		st, changed := l.status, l.changed
		l.mu.Unlock()

		if st.Phase.Settled() {
			return st, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		case <-l.done:
			return l.Status(), context.Canceled
		}
	}
}

// Close detiene timers y espera a que termine la goroutine.
func (l *Loader) Close() {
	l.unwatch()
	l.cancel()
	<-l.done
}
