package pageload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"baby-care-tracker/internal/platform/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu          sync.Mutex
	authLoading bool
	principalID string
	tenantID    string
	// tenantFromCheck > 0: la familia aparece recién en ese chequeo.
	tenantFromCheck int
	tenantChecks    int
	watchers        map[int]func()
	nextWatcher     int
}

func newSource(principalID, tenantID string) *fakeSource {
	return &fakeSource{principalID: principalID, tenantID: tenantID, watchers: map[int]func(){}}
}

func (s *fakeSource) AuthLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authLoading
}

func (s *fakeSource) PrincipalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principalID
}

func (s *fakeSource) TenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantChecks++
	if s.tenantFromCheck > 0 && s.tenantChecks < s.tenantFromCheck {
		return ""
	}
	return s.tenantID
}

func (s *fakeSource) Watch(fn func()) func() {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *fakeSource) update(fn func(*fakeSource)) {
	s.mu.Lock()
	fn(s)
	fns := make([]func(), 0, len(s.watchers))
	for _, w := range s.watchers {
		fns = append(fns, w)
	}
	s.mu.Unlock()
	for _, w := range fns {
		w()
	}
}

type countingLoad struct {
	calls atomic.Int32
	fail  atomic.Int32 // cuántas llamadas más fallan
	err   error
}

func (c *countingLoad) Load(ctx context.Context, tenantID string) error {
	c.calls.Add(1)
	if c.fail.Load() > 0 {
		c.fail.Add(-1)
		return c.err
	}
	return nil
}

func waitSettled(t *testing.T, l *Loader) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := l.Wait(ctx)
	require.NoError(t, err)
	return st
}

func TestLoader_LoadsWhenReady(t *testing.T) {
	load := &countingLoad{}
	var gotTenant atomic.Value
	l := New(newSource("p1", "f1"), func(ctx context.Context, tenantID string) error {
		gotTenant.Store(tenantID)
		return load.Load(ctx, tenantID)
	})
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.EqualValues(t, 1, load.calls.Load())
	assert.Equal(t, "f1", gotTenant.Load())
}

func TestLoader_IdleWithoutPrincipal(t *testing.T) {
	load := &countingLoad{}
	l := New(newSource("", ""), load.Load)
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.False(t, st.Loading)
	assert.Zero(t, load.calls.Load())
}

func TestLoader_WaitsForAuth(t *testing.T) {
	src := newSource("p1", "f1")
	src.authLoading = true
	load := &countingLoad{}
	l := New(src, load.Load)
	defer l.Close()

	require.Eventually(t, func() bool { return l.Status().Phase == PhaseAwaitingAuth }, time.Second, time.Millisecond)
	assert.True(t, l.Status().Loading)
	assert.Zero(t, load.calls.Load())

	src.update(func(s *fakeSource) { s.authLoading = false })

	st := waitSettled(t, l)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.EqualValues(t, 1, load.calls.Load())
}

func TestLoader_ThreeRetriesThenFailed(t *testing.T) {
	load := &countingLoad{err: errors.New("boom")}
	load.fail.Store(100)
	l := New(newSource("p1", "f1"), load.Load, WithRetryDelay(time.Millisecond))
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, "boom", st.Error)
	assert.Equal(t, 3, st.RetryCount)
	assert.True(t, st.IsRetrying)
	assert.EqualValues(t, 4, load.calls.Load())

	// sin Retry no hay más intentos
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 4, load.calls.Load())
	assert.Equal(t, PhaseFailed, l.Status().Phase)

	load.fail.Store(0)
	l.Retry()
	require.Eventually(t, func() bool { return l.Status().Phase == PhaseReady }, time.Second, time.Millisecond)
	assert.EqualValues(t, 5, load.calls.Load())
	assert.Zero(t, l.Status().RetryCount)
}

func TestLoader_NoAutoRetry(t *testing.T) {
	load := &countingLoad{err: errors.New("boom")}
	load.fail.Store(1)
	l := New(newSource("p1", "f1"), load.Load, WithAutoRetry(false))
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.False(t, st.IsRetrying)
	assert.EqualValues(t, 1, load.calls.Load())
}

func TestLoader_RecoversAfterTransientFailures(t *testing.T) {
	load := &countingLoad{err: fmt.Errorf("list babies: %w", errs.ErrTransientNetwork)}
	load.fail.Store(2)

	var (
		mu       sync.Mutex
		statuses []Status
	)
	src := newSource("p1", "f1")
	src.authLoading = true
	l := New(src, load.Load, WithRetryDelay(time.Millisecond))
	defer l.Close()
	cancel := l.Subscribe(func(st Status) {
		mu.Lock()
		statuses = append(statuses, st)
		mu.Unlock()
	})
	defer cancel()
	src.update(func(s *fakeSource) { s.authLoading = false })

	require.Eventually(t, func() bool { return l.Status().Phase == PhaseReady }, time.Second, time.Millisecond)
	assert.EqualValues(t, 3, load.calls.Load())

	mu.Lock()
	defer mu.Unlock()
	var sawBackoff bool
	for _, st := range statuses {
		if st.Phase == PhaseBackoff {
			sawBackoff = true
			assert.Equal(t, errs.MsgConnection, st.Error)
			assert.True(t, st.IsRetrying)
		}
	}
	assert.True(t, sawBackoff)
}

func TestLoader_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "network", err: errors.New("TypeError: Failed to fetch"), want: errs.MsgConnection},
		{name: "verbatim", err: errors.New("permission denied"), want: "permission denied"},
		{name: "empty", err: errors.New(""), want: errs.MsgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(newSource("p1", "f1"), func(context.Context, string) error { return tc.err }, WithAutoRetry(false))
			defer l.Close()

			st := waitSettled(t, l)
			assert.Equal(t, PhaseFailed, st.Phase)
			assert.Equal(t, tc.want, st.Error)
		})
	}
}

func TestLoader_TenantOnFourthCheck(t *testing.T) {
	src := newSource("p1", "f1")
	src.tenantFromCheck = 4
	load := &countingLoad{}

	l := New(src, load.Load, WithTenantPollInterval(time.Millisecond))
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.EqualValues(t, 1, load.calls.Load())

	src.mu.Lock()
	assert.Equal(t, 4, src.tenantChecks)
	src.mu.Unlock()
}

func TestLoader_TenantNeverResolves(t *testing.T) {
	load := &countingLoad{}
	l := New(newSource("p1", ""), load.Load, WithTenantPollInterval(time.Millisecond))
	defer l.Close()

	st := waitSettled(t, l)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, MsgTenantUnresolved, st.Error)
	assert.Zero(t, load.calls.Load())
}

func TestLoader_NeverOverlapsLoads(t *testing.T) {
	src := newSource("p1", "f1")
	var (
		inFlight atomic.Int32
		overlap  atomic.Bool
		calls    atomic.Int32
	)
	load := func(ctx context.Context, tenantID string) error {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}
		defer inFlight.Add(-1)
		n := calls.Add(1)
		time.Sleep(time.Millisecond)
		if n%3 == 0 {
			return errors.New("flaky")
		}
		return nil
	}

	l := New(src, load, WithRetryDelay(time.Millisecond), WithTenantPollInterval(time.Millisecond))
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					l.Retry()
				case 1:
					l.Invalidate()
				case 2:
					src.update(func(s *fakeSource) { s.tenantID = fmt.Sprintf("f%d", j%2) })
				case 3:
					src.update(func(s *fakeSource) { s.authLoading = !s.authLoading })
				}
			}
		}(i)
	}
	wg.Wait()
	src.update(func(s *fakeSource) { s.authLoading = false })
	l.Retry()

	require.Eventually(t, func() bool { return l.Status().Phase.Settled() }, 2*time.Second, time.Millisecond)
	assert.False(t, overlap.Load())
	assert.Positive(t, calls.Load())
}

func TestLoader_CloseCancelsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	l := New(newSource("p1", "f1"), func(ctx context.Context, _ string) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	l.Close()
	assert.Equal(t, PhaseLoading, l.Status().Phase)

	_, err := l.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_SignOutGoesIdle(t *testing.T) {
	src := newSource("p1", "f1")
	load := &countingLoad{}
	l := New(src, load.Load)
	defer l.Close()

	require.Equal(t, PhaseReady, waitSettled(t, l).Phase)

	src.update(func(s *fakeSource) { s.principalID, s.tenantID = "", "" })
	require.Eventually(t, func() bool { return l.Status().Phase == PhaseIdle }, time.Second, time.Millisecond)
	assert.EqualValues(t, 1, load.calls.Load())
}
