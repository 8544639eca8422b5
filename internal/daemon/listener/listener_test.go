package listener

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

type stubSession struct {
	mu    sync.Mutex
	subs  []func()
	drops int
}

func (s *stubSession) SourceIdentity() string { return "TIDAL" }

func (s *stubSession) Properties(ctx context.Context) (mediasession.Properties, error) {
	return mediasession.Properties{Title: "Song A", Artist: "Artist X"}, nil
}

func (s *stubSession) OnPropertiesChanged(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.drops++
	}
}

func (s *stubSession) fireProperties() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

type stubManager struct {
	mu             sync.Mutex
	session        mediasession.Session
	sessionChanged func()
}

func (m *stubManager) CurrentSession() mediasession.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *stubManager) OnCurrentSessionChanged(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionChanged = fn
}

func (m *stubManager) Close() error { return nil }

func (m *stubManager) switchSession(s mediasession.Session) {
	m.mu.Lock()
	m.session = s
	fn := m.sessionChanged
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type countingProcessor struct {
	processed atomic.Int32
	resets    atomic.Int32
}

func (p *countingProcessor) ProcessCurrentSession(ctx context.Context, forced bool) {
	p.processed.Add(1)
}

func (p *countingProcessor) ResetCache() {
	p.resets.Add(1)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDebounceCollapsesBursts(t *testing.T) {
	session := &stubSession{}
	mgr := &stubManager{session: session}
	proc := &countingProcessor{}
	l := New(mgr, proc, func() time.Duration { return 20 * time.Millisecond })
	defer l.Stop()

	l.Start(context.Background())

	// A burst of notifications within the window yields one cycle.
	session.fireProperties()
	session.fireProperties()
	session.fireProperties()

	waitFor(t, time.Second, func() bool { return proc.processed.Load() == 1 })

	// Quiet period, then another event yields exactly one more.
	session.fireProperties()
	waitFor(t, time.Second, func() bool { return proc.processed.Load() == 2 })
}

func TestSessionChangeResetsCacheAndRebinds(t *testing.T) {
	first := &stubSession{}
	mgr := &stubManager{session: first}
	proc := &countingProcessor{}
	l := New(mgr, proc, func() time.Duration { return 10 * time.Millisecond })
	defer l.Stop()

	l.Start(context.Background())

	second := &stubSession{}
	mgr.switchSession(second)

	if proc.resets.Load() != 1 {
		t.Errorf("resets = %d, want 1", proc.resets.Load())
	}
	if first.drops != 1 {
		t.Errorf("first session subscription drops = %d, want 1", first.drops)
	}

	waitFor(t, time.Second, func() bool { return proc.processed.Load() >= 1 })

	// Events from the new session still trigger cycles.
	before := proc.processed.Load()
	second.fireProperties()
	waitFor(t, time.Second, func() bool { return proc.processed.Load() == before+1 })
}

func TestSessionChangeToNil(t *testing.T) {
	first := &stubSession{}
	mgr := &stubManager{session: first}
	proc := &countingProcessor{}
	l := New(mgr, proc, func() time.Duration { return 10 * time.Millisecond })
	defer l.Stop()

	l.Start(context.Background())
	mgr.switchSession(nil)

	// The clear cycle still runs so the coordinator can drop presence.
	waitFor(t, time.Second, func() bool { return proc.processed.Load() >= 1 })
	if proc.resets.Load() != 1 {
		t.Errorf("resets = %d, want 1", proc.resets.Load())
	}
}

func TestStopCancelsPendingCycle(t *testing.T) {
	session := &stubSession{}
	mgr := &stubManager{session: session}
	proc := &countingProcessor{}
	l := New(mgr, proc, func() time.Duration { return 50 * time.Millisecond })

	l.Start(context.Background())
	session.fireProperties()
	l.Stop()

	time.Sleep(100 * time.Millisecond)
	if proc.processed.Load() != 0 {
		t.Errorf("processed = %d, want 0 after Stop", proc.processed.Load())
	}
}
