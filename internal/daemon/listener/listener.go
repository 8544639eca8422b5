// Package listener binds media-session change notifications to update
// cycles, debouncing the bursts most players emit per track change.
package listener

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

// Processor runs update cycles. Satisfied by the coordinator.
type Processor interface {
	ProcessCurrentSession(ctx context.Context, forced bool)
	ResetCache()
}

// Listener wires a session manager's callbacks into debounced cycles.
type Listener struct {
	sessions mediasession.Manager
	proc     Processor
	debounce func() time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	cancelProps func()
	ctx         context.Context
	stopped     bool
}

// New creates a listener. debounce is read on every event so settings
// reloads apply without a restart.
func New(sessions mediasession.Manager, proc Processor, debounce func() time.Duration) *Listener {
	return &Listener{
		sessions: sessions,
		proc:     proc,
		debounce: debounce,
	}
}

// Start subscribes to session change notifications. ctx bounds the
// cycles the listener triggers.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	l.ctx = ctx
	l.mu.Unlock()

	l.sessions.OnCurrentSessionChanged(l.sessionChanged)
	l.subscribeCurrent()
}

// Stop cancels the pending timer and property subscription. Callbacks
// arriving afterwards are ignored.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if l.cancelProps != nil {
		l.cancelProps()
		l.cancelProps = nil
	}
}

// sessionChanged fires when the current session switches to a
// different player. The track cache is cleared so the new session's
// track always publishes.
func (l *Listener) sessionChanged() {
	log.Printf("media session changed, rebinding")
	l.proc.ResetCache()
	l.subscribeCurrent()
	l.schedule()
}

func (l *Listener) propertiesChanged() {
	l.schedule()
}

// subscribeCurrent moves the property subscription to the manager's
// current session, dropping the previous one.
func (l *Listener) subscribeCurrent() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	if l.cancelProps != nil {
		l.cancelProps()
		l.cancelProps = nil
	}
	session := l.sessions.CurrentSession()
	if session == nil {
		return
	}
	l.cancelProps = session.OnPropertiesChanged(l.propertiesChanged)
}

// schedule (re)arms the debounce timer. Each new event within the
// window pushes the cycle out again.
func (l *Listener) schedule() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	l.timer = time.AfterFunc(l.debounce(), func() {
		l.proc.ProcessCurrentSession(ctx, false)
	})
}
