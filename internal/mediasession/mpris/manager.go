// Package mpris implements the media-session provider on top of the
// MPRIS D-Bus interface exposed by Linux desktop players.
package mpris

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

const (
	busNamePrefix   = "org.mpris.MediaPlayer2."
	objectPath      = "/org/mpris/MediaPlayer2"
	appInterface    = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// Manager tracks MPRIS players on the session bus and elects one of
// them as the current session. Playing players win over paused ones;
// otherwise the most recently appeared player is kept.
type Manager struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	done    chan struct{}

	mu             sync.Mutex
	owners         map[string]string // unique name -> bus name
	players        []string          // bus names, oldest first
	current        string            // elected bus name, "" when none
	sessionChanged []func()
	propSubs       map[string]map[int]func() // bus name -> token -> callback
	nextToken      int
}

// NewManager connects to the session bus and starts watching for MPRIS
// players. The returned error is fatal to the daemon: without a bus
// connection there is no notification source.
func NewManager() (*Manager, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	m := &Manager{
		conn:     conn,
		signals:  make(chan *dbus.Signal, 32),
		done:     make(chan struct{}),
		owners:   make(map[string]string),
		propSubs: make(map[string]map[int]func()),
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		return nil, fmt.Errorf("failed to watch bus names: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return nil, fmt.Errorf("failed to watch player properties: %w", err)
	}

	m.scanExistingPlayers()

	conn.Signal(m.signals)
	go m.processSignals()

	return m, nil
}

// Close stops signal processing and releases the bus connection.
func (m *Manager) Close() error {
	close(m.done)
	m.conn.RemoveSignal(m.signals)
	return m.conn.Close()
}

// CurrentSession returns the elected session, or nil when no MPRIS
// player is present.
func (m *Manager) CurrentSession() mediasession.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == "" {
		return nil
	}
	return &session{manager: m, busName: m.current}
}

// OnCurrentSessionChanged registers a callback fired whenever the
// elected player changes, including to and from none.
func (m *Manager) OnCurrentSessionChanged(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionChanged = append(m.sessionChanged, fn)
}

// scanExistingPlayers seeds the player list with MPRIS names already
// present on the bus at startup.
func (m *Manager) scanExistingPlayers() {
	var names []string
	if err := m.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		log.Printf("[mpris] failed to list bus names: %v", err)
		return
	}

	for _, name := range names {
		if !strings.HasPrefix(name, busNamePrefix) {
			continue
		}
		var owner string
		if err := m.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner); err != nil {
			continue
		}
		m.addPlayer(name, owner)
	}
	m.electCurrent()
}

// processSignals is the bus event loop. It runs until Close.
func (m *Manager) processSignals() {
	for {
		select {
		case <-m.done:
			return
		case sig, ok := <-m.signals:
			if !ok {
				return
			}
			m.handleSignal(sig)
		}
	}
}

func (m *Manager) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case "org.freedesktop.DBus.NameOwnerChanged":
		if len(sig.Body) != 3 {
			return
		}
		name, _ := sig.Body[0].(string)
		oldOwner, _ := sig.Body[1].(string)
		newOwner, _ := sig.Body[2].(string)
		if !strings.HasPrefix(name, busNamePrefix) {
			return
		}

		if oldOwner != "" {
			m.removePlayer(name, oldOwner)
		}
		if newOwner != "" {
			m.addPlayer(name, newOwner)
		}
		m.electCurrent()

	case "org.freedesktop.DBus.Properties.PropertiesChanged":
		if len(sig.Body) < 2 {
			return
		}
		iface, _ := sig.Body[0].(string)
		if iface != playerInterface {
			return
		}

		m.mu.Lock()
		busName := m.owners[sig.Sender]
		isCurrent := busName != "" && busName == m.current
		var subs []func()
		if isCurrent {
			for _, fn := range m.propSubs[busName] {
				subs = append(subs, fn)
			}
		}
		m.mu.Unlock()

		if busName == "" {
			return
		}

		// A playback-status flip on any player can change the election.
		if changed, ok := sig.Body[1].(map[string]dbus.Variant); ok {
			if _, hasStatus := changed["PlaybackStatus"]; hasStatus {
				m.electCurrent()
			}
		}

		for _, fn := range subs {
			fn()
		}
	}
}

func (m *Manager) addPlayer(busName, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.owners[owner] = busName
	for _, existing := range m.players {
		if existing == busName {
			return
		}
	}
	m.players = append(m.players, busName)
	log.Printf("[mpris] player appeared: %s", busName)
}

func (m *Manager) removePlayer(busName, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.owners, owner)
	for i, existing := range m.players {
		if existing == busName {
			m.players = append(m.players[:i], m.players[i+1:]...)
			log.Printf("[mpris] player vanished: %s", busName)
			break
		}
	}
}

// electCurrent picks the current session: the first playing player, or
// failing that the most recently appeared one. Fires the
// session-changed callbacks when the election result differs.
func (m *Manager) electCurrent() {
	m.mu.Lock()
	candidates := make([]string, len(m.players))
	copy(candidates, m.players)
	previous := m.current
	m.mu.Unlock()

	elected := ""
	for i := len(candidates) - 1; i >= 0; i-- {
		if elected == "" {
			elected = candidates[i]
		}
		if m.playbackStatus(candidates[i]) == "Playing" {
			elected = candidates[i]
			break
		}
	}

	m.mu.Lock()
	// Re-check against concurrent elections; last writer wins.
	changed := m.current != elected
	m.current = elected
	var subs []func()
	if changed {
		subs = append(subs, m.sessionChanged...)
	}
	m.mu.Unlock()

	if changed {
		log.Printf("[mpris] current session: %q (was %q)", elected, previous)
	}
	for _, fn := range subs {
		fn()
	}
}

// playbackStatus queries a player's PlaybackStatus, returning "" on
// any failure.
func (m *Manager) playbackStatus(busName string) string {
	obj := m.conn.Object(busName, objectPath)
	v, err := obj.GetProperty(playerInterface + ".PlaybackStatus")
	if err != nil {
		return ""
	}
	status, _ := v.Value().(string)
	return status
}

// subscribeProperties registers a property-change callback for the
// given bus name and returns its cancel func.
func (m *Manager) subscribeProperties(busName string, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.propSubs[busName] == nil {
		m.propSubs[busName] = make(map[int]func())
	}
	token := m.nextToken
	m.nextToken++
	m.propSubs[busName][token] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if subs, ok := m.propSubs[busName]; ok {
			delete(subs, token)
			if len(subs) == 0 {
				delete(m.propSubs, busName)
			}
		}
	}
}
