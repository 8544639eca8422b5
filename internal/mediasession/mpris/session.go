package mpris

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

// session is a handle to one MPRIS player. It is cheap to construct;
// all reads go straight to the bus.
type session struct {
	manager *Manager
	busName string
}

var _ mediasession.Session = (*session)(nil)

// SourceIdentity returns the player's MPRIS Identity property (e.g.
// "TIDAL Hi-Fi"), falling back to the bus-name suffix when the
// property is unavailable.
func (s *session) SourceIdentity() string {
	obj := s.manager.conn.Object(s.busName, objectPath)
	v, err := obj.GetProperty(appInterface + ".Identity")
	if err == nil {
		if identity, ok := v.Value().(string); ok && identity != "" {
			return identity
		}
	}
	return strings.TrimPrefix(s.busName, busNamePrefix)
}

// Properties reads the player's Metadata property into a fresh
// snapshot-shaped value. All failures wrap mediasession.ErrPlatform.
func (s *session) Properties(ctx context.Context) (mediasession.Properties, error) {
	obj := s.manager.conn.Object(s.busName, objectPath)

	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, playerInterface, "Metadata")
	if call.Err != nil {
		return mediasession.Properties{}, fmt.Errorf("%w: read metadata of %s: %v", mediasession.ErrPlatform, s.busName, call.Err)
	}

	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return mediasession.Properties{}, fmt.Errorf("%w: decode metadata of %s: %v", mediasession.ErrPlatform, s.busName, err)
	}

	metadata, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return mediasession.Properties{}, fmt.Errorf("%w: unexpected metadata shape from %s", mediasession.ErrPlatform, s.busName)
	}

	props := mediasession.Properties{
		Title:  metadataString(metadata, "xesam:title"),
		Artist: metadataArtist(metadata),
		Album:  metadataString(metadata, "xesam:album"),
	}
	if artURL := metadataString(metadata, "mpris:artUrl"); artURL != "" {
		props.Thumbnail = &artSource{url: artURL}
	}
	return props, nil
}

// OnPropertiesChanged subscribes to this player's property-change
// signals through the manager's signal loop.
func (s *session) OnPropertiesChanged(fn func()) func() {
	return s.manager.subscribeProperties(s.busName, fn)
}

func metadataString(metadata map[string]dbus.Variant, key string) string {
	v, ok := metadata[key]
	if !ok {
		return ""
	}
	str, _ := v.Value().(string)
	return str
}

// metadataArtist joins xesam:artist, which MPRIS defines as a string
// list. Some players ship a plain string instead; accept both.
func metadataArtist(metadata map[string]dbus.Variant) string {
	v, ok := metadata["xesam:artist"]
	if !ok {
		return ""
	}
	switch val := v.Value().(type) {
	case []string:
		return strings.Join(val, ", ")
	case string:
		return val
	}
	return ""
}
