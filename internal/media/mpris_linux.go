//go:build linux

package media

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	mprisObjectPath      = "/org/mpris/MediaPlayer2"
	mprisPlayerInterface = "org.mpris.MediaPlayer2.Player"
	propertiesGet        = "org.freedesktop.DBus.Properties.Get"
	listNames            = "org.freedesktop.DBus.ListNames"
)

// MPRISSource enumerates MPRIS players on the D-Bus session bus
type MPRISSource struct {
	conn *dbus.Conn
}

// NewSource connects to the session bus
func NewSource() (Source, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &MPRISSource{conn: conn}, nil
}

// Sessions lists every MPRIS player and its PlaybackStatus. Players that
// vanish or fail to answer between listing and querying are skipped.
func (s *MPRISSource) Sessions(ctx context.Context) ([]Session, error) {
	var names []string
	if err := s.conn.BusObject().CallWithContext(ctx, listNames, 0).Store(&names); err != nil {
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}

	sort.Strings(names)

	var sessions []Session
	for _, name := range names {
		if !strings.HasPrefix(name, mprisBusPrefix) {
			continue
		}

		var status dbus.Variant
		obj := s.conn.Object(name, dbus.ObjectPath(mprisObjectPath))
		err := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayerInterface, "PlaybackStatus").Store(&status)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		value, _ := status.Value().(string)
		sessions = append(sessions, Session{
			ID:     name,
			Name:   mprisName(name),
			Status: parseMPRISStatus(value),
		})
	}

	return sessions, nil
}

// Close closes the bus connection
func (s *MPRISSource) Close() error {
	return s.conn.Close()
}
