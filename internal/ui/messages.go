package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-eclipses/internal/lookup"
)

type (
	// positionResultMsg carries a finished coordinate lookup.
	positionResultMsg struct {
		name string
		pos  lookup.Position
		err  error
	}

	// ephemerisResultMsg carries a finished period/epoch lookup.
	ephemerisResultMsg struct {
		name string
		eph  lookup.Ephemeris
		err  error
	}

	// catalogChangedMsg signals the catalog file changed on disk.
	catalogChangedMsg struct{}
)

func positionLookupCmd(r lookup.PositionResolver, name string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		pos, err := r.Position(ctx, name)
		return positionResultMsg{name: name, pos: pos, err: err}
	}
}

func ephemerisLookupCmd(r lookup.EphemerisResolver, name string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		eph, err := r.Ephemeris(ctx, name)
		return ephemerisResultMsg{name: name, eph: eph, err: err}
	}
}

// waitForCatalogChange blocks until the watcher reports a change. It
// returns nil once the channel is closed, which ends the loop.
func waitForCatalogChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return catalogChangedMsg{}
	}
}
