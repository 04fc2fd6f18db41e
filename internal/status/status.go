// Package status owns the advertised game server status: the shared state
// cell, the periodic refresh loop and the projection into the four display
// slots of the landing page widget.
package status

import (
	"fmt"
	"sync"

	"github.com/RESA9399/emberfall/internal/util"
)

// State of the game server.
type State string

// Server states.
const (
	Online  State = "online"
	Offline State = "offline"
)

// Status is the last known server status. It is replaced wholesale by the
// poller on each successful refresh; the manual update API merges fields.
type Status struct {
	State      State   `json:"status"`
	Players    int     `json:"players_online"`
	MaxPlayers int     `json:"max_players"`
	Ping       int     `json:"ping"`
	Uptime     float64 `json:"uptime"`
}

// Patch is a field-wise partial update. Nil fields keep the current value.
type Patch struct {
	State      *State   `json:"status,omitempty"`
	Players    *int     `json:"players_online,omitempty"`
	MaxPlayers *int     `json:"max_players,omitempty"`
	Ping       *int     `json:"ping,omitempty"`
	Uptime     *float64 `json:"uptime,omitempty"`
}

// Cell is the explicitly owned holder of the shared Status. The poller
// replaces it on refresh ticks; the manual update entry point merges into
// it. Both paths serialize through the cell's lock, last write wins.
type Cell struct {
	mu  sync.Mutex
	cur Status
}

// NewCell returns a cell holding the given initial status.
func NewCell(initial Status) *Cell {
	return &Cell{cur: initial}
}

// Snapshot returns a copy of the current status.
func (c *Cell) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cur
}

// Replace swaps the whole status.
func (c *Cell) Replace(st Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cur = st
}

// Merge applies the non-nil fields of p and returns the result.
func (c *Cell) Merge(p Patch) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.State != nil {
		c.cur.State = *p.State
	}
	if p.Players != nil {
		c.cur.Players = *p.Players
	}
	if p.MaxPlayers != nil {
		c.cur.MaxPlayers = *p.MaxPlayers
	}
	if p.Ping != nil {
		c.cur.Ping = *p.Ping
	}
	if p.Uptime != nil {
		c.cur.Uptime = *p.Uptime
	}

	return c.cur
}

// Display is the status projected into the four widget slots.
type Display struct {
	BadgeClass string `json:"badge_class"`
	BadgeGlyph string `json:"badge_glyph"`
	StatusText string `json:"status_text"`
	Players    string `json:"players"`
	Ping       string `json:"ping"`
	Uptime     string `json:"uptime"`
}

// Localized status labels.
const (
	onlineText  = "آنلاین"
	offlineText = "آفلاین"
)

// Render projects st into display strings, localizing digits with f.
// An offline server shows "N/A" in the ping slot.
func Render(st Status, f *util.DigitFormatter) Display {
	d := Display{
		BadgeGlyph: "●",
		Players:    f.FormatString(fmt.Sprintf("%d/%d", st.Players, st.MaxPlayers)),
		Uptime:     f.FormatString(fmt.Sprintf("%.1f%%", st.Uptime)),
	}

	if st.State == Online {
		d.BadgeClass = "online"
		d.StatusText = onlineText
		d.Ping = f.FormatString(fmt.Sprintf("%dms", st.Ping))
	} else {
		d.BadgeClass = "offline"
		d.StatusText = offlineText
		d.Ping = "N/A"
	}

	return d
}
