package page

import (
	"github.com/RESA9399/emberfall/internal/status"
	"github.com/RESA9399/emberfall/internal/util"
)

// StatusWidget projects the shared server status into the four display
// slots of the landing page card.
type StatusWidget struct {
	view   View
	digits *util.DigitFormatter
}

// NewStatusWidget builds the widget binding.
func NewStatusWidget(view View, digits *util.DigitFormatter) *StatusWidget {
	return &StatusWidget{view: view, digits: digits}
}

// Render pushes the projected status into the page.
func (w *StatusWidget) Render(st status.Status) {
	d := status.Render(st, w.digits)

	w.view.RemoveClass(IDStatusBadge, "online")
	w.view.RemoveClass(IDStatusBadge, "offline")
	w.view.AddClass(IDStatusBadge, d.BadgeClass)

	w.view.SetText(IDStatusBadge, d.BadgeGlyph)
	w.view.SetText(IDStatusText, d.StatusText)
	w.view.SetText(IDPlayers, d.Players)
	w.view.SetText(IDPing, d.Ping)
	w.view.SetText(IDUptime, d.Uptime)
}
