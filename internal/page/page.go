// Package page implements the landing page chrome controllers: loading
// screen, navigation, animations, connect action, easter eggs, theme and
// accessibility. Controllers receive browser input from a session's event
// bus and emit UI operations through the View interface; the browser side
// is a thin remote surface that applies them.
package page

import (
	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/notify"
)

// Element ids shared between the controllers and the landing page markup.
const (
	IDRoot           = "html"
	IDBody           = "body"
	IDLoadingScreen  = "loadingScreen"
	IDScrollProgress = "scrollProgress"
	IDSiteHeader     = "siteHeader"
	IDSiteLogo       = "siteLogo"
	IDMenuToggle     = "menuToggle"
	IDMenuIcon       = "menuIcon"
	IDNavMenu        = "navMenu"
	IDConnectBtn     = "connectBtn"
	IDCopyIPBtn      = "copyIpBtn"
	IDThemeToggle    = "themeToggle"
	IDStatusBadge    = "statusBadge"
	IDStatusText     = "statusText"
	IDPlayers        = "playersOnline"
	IDPing           = "serverPing"
	IDUptime         = "serverUptime"
)

// View is the write-only sink of UI operations for one page session.
// Production sessions send these over the WebSocket; tests use fakes.
type View interface {
	SetText(id, text string)
	AddClass(id, class string)
	RemoveClass(id, class string)
	SetStyle(id, prop, value string)
	SetAttr(id, name, value string)
	SetEnabled(id string, enabled bool)
	Remove(id string)
	Focus(id string)
	ScrollTo(y int)
	OpenURI(uri string) error
	WriteClipboard(text string) error
	WriteClipboardLegacy(text string) error
	InjectStyle(name, css string)
	RemoveStyle(name string)
	ShowThemeToggle()
	ShowBanner(b notify.Banner)
}

// Exec serializes deferred work (timer callbacks) onto the session's
// dispatch goroutine so controllers never race with event handling.
type Exec func(func())

// run schedules fn through exec, or runs it inline when exec is nil.
func (e Exec) run(fn func()) {
	if e == nil {
		fn()
		return
	}
	e(fn)
}

// FadeElem describes one fade-in element's geometry at page load.
type FadeElem struct {
	ID     string `json:"id"`
	Top    int    `json:"top"`
	Height int    `json:"height"`
}

// CounterElem describes one numeric counter element.
type CounterElem struct {
	ID     string `json:"id"`
	Target int    `json:"target"`
	Top    int    `json:"top"`
}

// Hello is the construction-time snapshot the page sends when the session
// socket opens: viewport geometry plus the element facts controllers need.
type Hello struct {
	Width         int                   `json:"width"`
	Scroll        events.Scroll         `json:"scroll"`
	MissingLabels []string              `json:"missing_labels"`
	Anchors       map[string]int        `json:"anchors"`
	Counters      []CounterElem         `json:"counters"`
	FadeGroups    map[string][]FadeElem `json:"fade_groups"`
	MenuLinks     []string              `json:"menu_links"`
}
