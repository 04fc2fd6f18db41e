package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/app"
	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/notify"
	"github.com/RESA9399/emberfall/internal/page"
)

const (
	sessionWriteWait = 5 * time.Second
	sessionOpBuffer  = 256
)

// clientMessage is the inbound wire format: a topic plus the union of the
// event and hello payloads.
type clientMessage struct {
	Topic   events.Topic  `json:"topic"`
	Code    string        `json:"code"`
	Shift   bool          `json:"shift"`
	Target  string        `json:"target"`
	Href    string        `json:"href"`
	Name    string        `json:"name"`
	Classes []string      `json:"classes"`
	Outside bool          `json:"outside"`
	Scroll  events.Scroll `json:"scroll"`
	Width   int           `json:"width"`

	MissingLabels []string                   `json:"missing_labels"`
	Anchors       map[string]int             `json:"anchors"`
	Counters      []page.CounterElem         `json:"counters"`
	FadeGroups    map[string][]page.FadeElem `json:"fade_groups"`
	MenuLinks     []string                   `json:"menu_links"`
}

func (m clientMessage) event() events.Event {
	return events.Event{
		Topic:   m.Topic,
		Code:    m.Code,
		Shift:   m.Shift,
		Target:  m.Target,
		Href:    m.Href,
		Name:    m.Name,
		Classes: m.Classes,
		Outside: m.Outside,
		Scroll:  m.Scroll,
		Width:   m.Width,
	}
}

func (m clientMessage) hello() page.Hello {
	return page.Hello{
		Width:         m.Width,
		Scroll:        m.Scroll,
		MissingLabels: m.MissingLabels,
		Anchors:       m.Anchors,
		Counters:      m.Counters,
		FadeGroups:    m.FadeGroups,
		MenuLinks:     m.MenuLinks,
	}
}

// handleSession upgrades the connection and runs one page session: events
// flow up into the session's app, UI operations flow back down.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ip := GetRealIP(r, s.trustProxy)
	view := newWSView()
	session := app.New(app.Deps{
		View:         view,
		Repo:         s.repo,
		Poller:       s.poller,
		Geo:          s.geo,
		Digits:       s.digits,
		Scheme:       s.scheme,
		Address:      s.address,
		ScrollOffset: s.scrollOffset,
		ClientIP:     ip,
	})

	done := make(chan struct{})
	go view.writePump(conn, done)

	defer func() {
		session.Close()
		view.close()
		<-done
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("ip", ip).Msg("Session socket read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("ip", ip).Msg("Invalid session message")
			continue
		}

		if msg.Topic == "hello" {
			session.Init(msg.hello())
			continue
		}

		session.HandleEvent(msg.event())
	}
}

// uiOp is the outbound wire format applied by the page script.
type uiOp struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Y     int    `json:"y,omitempty"`
}

// errSessionGone reports a send into a closed or saturated session.
var errSessionGone = errors.New("session closed or backpressured")

// wsView implements page.View over the session socket. Sends never block
// the dispatch goroutine: a saturated outbound queue drops the operation.
// The ops channel is never closed, so late sends from timer goroutines
// after teardown land in the buffer and are simply never written.
type wsView struct {
	ops      chan uiOp
	closed   chan struct{}
	stopOnce sync.Once
}

func newWSView() *wsView {
	return &wsView{
		ops:    make(chan uiOp, sessionOpBuffer),
		closed: make(chan struct{}),
	}
}

func (v *wsView) writePump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-v.closed:
			return
		case op := <-v.ops:
			_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := conn.WriteJSON(op); err != nil {
				log.Debug().Err(err).Msg("Session socket write failed")
				return
			}
		}
	}
}

func (v *wsView) close() {
	v.stopOnce.Do(func() { close(v.closed) })
}

func (v *wsView) send(op uiOp) error {
	select {
	case <-v.closed:
		return errSessionGone
	default:
	}

	select {
	case v.ops <- op:
		return nil
	default:
		log.Warn().Str("op", op.Op).Str("id", op.ID).Msg("Session op queue full, dropping")
		return errSessionGone
	}
}

func (v *wsView) SetText(id, text string)         { _ = v.send(uiOp{Op: "set_text", ID: id, Value: text}) }
func (v *wsView) AddClass(id, class string)       { _ = v.send(uiOp{Op: "add_class", ID: id, Value: class}) }
func (v *wsView) RemoveClass(id, class string)    { _ = v.send(uiOp{Op: "remove_class", ID: id, Value: class}) }
func (v *wsView) SetStyle(id, prop, value string) { _ = v.send(uiOp{Op: "set_style", ID: id, Name: prop, Value: value}) }
func (v *wsView) SetAttr(id, name, value string)  { _ = v.send(uiOp{Op: "set_attr", ID: id, Name: name, Value: value}) }
func (v *wsView) Remove(id string)                { _ = v.send(uiOp{Op: "remove", ID: id}) }
func (v *wsView) Focus(id string)                 { _ = v.send(uiOp{Op: "focus", ID: id}) }
func (v *wsView) ScrollTo(y int)                  { _ = v.send(uiOp{Op: "scroll_to", Y: y}) }
func (v *wsView) InjectStyle(name, css string)    { _ = v.send(uiOp{Op: "inject_style", Name: name, Value: css}) }
func (v *wsView) RemoveStyle(name string)         { _ = v.send(uiOp{Op: "remove_style", Name: name}) }
func (v *wsView) ShowThemeToggle()                { _ = v.send(uiOp{Op: "theme_button"}) }

func (v *wsView) SetEnabled(id string, enabled bool) {
	_ = v.send(uiOp{Op: "set_enabled", ID: id, Value: strconv.FormatBool(enabled)})
}

func (v *wsView) OpenURI(uri string) error {
	return v.send(uiOp{Op: "open_uri", Value: uri})
}

func (v *wsView) WriteClipboard(text string) error {
	return v.send(uiOp{Op: "clipboard", Value: text})
}

func (v *wsView) WriteClipboardLegacy(text string) error {
	return v.send(uiOp{Op: "clipboard_legacy", Value: text})
}

func (v *wsView) ShowBanner(b notify.Banner) {
	_ = v.send(uiOp{
		Op:    "banner",
		Name:  strconv.Itoa(b.ID),
		Kind:  string(b.Kind),
		Text:  b.Message,
		Value: string(b.Phase),
	})
}
