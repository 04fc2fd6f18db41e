// Package events implements the typed event bus that connects browser input
// to the page controllers. Each session owns one Bus; controllers subscribe
// at construction and receive events synchronously on the session's dispatch
// goroutine, in registration order.
package events

import (
	"time"

	"github.com/RESA9399/emberfall/internal/util"
)

// Topic identifies a class of browser input.
type Topic string

// Event topics forwarded by the page.
const (
	TopicScroll Topic = "scroll"
	TopicKey    Topic = "key"
	TopicClick  Topic = "click"
	TopicResize Topic = "resize"
	TopicAction Topic = "action"
	TopicUnload Topic = "unload"
)

// Scroll carries the page geometry at the moment of a scroll event.
type Scroll struct {
	Y          int `json:"y"`
	DocHeight  int `json:"doc_height"`
	ViewHeight int `json:"view_height"`
}

// Percent returns scroll depth as a percentage of the scrollable range,
// clamped to [0, 100].
func (s Scroll) Percent() float64 {
	span := s.DocHeight - s.ViewHeight
	if span <= 0 {
		return 0
	}

	pct := float64(s.Y) / float64(span) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}

	return pct
}

// Event is a single browser input delivered to subscribers.
type Event struct {
	Topic   Topic    `json:"topic"`
	Code    string   `json:"code,omitempty"`    // key events: KeyboardEvent.code
	Shift   bool     `json:"shift,omitempty"`   // key events: shift held
	Target  string   `json:"target,omitempty"`  // click/action events: element id
	Href    string   `json:"href,omitempty"`    // click events: anchor href, if any
	Name    string   `json:"name,omitempty"`    // action events: action name
	Classes []string `json:"classes,omitempty"` // click events: target class list
	Outside bool     `json:"outside,omitempty"` // click events: outside the nav menu
	Scroll  Scroll   `json:"scroll,omitempty"`  // scroll events
	Width   int      `json:"width,omitempty"`   // resize events: viewport width
}

// Handler consumes one event.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
	stop    func()
}

// Bus is a synchronous, single-goroutine event dispatcher. Publish calls
// handlers inline in registration order; it must only be invoked from the
// owning session's dispatch goroutine.
type Bus struct {
	subs   map[Topic][]subscription
	nextID int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for a topic and returns an unsubscribe function.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	return b.add(topic, h, nil)
}

// SubscribeDebounced registers h behind a trailing-edge debounce: bursts of
// events within wait collapse into a single delivery of the latest event.
func (b *Bus) SubscribeDebounced(topic Topic, wait time.Duration, h Handler) func() {
	call, stop := util.Debounce(h, wait)
	return b.add(topic, call, stop)
}

func (b *Bus) add(topic Topic, h Handler, stop func()) func() {
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h, stop: stop})

	return func() {
		list := b.subs[topic]
		for i, sub := range list {
			if sub.id == id {
				if sub.stop != nil {
					sub.stop()
				}
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber of its topic, in registration order.
func (b *Bus) Publish(ev Event) {
	for _, sub := range b.subs[ev.Topic] {
		sub.handler(ev)
	}
}

// Close cancels all pending debounced deliveries.
func (b *Bus) Close() {
	for _, list := range b.subs {
		for _, sub := range list {
			if sub.stop != nil {
				sub.stop()
			}
		}
	}
	b.subs = make(map[Topic][]subscription)
}
