// Package analytics collects basic interaction telemetry for one page
// session: page view, interactive clicks, scroll depth milestones and the
// total session duration. Events go to the diagnostic log and, when a
// repository is available, to the analytics event table.
package analytics

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/geoip"
	"github.com/RESA9399/emberfall/internal/storage"
)

// interactiveClasses is the fixed set of element classes whose clicks are
// recorded. Matching uses hashed class names, the same whitelist technique
// the telemetry API uses for application names.
var interactiveClasses = newClassSet(
	"btn", "nav-link", "logo", "menu-toggle", "theme-toggle",
)

// Scroll depth milestones, in percent.
var depthMilestones = []int{25, 50, 75, 100}

// Session is one visitor session's analytics state.
type Session struct {
	id      string
	start   time.Time
	repo    *storage.Repository
	country string

	maxDepth float64
	logged   map[int]bool
	finished bool
	unsub    []func()
}

// New creates the session record, logs the page-view event and subscribes
// to click, scroll and unload topics. repo and geo may be nil; events then
// only reach the log sink.
func New(bus *events.Bus, repo *storage.Repository, geo *geoip.Provider, clientIP string) *Session {
	s := &Session{
		id:     uuid.NewString(),
		start:  time.Now(),
		repo:   repo,
		logged: make(map[int]bool),
	}

	if geo != nil {
		s.country = geo.Country(clientIP)
	}

	s.record(storage.Event{Name: "page_view", CountryCode: s.country})

	s.unsub = append(s.unsub,
		bus.Subscribe(events.TopicClick, s.onClick),
		bus.Subscribe(events.TopicScroll, s.onScroll),
		bus.Subscribe(events.TopicUnload, func(events.Event) { s.Finish() }),
	)

	return s
}

// ID returns the per-session random identifier carried by every event.
func (s *Session) ID() string {
	return s.id
}

// Finish logs the session duration. Safe to call more than once; only the
// first call records.
func (s *Session) Finish() {
	if s.finished {
		return
	}
	s.finished = true

	s.record(storage.Event{
		Name:       "session_duration",
		DurationMS: time.Since(s.start).Milliseconds(),
	})
}

// Close finalizes the session and detaches from the bus.
func (s *Session) Close() {
	s.Finish()
	for _, fn := range s.unsub {
		fn()
	}
}

func (s *Session) onClick(ev events.Event) {
	for _, class := range ev.Classes {
		if _, ok := interactiveClasses[xxhash.Sum64String(class)]; ok {
			s.record(storage.Event{Name: "click", Target: ev.Target})
			return
		}
	}
}

// onScroll tracks the maximum depth reached and logs each milestone once,
// on the first crossing. Depth decreasing and increasing again within a
// band never re-logs.
func (s *Session) onScroll(ev events.Event) {
	depth := ev.Scroll.Percent()
	if depth <= s.maxDepth {
		return
	}
	s.maxDepth = depth

	for _, m := range depthMilestones {
		if s.maxDepth >= float64(m) && !s.logged[m] {
			s.logged[m] = true
			s.record(storage.Event{Name: "scroll_depth", Depth: m})
		}
	}
}

// record writes the event to the log sink and, when available, persists it.
// Persistence failures degrade to log-only.
func (s *Session) record(ev storage.Event) {
	ev.SessionID = s.id
	ev.CreatedAt = time.Now()

	log.Info().
		Str("session", s.id).
		Str("event", ev.Name).
		Str("target", ev.Target).
		Int("depth", ev.Depth).
		Int64("duration_ms", ev.DurationMS).
		Str("country", ev.CountryCode).
		Msg("Analytics event")

	if s.repo == nil {
		return
	}
	if err := s.repo.InsertEvent(ev); err != nil {
		log.Warn().Err(err).Str("event", ev.Name).Msg("Failed to persist analytics event")
	}
}

func newClassSet(classes ...string) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(classes))
	for _, c := range classes {
		set[xxhash.Sum64String(c)] = struct{}{}
	}
	return set
}
