package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/assets"
	"github.com/RESA9399/emberfall/internal/status"
	"github.com/RESA9399/emberfall/internal/storage"
	"github.com/RESA9399/emberfall/internal/vars"
)

// allowedEventNames limits what the telemetry ingest endpoint accepts.
var allowedEventNames = map[string]bool{
	"page_view":        true,
	"click":            true,
	"scroll_depth":     true,
	"session_duration": true,
}

// handleIndex serves the landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	content, _ := assets.ReadFile("landing.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

// handleStatus returns the current server status together with its display
// projection, for pages polling without a session socket.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.poller.Cell().Snapshot()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  st,
		"display": status.Render(st, s.digits),
	})
}

// handleStatusUpdate is the manual status entry point: it field-merges the
// posted patch into the shared record and re-renders connected sessions.
// Protected by AdminAuthMiddleware.
func (s *Server) handleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var patch status.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	updated := s.poller.Update(patch)

	log.Info().Interface("status", updated).Msg("Server status updated manually")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

// handleTelemetry ingests analytics events from pages running without a
// session socket. Invalid submissions are acknowledged but not accounted,
// so probing reveals nothing.
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	ip := GetRealIP(r, s.trustProxy)

	ct := r.Header.Get("Content-Type")
	if s.expectedCT != "" && !strings.HasPrefix(ct, s.expectedCT) {
		log.Debug().Str("content_type", ct).Str("ip", ip).Msg("Invalid telemetry Content-Type")
		respondOK(w, "not accounted")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var ev storage.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("Invalid telemetry JSON")
		respondOK(w, "not accounted")
		return
	}

	if ev.SessionID == "" || !allowedEventNames[ev.Name] {
		log.Debug().Str("ip", ip).Str("event", ev.Name).Msg("Rejected telemetry event")
		respondOK(w, "not accounted")
		return
	}

	if ev.Name == "page_view" && s.geo != nil {
		ev.CountryCode = s.geo.Country(ip)
	}

	if err := s.repo.InsertEvent(ev); err != nil {
		log.Error().Err(err).Msg("Failed to save telemetry event")
		respondOK(w, "not accounted")
		return
	}

	respondOK(w, "accounted")
}

// handleStats returns recent analytics events and totals.
// Protected by AdminAuthMiddleware.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	total, err := s.repo.CountEvents()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count events")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	recent, err := s.repo.RecentEvents(100)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}
	if recent == nil {
		recent = []storage.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":  total,
		"recent": recent,
	})
}

// handleVersion reports build metadata.
func handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(vars.Info())
}

// respondOK writes a 200 text/plain acknowledgement.
func respondOK(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}
