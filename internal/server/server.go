// Package server implements the HTTP surface: the embedded landing page,
// the status and telemetry APIs, and the per-visitor session socket that
// drives the page controllers.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RESA9399/emberfall/assets"
	"github.com/RESA9399/emberfall/internal/config"
	"github.com/RESA9399/emberfall/internal/geoip"
	"github.com/RESA9399/emberfall/internal/status"
	"github.com/RESA9399/emberfall/internal/storage"
	"github.com/RESA9399/emberfall/internal/util"
)

// Server holds the dependencies and configuration required to serve the
// site and its APIs.
type Server struct {
	// repo provides the shared database for preferences and analytics.
	repo *storage.Repository

	// geo resolves visitor countries for analytics. Nil disables enrichment.
	geo *geoip.Provider

	// poller owns the shared server status cell.
	poller *status.Poller

	// digits localizes numbers in rendered status text.
	digits *util.DigitFormatter

	// upgrader performs the WebSocket handshake for session sockets.
	upgrader websocket.Upgrader

	// authToken protects the administrative endpoints.
	authToken string

	// expectedCT is the Content-Type required on API posts.
	expectedCT string

	// scheme and address form the connect URI advertised by the page.
	scheme  string
	address string

	// scrollOffset is passed through to the nav controller.
	scrollOffset int

	// maxBody caps incoming request bodies.
	maxBody int64

	// rateCount and rateWindow shape the per-IP limiter.
	rateCount  int
	rateWindow time.Duration

	// trustProxy enables X-Forwarded-For handling.
	trustProxy bool
}

// New creates a Server instance from the shared collaborators and config.
func New(repo *storage.Repository, geo *geoip.Provider, poller *status.Poller, digits *util.DigitFormatter, cfg *config.Config) *Server {
	return &Server{
		repo:         repo,
		geo:          geo,
		poller:       poller,
		digits:       digits,
		authToken:    cfg.Server.AuthToken,
		expectedCT:   cfg.Server.ContentType,
		scheme:       cfg.Game.Scheme,
		address:      cfg.Game.Address,
		scrollOffset: cfg.Page.ScrollOffset,
		maxBody:      cfg.Server.MaxBodySize,
		rateCount:    cfg.RateLimit.Count,
		rateWindow:   cfg.RateLimit.Window,
		trustProxy:   cfg.Server.TrustProxy,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /ws", s.RateLimitMiddleware(http.HandlerFunc(s.handleSession)))
	mux.Handle("POST /api/telemetry", s.RateLimitMiddleware(http.HandlerFunc(s.handleTelemetry)))
	mux.Handle("GET /api/status", http.HandlerFunc(s.handleStatus))
	mux.Handle("POST /api/status", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleStatusUpdate)))
	mux.Handle("GET /api/stats", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleStats)))
	mux.Handle("GET /api/version", http.HandlerFunc(handleVersion))

	fileServer := http.FileServer(assets.GetFileSystem())
	mux.Handle("GET /js/", fileServer)
	mux.Handle("GET /css/", fileServer)
	mux.Handle("GET /sw.js", fileServer)

	mux.Handle("GET /", http.HandlerFunc(s.handleIndex))

	return s.LoggingMiddleware(mux)
}
