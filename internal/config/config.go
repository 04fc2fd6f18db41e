// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/RESA9399/emberfall/internal/logger"
	"github.com/RESA9399/emberfall/internal/vars"
)

// Config represents the complete application flags configuration.
// The parsed value is immutable for the lifetime of the process.
type Config struct {
	Server    Server        `group:"Server Options" env-namespace:"EMBERFALL"`
	Game      Game          `group:"Game Server Options" namespace:"game" env-namespace:"EMBERFALL_GAME"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"EMBERFALL_DB"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"EMBERFALL_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"EMBERFALL_RATE_LIMIT"`
	Page      Page          `group:"Page Options" namespace:"page" env-namespace:"EMBERFALL_PAGE"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"EMBERFALL_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	Address     string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken   string `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin authentication token"`
	MaxBodySize int64  `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"4096"`
	TrustProxy  bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
	ContentType string `long:"expect-content-type" env:"EXPECT_CONTENT_TYPE" description:"Expected Content-Type for API requests" default:"application/json"`
}

// Game holds the advertised game server connection parameters.
type Game struct {
	Address         string        `short:"a" long:"address" env:"ADDRESS" description:"Game server address (host:port)" default:"play.emberfall.gg:30120"`
	Scheme          string        `long:"scheme" env:"SCHEME" description:"Custom URI scheme used to launch the game client" default:"fivem"`
	RefreshInterval time.Duration `long:"refresh-interval" env:"REFRESH_INTERVAL" description:"Server status refresh interval" default:"30s"`
	Simulate        bool          `long:"simulate" env:"SIMULATE" description:"Simulate server status instead of querying A2S"`
	QueryTimeout    time.Duration `long:"query-timeout" env:"QUERY_TIMEOUT" description:"A2S query timeout" default:"3s"`
	QueryBufferSize uint16        `long:"query-buffer-size" env:"QUERY_BUFFER_SIZE" description:"A2S response buffer size" default:"1400"`
}

// Storage holds database configuration and maintenance flags.
type Storage struct {
	Path        string `short:"d" long:"path" env:"PATH" description:"Path to SQLite database" default:"emberfall.db"`
	PruneEvents string `long:"prune-events" description:"Delete analytics events older than the given duration (e.g. 720h) and exit" optional:"true" optional-value:"720h"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file" default:"emberfall.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	Count  int           `long:"count" env:"COUNT" description:"Per-IP limit: requests count" default:"16"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Per-IP limit: window duration" default:"1m"`
}

// Page holds tunables for the page chrome controllers.
type Page struct {
	ScrollOffset int    `long:"scroll-offset" env:"SCROLL_OFFSET" description:"Offset in px applied to in-page anchor scrolling" default:"80"`
	Digits       string `long:"digits" env:"DIGITS" description:"Ten glyphs used to localize ASCII digits in rendered numbers" default:"۰۱۲۳۴۵۶۷۸۹"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if cfg.Server.AuthToken == "" {
		fmt.Fprintln(os.Stderr,
			"Required flag `-t, --auth-token' or environment variable `EMBERFALL_AUTH_TOKEN` was not specified!")
		os.Exit(1)
	}

	return &cfg
}
