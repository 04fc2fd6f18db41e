// Package geoip resolves visitor IP addresses to country codes using a
// MaxMind MMDB file. The provider is optional everywhere it is used: a nil
// provider simply disables country enrichment.
package geoip

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// Provider wraps an open MMDB reader.
type Provider struct {
	reader *geoip2.Reader
}

// Open loads the MMDB file at path.
func Open(path string) (*Provider, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{reader: reader}, nil
}

// Close releases the reader.
func (p *Provider) Close() error {
	return p.reader.Close()
}

// Country returns the ISO country code for ip, or "" when the address is
// unparseable or unknown.
func (p *Provider) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	record, err := p.reader.Country(parsed)
	if err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("GeoIP lookup failed")
		return ""
	}

	return record.Country.IsoCode
}

// EnsureDB downloads the MMDB file when it is missing or older than
// interval. Download failures leave any existing file in place.
func EnsureDB(path, url string, interval time.Duration) error {
	if info, err := os.Stat(path); err == nil {
		if time.Since(info.ModTime()) < interval {
			return nil
		}
	}

	log.Info().Str("url", url).Msg("Downloading GeoIP database...")

	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s downloading GeoIP database", resp.Status)
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
