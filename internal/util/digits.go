package util

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDigits is the glyph set used when no override is configured
// (Persian digits, matching the site's primary audience).
const DefaultDigits = "۰۱۲۳۴۵۶۷۸۹"

// DigitFormatter maps ASCII digits in rendered numbers to a fixed set of
// ten localized glyphs. Non-digit characters pass through unchanged.
type DigitFormatter struct {
	glyphs [10]rune
}

// NewDigitFormatter builds a formatter from a string of exactly ten glyphs,
// ordered 0 through 9.
func NewDigitFormatter(digits string) (*DigitFormatter, error) {
	runes := []rune(digits)
	if len(runes) != 10 {
		return nil, fmt.Errorf("digit set must contain exactly 10 glyphs, got %d", len(runes))
	}

	f := &DigitFormatter{}
	copy(f.glyphs[:], runes)

	return f, nil
}

// Format returns the decimal form of n with each digit localized.
func (f *DigitFormatter) Format(n int) string {
	return f.FormatString(strconv.Itoa(n))
}

// FormatString localizes every ASCII digit in s, leaving other runes as is.
func (f *DigitFormatter) FormatString(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(f.glyphs[r-'0'])
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
