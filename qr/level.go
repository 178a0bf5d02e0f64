// Package qr turns a URL into QR code artifacts. Symbol encoding is done by
// github.com/skip2/go-qrcode; this package maps options onto it, rasterises
// the module grid to PNG or SVG and writes the files.
package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultLevel is the error-correction letter used when none is given.
const DefaultLevel = "Q"

// InvalidConfigError reports a generation option outside its allowed range.
type InvalidConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("option %s invalide: %q (%s)", e.Field, e.Value, e.Reason)
}

var levels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

// ParseLevel maps an error-correction letter (L, M, Q or H, any case) to the
// encoder's recovery level. An empty selector means Q.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	letter := strings.ToUpper(strings.TrimSpace(s))
	if letter == "" {
		letter = DefaultLevel
	}
	level, ok := levels[letter]
	if !ok {
		return 0, &InvalidConfigError{
			Field:  "ec-level",
			Value:  s,
			Reason: "choisir parmi L, M, Q, H",
		}
	}
	return level, nil
}

// LevelName returns the letter for a recovery level.
func LevelName(level qrcode.RecoveryLevel) string {
	for name, l := range levels {
		if l == level {
			return name
		}
	}
	return "?"
}
