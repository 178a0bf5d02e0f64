// Package urlcheck validates the shape of URLs before they are encoded and
// optionally probes whether they answer over HTTP.
package urlcheck

import (
	"fmt"
	"net/url"
)

// ValidationError is returned when a string is not an absolute http(s) URL
// with a host.
type ValidationError struct {
	URL string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("URL invalide: '%s'. Exemple valide: https://exemple.com", e.URL)
}

// Validate checks that raw parses as a URI with an http or https scheme and a
// non-empty host. It never contacts the target.
func Validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{URL: raw}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{URL: raw}
	}
	if u.Host == "" {
		return &ValidationError{URL: raw}
	}
	return nil
}
