package urlcheck

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// userAgent identifies probe requests to the remote server.
const userAgent = "qr-check/1.0"

// Prober checks whether a URL answers a HEAD request. The result is advisory:
// a QR code encodes the URL whether or not it is reachable right now.
type Prober struct {
	client *http.Client
	log    *slog.Logger
}

// NewProber creates a Prober whose requests give up after timeout. A nil log
// discards diagnostics.
func NewProber(timeout time.Duration, log *slog.Logger) *Prober {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Reachable sends a HEAD request to rawURL and reports whether the response
// status is 2xx or 3xx. Any failure, including a timeout, yields false.
func (p *Prober) Reachable(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		p.log.Debug("probe request not built", "url", rawURL, "error", err)
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("probe failed", "url", rawURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	p.log.Debug("probe answered", "url", rawURL, "status", resp.StatusCode)
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
