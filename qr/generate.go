package qr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skip2/go-qrcode"
)

// Options describes one generation run. It is built once per invocation and
// passed by value.
type Options struct {
	URL         string
	Level       qrcode.RecoveryLevel
	Style       Style
	PNGPath     string // empty disables PNG output
	SVGPath     string // empty disables SVG output
	CheckOnline bool
	Timeout     time.Duration
}

// Result lists the files actually written, as absolute paths. An empty field
// means that format was not requested.
type Result struct {
	PNGPath string
	SVGPath string
}

// Empty reports whether nothing was written.
func (r Result) Empty() bool {
	return r.PNGPath == "" && r.SVGPath == ""
}

// Generate encodes opts.URL once and writes the requested PNG and SVG files,
// creating parent directories as needed. Formats with no path are skipped.
func Generate(opts Options) (Result, error) {
	var res Result
	if opts.PNGPath == "" && opts.SVGPath == "" {
		return res, nil
	}
	if err := opts.Style.validate(); err != nil {
		return res, err
	}

	grid, err := Encode(opts.URL, opts.Level)
	if err != nil {
		return res, err
	}

	if opts.PNGPath != "" {
		img, err := Raster(grid, opts.Style)
		if err != nil {
			return res, err
		}
		var buf bytes.Buffer
		if err := WritePNG(&buf, img); err != nil {
			return res, err
		}
		path, err := writeFile(opts.PNGPath, buf.Bytes())
		if err != nil {
			return res, err
		}
		res.PNGPath = path
	}

	if opts.SVGPath != "" {
		var buf bytes.Buffer
		if err := WriteSVG(&buf, grid, opts.Style); err != nil {
			return res, err
		}
		path, err := writeFile(opts.SVGPath, buf.Bytes())
		if err != nil {
			return res, err
		}
		res.SVGPath = path
	}

	return res, nil
}

func writeFile(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating output dir for %s: %w", abs, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", abs, err)
	}
	return abs, nil
}
