package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/openclaw/qrcode/colorize"
	"github.com/openclaw/qrcode/store"
	"github.com/openclaw/qrcode/urlcheck"
)

// maxLogoBytes bounds uploaded logos.
const maxLogoBytes = 5 << 20

type colorizeResponse struct {
	PNG      string `json:"png"`
	Filename string `json:"filename"`
}

func (s *Server) handleColorize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+1<<20)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse multipart form")
			return
		}
	} else if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	logo, err := s.uploadedLogo(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	png, ok := s.render(w, r.FormValue("url"), logo)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, colorizeResponse{
		PNG:      base64.StdEncoding.EncodeToString(png),
		Filename: s.DownloadName,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	png, ok := s.render(w, r.URL.Query().Get("url"), nil)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.DownloadName))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// render colorizes rawURL and writes an error response itself when that
// fails. logo overrides the configured logo file when non-nil.
func (s *Server) render(w http.ResponseWriter, rawURL string, logo []byte) ([]byte, bool) {
	url := strings.TrimSpace(rawURL)
	if logo == nil {
		logo = s.defaultLogo()
	}

	opts := s.Colorize
	opts.Log = s.Log
	img, err := colorize.Render(url, logo, opts)
	if err != nil {
		var verr *urlcheck.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return nil, false
		}
		s.Log.Error("colorize failed", "url", url, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return nil, false
	}

	png, err := colorize.EncodePNG(img)
	if err != nil {
		s.Log.Error("encode colorized png", "url", url, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return nil, false
	}

	s.record(url)
	return png, true
}

func (s *Server) uploadedLogo(r *http.Request) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid logo upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo")
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (s *Server) defaultLogo() []byte {
	if s.LogoPath == "" {
		return nil
	}
	data, err := os.ReadFile(s.LogoPath)
	if err != nil {
		s.Log.Debug("logo not loaded", "path", s.LogoPath, "error", err)
		return nil
	}
	return data
}

func (s *Server) record(url string) {
	if s.History == nil {
		return
	}
	_, err := s.History.Save(store.Record{
		URL:    url,
		Level:  "H",
		Format: "png",
		Source: store.SourceWeb,
	})
	if err != nil {
		s.Log.Warn("history not saved", "url", url, "error", err)
	}
}
