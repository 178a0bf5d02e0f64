package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdp/qrterminal/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrcode/config"
	"github.com/openclaw/qrcode/qr"
	"github.com/openclaw/qrcode/store"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGeneratePNGWithoutCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, stdout, stderr := execute(t, "--url", "https://example.com", "--png", "out.png", "--no-check")
	require.Equal(t, 0, code, stderr)

	want := filepath.Join(dir, "out.png")
	assert.Contains(t, stdout, "[OK] PNG généré: "+want+"\n")
	assert.NotContains(t, stdout, "[Info]")
	assert.NotContains(t, stdout, "SVG")
	assert.Contains(t, stdout, "[Terminé]")
	assert.Empty(t, stderr)

	got, err := qr.DecodeFile(want)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)
}

func TestGenerateInvalidURL(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, stdout, stderr := execute(t, "--url", "not-a-url")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "[ERREUR]")
	assert.Contains(t, stderr, "not-a-url")
	assert.NotContains(t, stdout, "[OK]")
	assert.Empty(t, listFiles(t, dir))
}

func TestGenerateNothingRequested(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, stdout, stderr := execute(t, "--png", "", "--svg", "  ", "--no-check")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "[ATTENTION] Aucune sortie demandée (ni PNG ni SVG). Utilisez --png ou --svg.")
	assert.NotContains(t, stdout, "[Terminé]")
	assert.Empty(t, listFiles(t, dir))
}

func TestGenerateBothFormats(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "a", "b", "code.png")
	svg := filepath.Join(dir, "c", "code.svg")

	code, stdout, stderr := execute(t,
		"--url", "https://example.com/page?x=1",
		"--png", png, "--svg", svg,
		"--ec-level", "h", "--box-size", "5", "--border", "2",
		"--fg", "#0f4c81", "--bg", "ivory",
		"--no-check", "--verify",
	)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "[OK] PNG généré: "+png)
	assert.Contains(t, stdout, "[OK] SVG généré: "+svg)
	assert.Contains(t, stdout, "[OK] Décodage vérifié: "+png)
	assert.Contains(t, stdout, "[OK] Décodage vérifié: "+svg)
	assert.Empty(t, stderr)
}

func TestGenerateInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"ec level", []string{"--ec-level", "X"}},
		{"box size", []string{"--box-size", "0"}},
		{"border", []string{"--border", "-1"}},
		{"colour", []string{"--fg", "not-a-colour"}},
		{"timeout", []string{"--timeout", "0"}},
		{"huge box size", []string{"--box-size", "2000000000"}},
		{"huge border", []string{"--border", "2000000000"}},
		{"oversized image", []string{"--box-size", "1000"}},
		{"flag type", []string{"--box-size", "ten"}},
		{"unknown flag", []string{"--nope"}},
		{"stray argument", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			code, _, stderr := execute(t, append([]string{"--no-check"}, tt.args...)...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, "[ERREUR]")
			assert.Empty(t, listFiles(t, dir))
		})
	}
}

func TestGeneratePartialFailure(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "ok.png")

	code, stdout, stderr := execute(t, "--png", png, "--svg", dir, "--no-check")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "[OK] PNG généré: "+png+"\n")
	assert.NotContains(t, stdout, "SVG")
	assert.NotContains(t, stdout, "[Terminé]")
	assert.Contains(t, stderr, "[ERREUR]")
	assert.FileExists(t, png)
}

func TestGenerateURLIsNotTrimmed(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, _, stderr := execute(t, "--url", " https://example.com", "--no-check")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "[ERREUR]")
	assert.Empty(t, listFiles(t, dir))
}

func TestGenerateReachability(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(up.Close)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	t.Run("reachable", func(t *testing.T) {
		code, stdout, _ := execute(t, "--url", up.URL, "--png", filepath.Join(t.TempDir(), "up.png"))
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "[Info] Vérification en ligne de l’URL: OK\n")
	})

	t.Run("unreachable still generates", func(t *testing.T) {
		png := filepath.Join(t.TempDir(), "down.png")
		code, stdout, _ := execute(t, "--url", downURL, "--png", png, "--timeout", "1")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "[Info] Vérification en ligne de l’URL: NON JOIGNABLE\n")
		assert.FileExists(t, png)
	})
}

func TestGenerateHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	code, _, stderr := execute(t,
		"--url", "https://example.com",
		"--png", filepath.Join(dir, "x.png"), "--svg", filepath.Join(dir, "x.svg"),
		"--no-check", "--history", db,
	)
	require.Equal(t, 0, code, stderr)

	history, err := store.NewHistoryStore(db)
	require.NoError(t, err)
	defer history.Close()

	recs, err := history.List(10, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	formats := []string{recs[0].Format, recs[1].Format}
	assert.ElementsMatch(t, []string{"png", "svg"}, formats)
	for _, rec := range recs {
		assert.Equal(t, "https://example.com", rec.URL)
		assert.Equal(t, "Q", rec.Level)
		assert.Equal(t, store.SourceCLI, rec.Source)
		assert.Nil(t, rec.Reachable)
	}
}

func TestGenerateTerminal(t *testing.T) {
	code, stdout, _ := execute(t, "--png", filepath.Join(t.TempDir(), "t.png"), "--no-check", "--terminal")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, qrterminal.BLACK)
}

func TestDecodeCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "d.png")
	code, _, _ := execute(t, "--url", "https://example.com/decode", "--png", png, "--no-check")
	require.Equal(t, 0, code)

	code, stdout, _ := execute(t, "decode", png)
	assert.Equal(t, 0, code)
	assert.Equal(t, "https://example.com/decode\n", stdout)

	code, _, stderr := execute(t, "decode", filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "[ERREUR]")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "openclaw-qr "+version+"\n", stdout)
}

func TestColorizeOptions(t *testing.T) {
	cfg := &config.Config{
		LogoRatio: 0.3,
		Gradient:  config.Gradient{Start: "navy", End: "#ff8800", Alpha: 200},
	}
	opts, err := colorizeOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), opts.Start.B)
	assert.Equal(t, uint8(0x88), opts.End.G)
	assert.Equal(t, uint8(200), opts.Alpha)
	assert.Equal(t, 0.3, opts.LogoRatio)

	cfg.Gradient.End = "bogus"
	_, err = colorizeOptions(cfg)
	assert.ErrorContains(t, err, "gradient.end")
}
