package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrcode/qr"
	"github.com/openclaw/qrcode/store"
	"github.com/openclaw/qrcode/urlcheck"
)

const (
	defaultURL     = "https://artbeaurescence.sn"
	defaultPNGPath = "artbeaurescence_qr.png"
)

type generateFlags struct {
	url      string
	png      string
	svg      string
	ecLevel  string
	boxSize  int
	border   int
	noCheck  bool
	timeout  float64
	fg       string
	bg       string
	verify   bool
	terminal bool
	history  string
	logLevel string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", defaultURL, "URL to encode (http or https)")
	fl.StringVar(&f.png, "png", defaultPNGPath, "PNG output path (empty to disable)")
	fl.StringVar(&f.svg, "svg", "", "SVG output path (empty to disable)")
	fl.StringVar(&f.ecLevel, "ec-level", qr.DefaultLevel, "Error correction level: L, M, Q or H")
	fl.IntVar(&f.boxSize, "box-size", 10, "Pixels per module (PNG only)")
	fl.IntVar(&f.border, "border", 4, "Quiet zone width in modules")
	fl.BoolVar(&f.noCheck, "no-check", false, "Skip the online reachability check")
	fl.Float64Var(&f.timeout, "timeout", 5.0, "Reachability check timeout in seconds")
	fl.StringVar(&f.fg, "fg", "black", "Module colour (#rgb, #rrggbb, #rrggbbaa or a CSS name)")
	fl.StringVar(&f.bg, "bg", "white", "Background colour")
	fl.BoolVar(&f.verify, "verify", false, "Decode the written files and check they carry the URL")
	fl.BoolVar(&f.terminal, "terminal", false, "Also draw the QR code in the terminal")
	fl.StringVar(&f.history, "history", "", "SQLite database recording generated files (empty to disable)")
	fl.StringVar(&f.logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn or error")
}

// options turns the flags into generation options. Errors are invalid values.
func (f *generateFlags) options() (qr.Options, error) {
	level, err := qr.ParseLevel(f.ecLevel)
	if err != nil {
		return qr.Options{}, err
	}
	fg, err := qr.ParseColor(f.fg)
	if err != nil {
		return qr.Options{}, err
	}
	bg, err := qr.ParseColor(f.bg)
	if err != nil {
		return qr.Options{}, err
	}
	if f.timeout <= 0 {
		return qr.Options{}, &qr.InvalidConfigError{
			Field:  "timeout",
			Value:  fmt.Sprint(f.timeout),
			Reason: "doit être strictement positif",
		}
	}

	return qr.Options{
		URL:   f.url,
		Level: level,
		Style: qr.Style{
			ModuleSize: f.boxSize,
			Border:     f.border,
			Foreground: fg,
			Background: bg,
		},
		PNGPath:     strings.TrimSpace(f.png),
		SVGPath:     strings.TrimSpace(f.svg),
		CheckOnline: !f.noCheck,
		Timeout:     time.Duration(f.timeout * float64(time.Second)),
	}, nil
}

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log := newLogger(stderr, f.logLevel)

	if err := urlcheck.Validate(f.url); err != nil {
		return &exitError{code: 2, err: err}
	}

	opts, err := f.options()
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	var reachable *bool
	if opts.CheckOnline {
		ok := urlcheck.NewProber(opts.Timeout, log).Reachable(cmd.Context(), opts.URL)
		reachable = &ok
		state := "NON JOIGNABLE"
		if ok {
			state = "OK"
		}
		fmt.Fprintf(stdout, "[Info] Vérification en ligne de l’URL: %s\n", state)
	}

	// res lists what was written even when a later format failed.
	res, err := qr.Generate(opts)
	if res.PNGPath != "" {
		fmt.Fprintf(stdout, "[OK] PNG généré: %s\n", res.PNGPath)
	}
	if res.SVGPath != "" {
		fmt.Fprintf(stdout, "[OK] SVG généré: %s\n", res.SVGPath)
	}
	if err != nil {
		var cerr *qr.InvalidConfigError
		if errors.As(err, &cerr) {
			return &exitError{code: 2, err: err}
		}
		return &exitError{code: 1, err: err}
	}

	if f.terminal {
		qr.PrintTerminal(stdout, opts.URL, opts.Level, opts.Style.Border)
	}

	if res.Empty() {
		fmt.Fprintln(stderr, "[ATTENTION] Aucune sortie demandée (ni PNG ni SVG). Utilisez --png ou --svg.")
		return &exitError{code: 1}
	}

	if f.verify {
		verifyFiles(stdout, stderr, opts.URL, res)
	}
	if f.history != "" {
		recordHistory(log, f.history, opts, res, reachable)
	}

	fmt.Fprintln(stdout, "[Terminé] Le QR code pointera vers l’URL encodée. Il restera valable tant que cette URL restera accessible en ligne.")
	return nil
}

// verifyFiles decodes every written file and reports whether it carries want.
// A failed check is reported but does not change the exit status.
func verifyFiles(stdout, stderr io.Writer, want string, res qr.Result) {
	for _, path := range []string{res.PNGPath, res.SVGPath} {
		if path == "" {
			continue
		}
		got, err := qr.DecodeFile(path)
		switch {
		case err != nil:
			fmt.Fprintf(stderr, "[ATTENTION] Décodage impossible de %s: %v\n", path, err)
		case got != want:
			fmt.Fprintf(stderr, "[ATTENTION] %s contient %q au lieu de %q\n", path, got, want)
		default:
			fmt.Fprintf(stdout, "[OK] Décodage vérifié: %s\n", path)
		}
	}
}

func recordHistory(log *slog.Logger, dbPath string, opts qr.Options, res qr.Result, reachable *bool) {
	history, err := store.NewHistoryStore(dbPath)
	if err != nil {
		log.Warn("history disabled", "path", dbPath, "error", err)
		return
	}
	defer history.Close()

	files := []struct{ format, path string }{{"png", res.PNGPath}, {"svg", res.SVGPath}}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		_, err := history.Save(store.Record{
			URL:       opts.URL,
			Level:     qr.LevelName(opts.Level),
			Format:    file.format,
			Path:      file.path,
			Source:    store.SourceCLI,
			Reachable: reachable,
		})
		if err != nil {
			log.Warn("history not saved", "path", file.path, "error", err)
		}
	}
}

func runDecode(cmd *cobra.Command, path string) error {
	text, err := qr.DecodeFile(path)
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("décodage de %s: %w", path, err)}
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
