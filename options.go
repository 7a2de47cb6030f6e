package diag2svg

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Browser selects the browser automation backend.
type Browser string

// Browser backends.
const (
	BrowserRod      Browser = "rod"
	BrowserChromedp Browser = "chromedp"
)

// ParseBrowser parses a backend name (case-insensitive). Empty means BrowserRod.
func ParseBrowser(s string) (Browser, error) {
	switch strings.ToLower(s) {
	case "", string(BrowserRod):
		return BrowserRod, nil
	case string(BrowserChromedp):
		return BrowserChromedp, nil
	}
	return "", fmt.Errorf("%w: %q (must be rod or chromedp)", ErrInvalidBrowser, s)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	logger     *slog.Logger
	browser    Browser
	browserBin string
	noSandbox  bool
	assetPath  string
	appZip     []byte
	fontsZip   []byte
	ruleScoped bool
}

// defaultTimeout bounds a whole render transaction when no timeout is given.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the render transaction timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("diag2svg: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithBrowser selects the browser backend.
func WithBrowser(b Browser) Option {
	return func(c *Converter) {
		c.cfg.browser = b
	}
}

// WithBrowserBin sets the Chrome binary. Overrides ROD_BROWSER_BIN.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, needed in most containers.
func WithNoSandbox(disable bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disable
	}
}

// WithAssetPath reads app.zip and fonts.zip from dir, falling back to the
// embedded bundles for any that are missing.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithBundles supplies the application and font bundles as zip bytes.
// Takes precedence over WithAssetPath and the embedded bundles.
func WithBundles(app, fonts []byte) Option {
	return func(c *Converter) {
		c.cfg.appZip = app
		c.cfg.fontsZip = fonts
	}
}

// WithRuleScopedFonts reads each font's family and file from the same
// @font-face rule instead of pairing two independent scans by position.
func WithRuleScopedFonts(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.ruleScoped = enabled
	}
}

// withDriver injects a page driver (tests).
func withDriver(d pageDriver) Option {
	return func(c *Converter) {
		c.driver = d
	}
}
