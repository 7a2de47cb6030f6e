package diag2svg

import (
	"context"
	"log/slog"
	"os"
)

// pageDriver opens a page in a headless browser and keeps it alive.
//
// Visit launches the browser on first use, navigates to url and waits for
// the load event. It then blocks until ctx is done so the page script can
// post its result, closes the page and returns nil. Launch, page creation
// and navigation failures are returned immediately.
type pageDriver interface {
	Visit(ctx context.Context, url string) error
	Close() error
}

// Compile-time interface checks.
var (
	_ pageDriver = (*rodDriver)(nil)
	_ pageDriver = (*chromedpDriver)(nil)
)

// launchOptions are shared by every backend.
type launchOptions struct {
	bin       string
	noSandbox bool
	logger    *slog.Logger
}

// resolveLaunchOptions merges explicit options with the environment.
// The sandbox is disabled in CI, when ROD_NO_SANDBOX=1, or when a custom
// binary is given through ROD_BROWSER_BIN (containerized Chrome).
func resolveLaunchOptions(cfg converterConfig) launchOptions {
	opts := launchOptions{
		bin:       cfg.browserBin,
		noSandbox: cfg.noSandbox,
		logger:    cfg.logger,
	}

	envBin := os.Getenv("ROD_BROWSER_BIN")
	if opts.bin == "" {
		opts.bin = envBin
	}

	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || envBin != "" {
		opts.noSandbox = true
	}

	return opts
}

// newDriver creates the driver for the configured backend.
func newDriver(cfg converterConfig) (pageDriver, error) {
	b, err := ParseBrowser(string(cfg.browser))
	if err != nil {
		return nil, err
	}

	opts := resolveLaunchOptions(cfg)
	switch b {
	case BrowserChromedp:
		return newChromedpDriver(opts), nil
	default:
		return newRodDriver(opts), nil
	}
}
