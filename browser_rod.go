package diag2svg

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-diag2svg/internal/process"
)

// rodDriver implements pageDriver using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodDriver struct {
	opts launchOptions

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func newRodDriver(opts launchOptions) *rodDriver {
	return &rodDriver{opts: opts}
}

// ensureBrowser lazily launches and connects to the browser.
func (d *rodDriver) ensureBrowser() (*rod.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		return d.browser, nil
	}

	l := launcher.New().Headless(true)
	if d.opts.bin != "" {
		l = l.Bin(d.opts.bin)
	}
	if d.opts.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	d.opts.logger.Debug("browser launched", "backend", BrowserRod, "pid", l.PID())

	d.browser = b
	d.launcher = l
	return b, nil
}

func (d *rodDriver) Visit(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := d.ensureBrowser()
	if err != nil {
		return err
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx)
	log := d.opts.logger

	// A page that throws never posts its result; surface why.
	go p.EachEvent(
		func(e *proto.RuntimeExceptionThrown) {
			log.Warn("page exception", "url", url, "text", e.ExceptionDetails.Text, "line", e.ExceptionDetails.LineNumber)
		},
		func(e *proto.RuntimeConsoleAPICalled) {
			if e.Type == proto.RuntimeConsoleAPICalledTypeError {
				log.Warn("page console error", "url", url, "args", len(e.Args))
			}
		},
	)()

	if err := p.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	log.Debug("page loaded", "url", url)

	<-ctx.Done()
	return nil
}

// Close releases browser resources, including orphaned child processes.
func (d *rodDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.launcher != nil {
		process.KillProcessGroup(d.launcher.PID())
		d.launcher.Kill()
		d.launcher = nil
	}
	return err
}
