package diag2svg

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// chromedpDriver implements pageDriver using chromedp.
// One browser process is shared; each Visit runs in its own tab.
type chromedpDriver struct {
	opts launchOptions

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

func newChromedpDriver(opts launchOptions) *chromedpDriver {
	return &chromedpDriver{opts: opts}
}

// ensureBrowser lazily starts the browser and returns its context.
func (d *chromedpDriver) ensureBrowser() (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browserCtx != nil {
		return d.browserCtx, nil
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if d.opts.bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(d.opts.bin))
	}
	if d.opts.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	d.opts.logger.Debug("browser launched", "backend", BrowserChromedp)

	d.browserCtx = browserCtx
	d.browserCancel = browserCancel
	d.allocCancel = allocCancel
	return browserCtx, nil
}

func (d *chromedpDriver) Visit(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	browserCtx, err := d.ensureBrowser()
	if err != nil {
		return err
	}

	// Canceling the tab context closes the tab.
	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	if err := chromedp.Run(tabCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	log := d.opts.logger
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			log.Warn("page exception", "url", url, "text", e.ExceptionDetails.Text, "line", e.ExceptionDetails.LineNumber)
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				log.Warn("page console error", "url", url, "args", len(e.Args))
			}
		}
	})

	// Navigate waits for the load event.
	if err := chromedp.Run(tabCtx, runtime.Enable(), chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	log.Debug("page loaded", "url", url)

	<-ctx.Done()
	return nil
}

// Close shuts the browser down.
func (d *chromedpDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(d.browserCtx)
	d.browserCancel()
	d.allocCancel()
	d.browserCtx = nil
	return err
}
