package diag2svg

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/alnah/go-diag2svg/internal/assetserver"
	"github.com/alnah/go-diag2svg/internal/oneshot"
)

// render runs one transaction: bind a loopback port, serve the bundle and
// input, point the browser at the page and wait for the posted markup.
func (c *Converter) render(ctx context.Context, input Input) ([]byte, error) {
	ln, err := assetserver.Listen(assetserver.LoopbackHost)
	if err != nil {
		return nil, &RenderError{Stage: StageBind, Err: err}
	}
	return c.transact(ctx, ln, input, c.driver, nil)
}

// Host serves input on addr without launching a browser and waits until a
// client posts the rendered markup or ctx is done. onReady, when non-nil,
// receives the page URL once the listener is bound. The returned markup is
// post-processed according to input.Format.
func (c *Converter) Host(ctx context.Context, input Input, addr string, onReady func(url string)) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	input, err = c.validateInput(input)
	if err != nil {
		return nil, err
	}

	ln, err := assetserver.ListenAddr(addr)
	if err != nil {
		return nil, &RenderError{Stage: StageBind, Err: err}
	}

	raw, err := c.transact(ctx, ln, input, nil, onReady)
	if err != nil {
		return nil, err
	}

	svg, err := c.postprocess(raw, input.Format)
	if err != nil {
		return nil, err
	}
	return &ConvertResult{SVG: svg, Raw: raw}, nil
}

// transact owns ln. It starts the server and, when driver is non-nil, the
// browser visit, then waits for the first of: a delivered result, a browser
// failure, a server failure, or ctx ending. Both tasks are told to stop on
// return; their completion is not awaited.
func (c *Converter) transact(ctx context.Context, ln net.Listener, input Input, driver pageDriver, onReady func(string)) ([]byte, error) {
	result := oneshot.New[[]byte]()
	srv := assetserver.New(assetserver.Config{
		Input:     input.Data,
		InputName: input.Type.VirtualName(),
		Export:    input.Export.exportOptions(),
		App:       c.app,
		Result:    result,
		Logger:    c.logger,
	})

	taskCtx, stop := context.WithCancel(ctx)
	defer stop()

	pageURL := assetserver.PageURL(ln.Addr())
	log := c.logger.With("url", pageURL)
	log.Debug("render transaction started")

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(taskCtx, ln) }()

	var browserErr chan error
	if driver != nil {
		browserErr = make(chan error, 1)
		go func() { browserErr <- driver.Visit(taskCtx, pageURL) }()
	}

	if onReady != nil {
		onReady(pageURL)
	}

	for {
		select {
		case <-result.Done():
			markup, err := result.Result()
			if err == nil {
				log.Debug("render transaction finished", "size", len(markup))
				return markup, nil
			}
			if ctx.Err() != nil {
				return nil, c.waitError(ctx)
			}
			// Only Serve abandons the result, on its way out, so its
			// return value is already on the way.
			if serveErr != nil {
				if err := <-serveErr; err != nil {
					log.Error("asset server failed", "error", err)
					return nil, &RenderError{Stage: StageServe, Err: errors.Join(ErrResultAbandoned, err)}
				}
			}
			return nil, &RenderError{Stage: StageWait, Err: ErrResultAbandoned}

		case err := <-browserErr:
			browserErr = nil
			if err != nil && ctx.Err() == nil {
				log.Error("browser failed", "error", err)
				return nil, &RenderError{Stage: StageBrowser, Err: err}
			}

		case err := <-serveErr:
			serveErr = nil
			if err != nil {
				log.Error("asset server failed", "error", err)
				return nil, &RenderError{Stage: StageServe, Err: errors.Join(ErrResultAbandoned, err)}
			}

		case <-ctx.Done():
			return nil, c.waitError(ctx)
		}
	}
}

// waitError maps the end of ctx to a transaction error.
func (c *Converter) waitError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("render timed out", "timeout", c.cfg.timeout)
		return &RenderError{Stage: StageWait, Err: ErrRenderTimeout}
	}
	return ctx.Err()
}
