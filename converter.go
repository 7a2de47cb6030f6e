package diag2svg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-diag2svg/internal/archive"
	"github.com/alnah/go-diag2svg/internal/assets"
)

// Converter renders diagram documents to SVG.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter is safe for concurrent use: each Convert call runs its own
// render transaction on its own port against the shared, read-only bundles.
type Converter struct {
	cfg    converterConfig
	logger *slog.Logger
	app    *archive.Archive
	fonts  *archive.Archive
	driver pageDriver
}

// NewConverter creates a Converter with default configuration.
// Bundles are loaded and validated once here.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			logger:  slog.Default(),
			browser: BrowserRod,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.cfg.logger

	if err := c.loadBundles(); err != nil {
		return nil, err
	}

	if c.driver == nil {
		d, err := newDriver(c.cfg)
		if err != nil {
			return nil, err
		}
		c.driver = d
	}

	return c, nil
}

// loadBundles resolves the application and font archives.
// Priority: WithBundles > WithAssetPath (with embedded fallback) > embedded.
func (c *Converter) loadBundles() error {
	var loader assets.BundleLoader = assets.NewEmbeddedLoader()
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}
	if c.cfg.appZip != nil || c.cfg.fontsZip != nil {
		loader = bytesLoader{
			assets.AppBundle:  c.cfg.appZip,
			assets.FontBundle: c.cfg.fontsZip,
		}
	}

	app, err := assets.OpenArchive(loader, assets.AppBundle)
	if err != nil {
		return fmt.Errorf("loading application bundle: %w", err)
	}
	fonts, err := assets.OpenArchive(loader, assets.FontBundle)
	if err != nil {
		return fmt.Errorf("loading font bundle: %w", err)
	}

	c.logger.Debug("bundles loaded", "app", app.Size(), "fonts", fonts.Size())

	c.app = app
	c.fonts = fonts
	return nil
}

// bytesLoader serves bundles supplied in memory.
type bytesLoader map[string][]byte

func (b bytesLoader) LoadBundle(name string) ([]byte, error) {
	data := b[name]
	if data == nil {
		return nil, fmt.Errorf("%w: %q not supplied", assets.ErrBundleNotFound, name)
	}
	return data, nil
}

// Convert renders input and post-processes the result.
// The whole transaction is bounded by the converter timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	input, err = c.validateInput(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	raw, err := c.render(ctx, input)
	if err != nil {
		return nil, err
	}

	svg, err := c.postprocess(raw, input.Format)
	if err != nil {
		return nil, err
	}

	return &ConvertResult{SVG: svg, Raw: raw}, nil
}

// Close releases resources (headless browser).
func (c *Converter) Close() error {
	if c.driver != nil {
		return c.driver.Close()
	}
	return nil
}

// validateInput rejects what cannot be rendered and normalizes the export
// configuration. Format and type checks run before any socket or browser is
// touched so a rejected call has no side effects.
func (c *Converter) validateInput(input Input) (Input, error) {
	if len(input.Data) == 0 {
		return input, ErrEmptyInput
	}
	if input.Type != InputExcalidraw {
		return input, fmt.Errorf("%w: %s has no bundled renderer", ErrUnsupportedInput, input.Type)
	}
	if err := checkFormat(input.Format); err != nil {
		return input, err
	}

	theme, err := ParseTheme(string(input.Export.Theme))
	if err != nil {
		return input, err
	}
	input.Export.Theme = theme

	switch scale := input.Export.Scale; {
	case scale == 0:
		input.Export.Scale = MinScale
		c.logger.Debug("scale unset, using minimum", "used", MinScale)
	case ClampScale(scale) != scale:
		input.Export.Scale = ClampScale(scale)
		c.logger.Warn("scale out of range, clamped", "requested", scale, "used", input.Export.Scale)
	}

	return input, nil
}
