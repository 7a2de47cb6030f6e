package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// defaultServeAddr binds every interface on an OS-assigned port.
const defaultServeAddr = "0.0.0.0:0"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds export and output format flags.
type renderFlags struct {
	inputType  string
	format     string
	theme      string
	background bool
	source     bool
	scale      int
	timeout    string
}

// browserFlags holds browser backend flags.
type browserFlags struct {
	backend   string
	bin       string
	noSandbox bool
}

// assetFlags holds bundle and font resolution flags.
type assetFlags struct {
	assetPath  string
	ruleScoped bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	render  renderFlags
	browser browserFlags
	assets  assetFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	output string
	addr   string
	render renderFlags
	assets assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addRenderFlags adds export option flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.inputType, "type", "t", "", "input type: excalidraw, drawio (default: inferred)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: embed, raw, no-font, path")
	fs.StringVar(&f.theme, "theme", "", "theme: dark, light")
	fs.BoolVarP(&f.background, "background", "b", false, "export the canvas background")
	fs.BoolVar(&f.source, "source", false, "embed the scene so the SVG can be reopened")
	fs.IntVarP(&f.scale, "scale", "s", 0, "export scale (1-3)")
	fs.StringVar(&f.timeout, "timeout", "", "render timeout (e.g., 30s, 2m)")
}

// addBrowserFlags adds browser backend flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.backend, "browser", "", "browser backend: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome binary path")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
}

// addAssetFlags adds bundle flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "directory holding app.zip and fonts.zip")
	fs.BoolVar(&f.ruleScoped, "rule-scoped-fonts", false, "pair font families and files per @font-face rule")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*flag.FlagSet, *convertFlags, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return fs, f, nil
}

// parseServeFlags parses serve command flags and returns positional args.
// serve never launches a browser, so it has no browser flags.
func parseServeFlags(args []string, stderr io.Writer) (*flag.FlagSet, *serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file")
	fs.StringVar(&f.addr, "addr", defaultServeAddr, "listen address")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printServeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return fs, f, nil
}

// usageError keeps flag.ErrHelp recognizable and marks the rest as usage errors.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
