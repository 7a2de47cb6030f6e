package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-diag2svg/internal/assetserver"
)

// runServeCmd parses flags and runs the serve command.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runServe(ctx, fs, flags, env)
}

// runServe hosts one document for an external browser and writes the SVG
// that browser posts back. Nothing is written if the wait ends without a
// result.
func runServe(ctx context.Context, fs *flag.FlagSet, flags *serveFlags, env *Environment) error {
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: serve takes exactly one input file, got %d", ErrUsage, fs.NArg())
	}
	inputPath := fs.Arg(0)

	envCfg, err := loadEnvConfig()
	if err != nil {
		return err
	}
	cfg, err := loadSettings(fs, flags.common, envCfg)
	if err != nil {
		return err
	}
	settings, err := buildRenderSettings(cfg, flags.render.inputType)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	input, err := buildInput(inputPath, data, settings)
	if err != nil {
		return err
	}

	outputPath, err := resolveOutputPath(inputPath, resolveOutputDir(flags.output, cfg), "")
	if err != nil {
		return err
	}

	host, err := env.NewHost(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	result, err := host.Host(ctx, input, flags.addr, func(url string) {
		fmt.Fprintf(env.Stdout, "Serving %s at %s\n", filepath.Base(inputPath), url)
		fmt.Fprintf(env.Stdout, "Open it in a browser; waiting for the page to post %s (Ctrl-C to stop)\n", assetserver.ReturnPath)
	})
	if err != nil {
		return err
	}

	if err := writeOutput(outputPath, result.SVG); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outputPath)
	}
	return nil
}
