package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	diag2svg "github.com/alnah/go-diag2svg"
	"github.com/alnah/go-diag2svg/internal/config"
	"github.com/alnah/go-diag2svg/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// svgExt is the output extension.
const svgExt = ".svg"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runConvert(ctx, fs, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, fs *flag.FlagSet, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

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

	inputs := fs.Args()
	if len(inputs) == 0 {
		return ErrNoInput
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(inputs, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDiagrams, strings.Join(inputs, ", "))
	}

	poolSize := min(diag2svg.ResolvePoolSize(cfg.Render.Workers), len(files))
	logger.Debug("starting conversion", "files", len(files), "workers", poolSize)

	pool := env.NewPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converter pool", "error", err)
		}
	}()

	results := convertBatch(ctx, pool, files, settings)

	failed, firstErr := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstErr)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// resolveOutputDir determines the output destination from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles expands inputs into files to convert. A file input is taken
// as-is whatever its extension; a directory contributes every diagram file
// below it.
func discoverFiles(inputs []string, output string) ([]FileToConvert, error) {
	if len(inputs) > 1 && strings.EqualFold(filepath.Ext(output), svgExt) {
		return nil, fmt.Errorf("%w: --output %s names a single file but %d inputs were given", ErrUsage, output, len(inputs))
	}

	var files []FileToConvert
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			out, err := resolveOutputPath(input, output, "")
			if err != nil {
				return nil, err
			}
			files = append(files, FileToConvert{InputPath: input, OutputPath: out})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !isDiagramFile(path) {
				return nil
			}
			out, err := resolveOutputPath(path, output, input)
			if err != nil {
				return err
			}
			files = append(files, FileToConvert{InputPath: path, OutputPath: out})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// resolveOutputPath determines the SVG output path for an input file.
// Without output, the SVG lands next to the input. An output ending in .svg
// is used verbatim; any other output is a directory, mirroring the input
// tree below baseInputDir.
func resolveOutputPath(inputPath, output, baseInputDir string) (string, error) {
	name, err := fileutil.ReplaceExt(filepath.Base(inputPath), svgExt)
	if err != nil {
		return "", err
	}

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name), nil
	}

	if strings.EqualFold(filepath.Ext(output), svgExt) {
		return output, nil
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(output, filepath.Dir(rel), name), nil
		}
	}

	return filepath.Join(output, name), nil
}

// convertBatch processes files concurrently, at most pool.Size() at a time.
// A failed file never stops the others; results keep the input order.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, settings *renderSettings) []ConversionResult {
	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(pool.Size())

	for i, f := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: ctx.Err()}
				return nil
			}

			conv, err := pool.Acquire()
			if err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			defer pool.Release(conv)

			results[i] = convertFile(ctx, conv, f, settings)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// convertFile processes a single file and returns the result.
// The output file is only created once the SVG is complete.
func convertFile(ctx context.Context, conv Converter, f FileToConvert, settings *renderSettings) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	data, err := os.ReadFile(f.InputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	input, err := buildInput(f.InputPath, data, settings)
	if err != nil {
		return fail(err)
	}

	res, err := conv.Convert(ctx, input)
	if err != nil {
		return fail(err)
	}

	if err := writeOutput(f.OutputPath, res.SVG); err != nil {
		return fail(err)
	}

	result.Duration = time.Since(start)
	return result
}

// buildInput assembles a library Input for one document.
func buildInput(path string, data []byte, settings *renderSettings) (diag2svg.Input, error) {
	var (
		typ diag2svg.InputType
		err error
	)
	if settings.inputType != "" {
		typ, err = diag2svg.ParseInputType(settings.inputType)
	} else {
		typ, err = inferInputType(path, data)
	}
	if err != nil {
		return diag2svg.Input{}, err
	}

	return diag2svg.Input{
		Data:   data,
		Type:   typ,
		Export: settings.export,
		Format: settings.format,
	}, nil
}

// writeOutput creates the parent directory and writes data atomically.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printResults outputs conversion results and returns the failure count and
// the first failure.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) (int, error) {
	var (
		failed   int
		firstErr error
	)

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed, firstErr
}

// isHelp reports whether err asks for usage output.
func isHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
