package main

import (
	"errors"
	"os"

	diag2svg "github.com/alnah/go-diag2svg"
	"github.com/alnah/go-diag2svg/internal/config"
)

// Exit codes for diag2svg CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser or render transaction errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, diag2svg.ErrBrowserConnect) ||
		errors.Is(err, diag2svg.ErrPageCreate) ||
		errors.Is(err, diag2svg.ErrPageLoad) ||
		errors.Is(err, diag2svg.ErrRenderTimeout) ||
		errors.Is(err, diag2svg.ErrResultAbandoned) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoDiagrams) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnknownInputType) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, diag2svg.ErrEmptyInput) ||
		errors.Is(err, diag2svg.ErrUnsupportedInput) ||
		errors.Is(err, diag2svg.ErrUnsupportedFormat) ||
		errors.Is(err, diag2svg.ErrInvalidTheme) ||
		errors.Is(err, diag2svg.ErrInvalidFormat) ||
		errors.Is(err, diag2svg.ErrInvalidInputType) ||
		errors.Is(err, diag2svg.ErrInvalidBrowser) ||
		errors.Is(err, diag2svg.ErrInvalidAssetPath) ||
		errors.Is(err, diag2svg.ErrBundleNotFound) {
		return ExitUsage
	}

	// Remaining transaction failures (bind, serve) are render errors;
	// post-processing failures stay general.
	var rerr *diag2svg.RenderError
	if errors.As(err, &rerr) && rerr.Stage != diag2svg.StagePostprocess {
		return ExitBrowser
	}

	return ExitGeneral
}
