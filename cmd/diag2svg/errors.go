package main

import (
	"errors"

	diag2svg "github.com/alnah/go-diag2svg"
	"github.com/alnah/go-diag2svg/internal/config"
	"github.com/alnah/go-diag2svg/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrNoDiagrams         = errors.New("no diagram files found")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrUnknownInputType   = errors.New("cannot infer input type")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidEnv         = errors.New("invalid environment variable")
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, diag2svg.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, diag2svg.ErrRenderTimeout):
		return hints.ForTimeout()
	case errors.Is(err, diag2svg.ErrResultAbandoned):
		return hints.ForResultAbandoned()
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Searched)
	case errors.Is(err, diag2svg.ErrBundleNotFound):
		return hints.ForBundleNotFound()
	case errors.Is(err, ErrUnknownInputType):
		return hints.ForInputType()
	case errors.Is(err, diag2svg.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat(diag2svg.SupportedFormats())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
