package diag2svg

import (
	"errors"
	"fmt"

	"github.com/alnah/go-diag2svg/internal/assets"
	"github.com/alnah/go-diag2svg/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput        = errors.New("input document cannot be empty")
	ErrUnsupportedInput  = errors.New("unsupported input type")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrRenderTimeout     = errors.New("render timed out")
	ErrResultAbandoned   = errors.New("render ended without a result")

	// Option and input validation errors.
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrInvalidInputType = errors.New("invalid input type")
	ErrInvalidBrowser   = errors.New("invalid browser backend")

	// Bundle errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrBundleNotFound   = assets.ErrBundleNotFound

	// Markup post-processing errors.
	ErrStyleBlockNotFound = pipeline.ErrStyleBlockNotFound
	ErrMalformedStyle     = pipeline.ErrMalformedStyle
	ErrFontNotFound       = pipeline.ErrFontNotFound
)

// Stage names the step of a render transaction that failed.
type Stage string

// Transaction stages.
const (
	StageBind        Stage = "bind"
	StageServe       Stage = "serve"
	StageBrowser     Stage = "browser"
	StageWait        Stage = "wait"
	StagePostprocess Stage = "postprocess"
)

// RenderError describes a failed render transaction.
// Archive and Path are set when the failure concerns a bundle entry.
type RenderError struct {
	Stage   Stage
	Archive string
	Path    string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s/%s: %v", e.Stage, e.Archive, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
