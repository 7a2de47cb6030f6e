package pipeline

import "errors"

// Sentinel errors for markup post-processing.
var (
	ErrStyleBlockNotFound = errors.New("font style block not found")
	ErrMalformedStyle     = errors.New("malformed font style")
	ErrFontNotFound       = errors.New("font not found in font bundle")
)
