package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed bundles
var bundles embed.FS

// EmbeddedLoader loads bundles compiled into the binary.
// Implements BundleLoader interface.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: bundles}
}

// LoadBundle loads a bundle from the embedded bundles directory.
func (e *EmbeddedLoader) LoadBundle(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := fs.ReadFile(e.fsys, "bundles/"+name+bundleExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q not embedded in this build", ErrBundleNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return content, nil
}

// Compile-time interface check.
var _ BundleLoader = (*EmbeddedLoader)(nil)
