package assets

import (
	"fmt"

	"github.com/alnah/go-diag2svg/internal/archive"
)

// Bundle names.
const (
	AppBundle  = "app"
	FontBundle = "fonts"
)

// bundleExt is appended to a bundle name to form its file name.
const bundleExt = ".zip"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadBundle loads a bundle by name using the default embedded loader.
func LoadBundle(name string) ([]byte, error) {
	return defaultLoader.LoadBundle(name)
}

// OpenArchive loads a bundle through loader and validates it as a zip archive.
func OpenArchive(loader BundleLoader, name string) (*archive.Archive, error) {
	data, err := loader.LoadBundle(name)
	if err != nil {
		return nil, err
	}
	a, err := archive.New(name+bundleExt, data)
	if err != nil {
		return nil, fmt.Errorf("opening bundle %q: %w", name, err)
	}
	return a, nil
}
