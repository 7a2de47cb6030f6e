package assets

import "errors"

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the bundle is not found in the custom location.
type AssetResolver struct {
	custom   BundleLoader // nil if no custom path configured
	embedded BundleLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded bundles are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadBundle loads a bundle, trying the custom loader first if available.
func (r *AssetResolver) LoadBundle(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadBundle(name)
	}

	data, err := r.custom.LoadBundle(name)
	if err == nil {
		return data, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrBundleNotFound) {
		return nil, err
	}

	return r.embedded.LoadBundle(name)
}

// HasCustomLoader returns true if a custom bundle loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ BundleLoader = (*AssetResolver)(nil)
