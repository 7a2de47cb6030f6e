package assets

// BundleLoader loads a bundle archive by name.
type BundleLoader interface {
	// LoadBundle returns the raw zip bytes of a bundle (name without .zip).
	// Returns ErrBundleNotFound if the bundle doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadBundle(name string) ([]byte, error)
}
