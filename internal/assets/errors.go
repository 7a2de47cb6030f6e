package assets

import "errors"

// Sentinel errors for bundle operations.
var (
	// ErrBundleNotFound indicates the requested bundle does not exist.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrInvalidAssetName indicates the bundle name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading a bundle file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
