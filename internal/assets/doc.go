// Package assets locates the application and font bundles used by renders.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	BundleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (bundles/)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the bundles compiled into the binary.
//
// FilesystemLoader allows users to point at a directory holding freshly built
// bundles, with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the bundle is not
// found there. This allows overriding one bundle while keeping the other.
//
// # Directory Structure
//
//	{basePath}/
//	├── app.zip      # web application, index.html at the root
//	└── fonts.zip    # font files, flat
//
// # Security
//
// Bundle names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
