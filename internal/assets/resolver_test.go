package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/alnah/go-diag2svg/internal/archive"
	"github.com/alnah/go-diag2svg/internal/archive/archivetest"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_LoadBundle(t *testing.T) {
	t.Parallel()

	customDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(customDir, "app.zip"), []byte("custom app"), 0o644); err != nil {
		t.Fatalf("failed to write bundle: %v", err)
	}
	custom, err := NewFilesystemLoader(customDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	resolver := &AssetResolver{
		custom: custom,
		embedded: &EmbeddedLoader{fsys: fstest.MapFS{
			"bundles/app.zip":   {Data: []byte("embedded app")},
			"bundles/fonts.zip": {Data: []byte("embedded fonts")},
		}},
	}

	tests := []struct {
		name    string
		bundle  string
		want    string
		wantErr error
	}{
		{name: "custom takes precedence", bundle: "app", want: "custom app"},
		{name: "falls back to embedded", bundle: "fonts", want: "embedded fonts"},
		{name: "missing everywhere", bundle: "other", wantErr: ErrBundleNotFound},
		{name: "invalid name does not fall back", bundle: "../fonts", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.LoadBundle(tt.bundle)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadBundle(%q) error = %v, want %v", tt.bundle, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadBundle(%q) error = %v", tt.bundle, err)
			}
			if string(got) != tt.want {
				t.Errorf("LoadBundle(%q) = %q, want %q", tt.bundle, got, tt.want)
			}
		})
	}
}

func TestOpenArchive(t *testing.T) {
	t.Parallel()

	loader := &EmbeddedLoader{fsys: fstest.MapFS{
		"bundles/app.zip":   {Data: archivetest.Zip(t, map[string][]byte{"index.html": []byte("<html>")})},
		"bundles/fonts.zip": {Data: []byte("not a zip")},
	}}

	t.Run("valid bundle", func(t *testing.T) {
		t.Parallel()

		a, err := OpenArchive(loader, AppBundle)
		if err != nil {
			t.Fatalf("OpenArchive() error = %v", err)
		}
		if a.Name() != "app.zip" {
			t.Errorf("Name() = %q, want %q", a.Name(), "app.zip")
		}
		if _, err := a.Lookup("index.html"); err != nil {
			t.Errorf("Lookup(index.html) error = %v", err)
		}
	})

	t.Run("corrupt bundle", func(t *testing.T) {
		t.Parallel()

		_, err := OpenArchive(loader, FontBundle)
		if !errors.Is(err, archive.ErrCorrupt) {
			t.Errorf("OpenArchive() error = %v, want archive.ErrCorrupt", err)
		}
	})

	t.Run("missing bundle", func(t *testing.T) {
		t.Parallel()

		_, err := OpenArchive(&EmbeddedLoader{fsys: fstest.MapFS{}}, AppBundle)
		if !errors.Is(err, ErrBundleNotFound) {
			t.Errorf("OpenArchive() error = %v, want ErrBundleNotFound", err)
		}
	})
}
