// Package archive provides read-only lookups into in-memory zip archives.
//
// An Archive wraps a byte slice that is built once (at program build time)
// and never mutated afterwards. Every lookup opens its own reader over the
// shared buffer, so a single Archive can serve many goroutines without
// locking.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Sentinel errors for archive operations.
var (
	// ErrNotFound indicates the requested entry does not exist in the archive.
	ErrNotFound = errors.New("archive entry not found")

	// ErrCorrupt indicates the archive container itself is malformed.
	// Archives are trusted build artifacts: callers must not retry.
	ErrCorrupt = errors.New("archive is corrupt")
)

// maxPrealloc caps the buffer preallocated from an entry's declared size.
const maxPrealloc = 16 << 20

// Archive is an immutable zip archive held in memory.
type Archive struct {
	name string
	data []byte
}

// New validates data as a zip container and returns an Archive.
// The name is only used in error messages and logs.
func New(name string, data []byte) (*Archive, error) {
	a := &Archive{name: name, data: data}
	if _, err := a.open(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the archive name given to New.
func (a *Archive) Name() string {
	return a.name
}

// Size returns the compressed size of the archive in bytes.
func (a *Archive) Size() int {
	return len(a.data)
}

// Lookup returns the decompressed bytes of the named entry.
// A leading "/" is ignored. Returns ErrNotFound if the entry is absent
// or names a directory.
func (a *Archive) Lookup(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")

	zr, err := a.open()
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		if f.FileInfo().IsDir() {
			break
		}
		return readEntry(a.name, f)
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, a.name, name)
}

// Entries lists the file names stored in the archive, sorted.
func (a *Archive) Entries() ([]string, error) {
	zr, err := a.open()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}

// open creates a fresh zip reader over the shared buffer.
func (a *Archive) open() (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(a.data), int64(len(a.data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, a.name, err)
	}
	return zr, nil
}

// readEntry decompresses a single zip entry.
func readEntry(archiveName string, f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, archiveName, f.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	buf.Grow(int(min(f.UncompressedSize64, maxPrealloc)))
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, archiveName, f.Name, err)
	}
	return buf.Bytes(), nil
}
