// Package archivetest builds in-memory zip fixtures for tests.
package archivetest

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"
)

// Zip returns a zip archive containing files, written in name order.
// Names ending in "/" are written as directory entries.
func Zip(t testing.TB, files map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %q: %v", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatalf("writing zip entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}
