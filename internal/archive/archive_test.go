package archive

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-diag2svg/internal/archive/archivetest"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name: "valid archive",
			data: archivetest.Zip(t, map[string][]byte{"index.html": []byte("<html></html>")}),
		},
		{
			name: "empty archive",
			data: archivetest.Zip(t, map[string][]byte{}),
		},
		{
			name:    "garbage bytes are corrupt",
			data:    []byte("definitely not a zip file"),
			wantErr: ErrCorrupt,
		},
		{
			name:    "nil data is corrupt",
			data:    nil,
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := New("app", tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Name() != "app" {
				t.Errorf("Name() = %q, want %q", a.Name(), "app")
			}
			if a.Size() != len(tt.data) {
				t.Errorf("Size() = %d, want %d", a.Size(), len(tt.data))
			}
		})
	}
}

func TestArchive_Lookup(t *testing.T) {
	t.Parallel()

	data := archivetest.Zip(t, map[string][]byte{
		"index.html":            []byte("<html>index</html>"),
		"static/js/main.js":     []byte("console.log('hi')"),
		"static/":               nil,
		"excalidraw-assets/":    nil,
		"excalidraw-assets/a.b": {0x00, 0x01, 0xff},
	})
	a, err := New("app", data)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name    string
		lookup  string
		want    []byte
		wantErr error
	}{
		{name: "top-level file", lookup: "index.html", want: []byte("<html>index</html>")},
		{name: "nested file", lookup: "static/js/main.js", want: []byte("console.log('hi')")},
		{name: "leading slash ignored", lookup: "/index.html", want: []byte("<html>index</html>")},
		{name: "binary content", lookup: "excalidraw-assets/a.b", want: []byte{0x00, 0x01, 0xff}},
		{name: "missing file", lookup: "missing.css", wantErr: ErrNotFound},
		{name: "directory is not a file", lookup: "static/", wantErr: ErrNotFound},
		{name: "empty name", lookup: "", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := a.Lookup(tt.lookup)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup(%q) error = %v, want %v", tt.lookup, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.lookup, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lookup(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}
}

func TestArchive_Lookup_ErrorNamesArchive(t *testing.T) {
	t.Parallel()

	a, err := New("fonts", archivetest.Zip(t, map[string][]byte{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = a.Lookup("Virgil.woff2")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := err.Error(); !strings.Contains(got, "fonts/Virgil.woff2") {
		t.Errorf("error %q should name archive and entry", got)
	}
}

func TestArchive_Entries(t *testing.T) {
	t.Parallel()

	a, err := New("app", archivetest.Zip(t, map[string][]byte{
		"b.js":   []byte("b"),
		"a.html": []byte("a"),
		"dir/":   nil,
	}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, err := a.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	want := []string{"a.html", "b.js"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestArchive_Lookup_Concurrent(t *testing.T) {
	t.Parallel()

	files := make(map[string][]byte)
	for i := range 20 {
		files[fmt.Sprintf("file-%02d.txt", i)] = bytes.Repeat([]byte{byte('a' + i)}, 1024*(i+1))
	}
	a, err := New("app", archivetest.Zip(t, files))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for range 10 {
		for name, want := range files {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := a.Lookup(name)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(got, want) {
					errs <- fmt.Errorf("%s: content mismatch", name)
				}
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
