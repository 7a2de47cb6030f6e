package main

// Notes:
// - Shared fakes for the CLI tests: a converter whose behavior is driven by
//   the input bytes, a pool around it, and an Environment writing to buffers.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	diag2svg "github.com/alnah/go-diag2svg"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and pool
// ---------------------------------------------------------------------------

// fakeConverter returns "<svg>DATA</svg>" for every input, or the error
// registered for that input's content.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []diag2svg.Input
	errs   map[string]error
}

func (f *fakeConverter) Convert(_ context.Context, input diag2svg.Input) (*diag2svg.ConvertResult, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	err := f.errs[string(input.Data)]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	svg := []byte("<svg>" + string(input.Data) + "</svg>")
	return &diag2svg.ConvertResult{SVG: svg, Raw: svg}, nil
}

func (f *fakeConverter) received() []diag2svg.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]diag2svg.Input(nil), f.inputs...)
}

// fakePool hands out the same converter to every caller.
type fakePool struct {
	conv       *fakeConverter
	size       int
	acquireErr error

	mu     sync.Mutex
	closed bool
}

func (p *fakePool) Acquire() (Converter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *fakePool) Release(Converter) {}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// testEnv records what runConvert asked of its pool factory.
type testEnv struct {
	*Environment
	stdout, stderr *bytes.Buffer
	conv           *fakeConverter

	mu       sync.Mutex
	pool     *fakePool
	poolSize int
	poolOpts int
}

func newTestEnv() *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &fakeConverter{errs: map[string]error{}},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewPool: func(size int, opts ...diag2svg.Option) Pool {
			te.mu.Lock()
			defer te.mu.Unlock()
			te.poolSize = size
			te.poolOpts = len(opts)
			te.pool = &fakePool{conv: te.conv, size: size}
			return te.pool
		},
	}
	return te
}

// writeFiles creates files relative to dir and returns dir.
func writeFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
	return dir
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

// clearEnv unsets every DIAG2SVG_* variable for the duration of the test.
// Callers must not be parallel.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
