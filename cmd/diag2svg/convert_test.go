package main

// Notes:
// - runConvertCmd: we drive the command end to end with a fake pool and
//   check written files, printed results and returned errors. Real renders
//   are covered by the library's integration tests.
// - resolveOutputPath and discoverFiles: table-driven over temp directories.
// - convertBatch: we check order preservation and per-file failures; the
//   concurrency limit is enforced by errgroup and not re-tested here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	diag2svg "github.com/alnah/go-diag2svg"
)

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path derivation
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		output  string
		baseDir string
		want    string
	}{
		{
			name:  "no output writes next to input",
			input: filepath.Join("docs", "arch.excalidraw"),
			want:  filepath.Join("docs", "arch.svg"),
		},
		{
			name:   "svg output is used verbatim",
			input:  "arch.excalidraw",
			output: filepath.Join("out", "final.svg"),
			want:   filepath.Join("out", "final.svg"),
		},
		{
			name:   "svg extension is case-insensitive",
			input:  "arch.excalidraw",
			output: "FINAL.SVG",
			want:   "FINAL.SVG",
		},
		{
			name:   "directory output",
			input:  filepath.Join("docs", "arch.drawio"),
			output: "out",
			want:   filepath.Join("out", "arch.svg"),
		},
		{
			name:    "directory output mirrors tree below base",
			input:   filepath.Join("docs", "sub", "arch.excalidraw"),
			output:  "out",
			baseDir: "docs",
			want:    filepath.Join("out", "sub", "arch.svg"),
		},
		{
			name:  "input without extension",
			input: "diagram",
			want:  "diagram.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveOutputPath(tt.input, tt.output, tt.baseDir)
			if err != nil {
				t.Fatalf("resolveOutputPath() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, t.TempDir(), map[string]string{
		"a.excalidraw":     "{}",
		"sub/b.drawio":     "<mxfile/>",
		"sub/notes.txt":    "skip me",
		"sub/c.EXCALIDRAW": "{}",
		"plain.json":       "{}",
	})

	t.Run("directory walks diagram files only", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles([]string{dir}, "")
		if err != nil {
			t.Fatalf("discoverFiles() error: %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("got %d files, want 3: %+v", len(files), files)
		}
		for _, f := range files {
			if !strings.HasSuffix(f.OutputPath, svgExt) {
				t.Errorf("output %q should end in %s", f.OutputPath, svgExt)
			}
			if strings.HasSuffix(f.InputPath, ".txt") || strings.HasSuffix(f.InputPath, ".json") {
				t.Errorf("unexpected input %q", f.InputPath)
			}
		}
	})

	t.Run("explicit file is taken whatever its extension", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(dir, "plain.json")
		files, err := discoverFiles([]string{in}, "")
		if err != nil {
			t.Fatalf("discoverFiles() error: %v", err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "plain.svg") {
			t.Errorf("files = %+v, want plain.svg next to input", files)
		}
	})

	t.Run("directory output mirrors subdirectories", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "out")
		files, err := discoverFiles([]string{dir}, out)
		if err != nil {
			t.Fatalf("discoverFiles() error: %v", err)
		}
		want := filepath.Join(out, "sub", "b.svg")
		found := false
		for _, f := range files {
			if f.OutputPath == want {
				found = true
			}
		}
		if !found {
			t.Errorf("no file mapped to %s: %+v", want, files)
		}
	})

	t.Run("single svg output with several inputs", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles([]string{dir, filepath.Join(dir, "a.excalidraw")}, "out.svg")
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles([]string{filepath.Join(dir, "nope.excalidraw")}, "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{8, false},
		{9, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunConvertCmd - End to end with a fake pool
// ---------------------------------------------------------------------------

func TestRunConvertCmd(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"arch.excalidraw": `{"type":"excalidraw"}`})
		te := newTestEnv()

		err := runConvertCmd(context.Background(), []string{filepath.Join(dir, "arch.excalidraw")}, te.Environment)
		if err != nil {
			t.Fatalf("runConvertCmd() error: %v", err)
		}

		out := filepath.Join(dir, "arch.svg")
		if got := readFile(t, out); got != `<svg>{"type":"excalidraw"}</svg>` {
			t.Errorf("output = %q", got)
		}
		if !strings.Contains(te.stdout.String(), "Created "+out) {
			t.Errorf("stdout = %q, want Created line", te.stdout.String())
		}
		if !te.pool.isClosed() {
			t.Error("pool should be closed after the run")
		}
	})

	t.Run("pool is sized to the batch", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{
			"a.excalidraw": "{}",
			"b.excalidraw": "{}",
		})
		te := newTestEnv()

		if err := runConvertCmd(context.Background(), []string{"-w", "8", dir}, te.Environment); err != nil {
			t.Fatalf("runConvertCmd() error: %v", err)
		}
		if te.poolSize != 2 {
			t.Errorf("pool size = %d, want 2", te.poolSize)
		}
		if te.poolOpts == 0 {
			t.Error("pool should receive converter options")
		}
		if !strings.Contains(te.stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q, want summary", te.stdout.String())
		}
	})

	t.Run("flags reach the converter", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"doc": "<mxfile><diagram/></mxfile>"})
		te := newTestEnv()

		args := []string{"--theme", "light", "-b", "--source", "-s", "2", "-f", "raw", filepath.Join(dir, "doc")}
		if err := runConvertCmd(context.Background(), args, te.Environment); err != nil {
			t.Fatalf("runConvertCmd() error: %v", err)
		}

		inputs := te.conv.received()
		if len(inputs) != 1 {
			t.Fatalf("converter got %d inputs, want 1", len(inputs))
		}
		in := inputs[0]
		if in.Type != diag2svg.InputDrawio {
			t.Errorf("Type = %v, want drawio (inferred from XML)", in.Type)
		}
		if in.Format != diag2svg.FormatRaw {
			t.Errorf("Format = %v, want raw", in.Format)
		}
		want := diag2svg.ExportConfig{Theme: diag2svg.ThemeLight, Background: true, EmbedSource: true, Scale: 2}
		if in.Export != want {
			t.Errorf("Export = %+v, want %+v", in.Export, want)
		}
	})

	t.Run("explicit type overrides inference", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"doc.excalidraw": "{}"})
		te := newTestEnv()

		args := []string{"-t", "drawio", filepath.Join(dir, "doc.excalidraw")}
		if err := runConvertCmd(context.Background(), args, te.Environment); err != nil {
			t.Fatalf("runConvertCmd() error: %v", err)
		}
		if in := te.conv.received(); len(in) != 1 || in[0].Type != diag2svg.InputDrawio {
			t.Errorf("inputs = %+v, want one drawio input", in)
		}
	})

	t.Run("output directory", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"src/a.excalidraw": "{}"})
		out := filepath.Join(dir, "build")
		te := newTestEnv()

		args := []string{"-q", "-o", out, filepath.Join(dir, "src")}
		if err := runConvertCmd(context.Background(), args, te.Environment); err != nil {
			t.Fatalf("runConvertCmd() error: %v", err)
		}
		readFile(t, filepath.Join(out, "a.svg"))
		if te.stdout.Len() != 0 {
			t.Errorf("quiet run printed %q", te.stdout.String())
		}
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{
			"good.excalidraw": "good",
			"bad.excalidraw":  "bad",
		})
		te := newTestEnv()
		te.conv.errs["bad"] = &diag2svg.RenderError{Stage: diag2svg.StageWait, Err: diag2svg.ErrRenderTimeout}

		err := runConvertCmd(context.Background(), []string{dir}, te.Environment)
		if !errors.Is(err, diag2svg.ErrRenderTimeout) {
			t.Fatalf("error = %v, want ErrRenderTimeout", err)
		}
		if !strings.Contains(err.Error(), "1 conversion(s) failed") {
			t.Errorf("error = %q, want failure count", err)
		}
		if got := exitCodeFor(err); got != ExitBrowser {
			t.Errorf("exitCodeFor() = %d, want %d", got, ExitBrowser)
		}

		readFile(t, filepath.Join(dir, "good.svg"))
		if _, err := os.Stat(filepath.Join(dir, "bad.svg")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("failed render must not leave an output file, stat err = %v", err)
		}
		if !strings.Contains(te.stderr.String(), "FAILED") {
			t.Errorf("stderr = %q, want FAILED line", te.stderr.String())
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		err := runConvertCmd(context.Background(), nil, te.Environment)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("directory without diagrams", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"readme.md": "# hi"})
		te := newTestEnv()

		err := runConvertCmd(context.Background(), []string{dir}, te.Environment)
		if !errors.Is(err, ErrNoDiagrams) {
			t.Errorf("error = %v, want ErrNoDiagrams", err)
		}
	})

	t.Run("invalid flag value", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		err := runConvertCmd(context.Background(), []string{"--theme", "sepia", "x.excalidraw"}, te.Environment)
		if got := exitCodeFor(err); got != ExitUsage {
			t.Errorf("exitCodeFor(%v) = %d, want %d", err, got, ExitUsage)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		err := runConvertCmd(context.Background(), []string{"--nope"}, te.Environment)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("undetectable content", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"doc": "neither json nor xml"})
		te := newTestEnv()

		err := runConvertCmd(context.Background(), []string{filepath.Join(dir, "doc")}, te.Environment)
		if !errors.Is(err, ErrUnknownInputType) {
			t.Errorf("error = %v, want ErrUnknownInputType", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Ordering and cancellation
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, t.TempDir(), map[string]string{
		"1.excalidraw": "one",
		"2.excalidraw": "two",
		"3.excalidraw": "three",
	})
	files := []FileToConvert{
		{InputPath: filepath.Join(dir, "1.excalidraw"), OutputPath: filepath.Join(dir, "1.svg")},
		{InputPath: filepath.Join(dir, "2.excalidraw"), OutputPath: filepath.Join(dir, "2.svg")},
		{InputPath: filepath.Join(dir, "3.excalidraw"), OutputPath: filepath.Join(dir, "3.svg")},
	}
	settings := &renderSettings{export: diag2svg.DefaultExportConfig()}

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{conv: &fakeConverter{}, size: 2}
		results := convertBatch(context.Background(), pool, files, settings)

		for i, r := range results {
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			if r.Err != nil {
				t.Errorf("results[%d].Err = %v", i, r.Err)
			}
		}
	})

	t.Run("canceled context fails every file", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		conv := &fakeConverter{}
		pool := &fakePool{conv: conv, size: 1}
		results := convertBatch(ctx, pool, files, settings)

		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
			}
		}
		if n := len(conv.received()); n != 0 {
			t.Errorf("converter called %d times after cancel", n)
		}
	})

	t.Run("acquire failure is reported per file", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{conv: &fakeConverter{}, size: 1, acquireErr: diag2svg.ErrPoolClosed}
		results := convertBatch(context.Background(), pool, files[:1], settings)

		if !errors.Is(results[0].Err, diag2svg.ErrPoolClosed) {
			t.Errorf("Err = %v, want ErrPoolClosed", results[0].Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file errors
// ---------------------------------------------------------------------------

func TestConvertFile(t *testing.T) {
	t.Parallel()

	settings := &renderSettings{export: diag2svg.DefaultExportConfig()}

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		r := convertFile(context.Background(), &fakeConverter{}, FileToConvert{
			InputPath:  filepath.Join(dir, "gone.excalidraw"),
			OutputPath: filepath.Join(dir, "gone.svg"),
		}, settings)

		if !errors.Is(r.Err, ErrReadInput) {
			t.Errorf("Err = %v, want ErrReadInput", r.Err)
		}
	})

	t.Run("creates missing output directories", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{"a.excalidraw": "a"})
		out := filepath.Join(dir, "deep", "er", "a.svg")

		r := convertFile(context.Background(), &fakeConverter{}, FileToConvert{
			InputPath:  filepath.Join(dir, "a.excalidraw"),
			OutputPath: out,
		}, settings)
		if r.Err != nil {
			t.Fatalf("Err = %v", r.Err)
		}
		if got := readFile(t, out); got != "<svg>a</svg>" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, t.TempDir(), map[string]string{
			"a.excalidraw": "a",
			"blocker":      "a file, not a directory",
		})

		r := convertFile(context.Background(), &fakeConverter{}, FileToConvert{
			InputPath:  filepath.Join(dir, "a.excalidraw"),
			OutputPath: filepath.Join(dir, "blocker", "a.svg"),
		}, settings)
		if !errors.Is(r.Err, ErrWriteOutput) {
			t.Errorf("Err = %v, want ErrWriteOutput", r.Err)
		}
	})
}
