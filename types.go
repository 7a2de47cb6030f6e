package diag2svg

import (
	"fmt"
	"strings"

	"github.com/alnah/go-diag2svg/internal/assetserver"
)

// Theme selects the renderer's color scheme.
type Theme string

// Theme constants.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme parses a theme name (case-insensitive). Empty means ThemeDark.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(s) {
	case "", string(ThemeDark):
		return ThemeDark, nil
	case string(ThemeLight):
		return ThemeLight, nil
	}
	return "", fmt.Errorf("%w: %q (must be dark or light)", ErrInvalidTheme, s)
}

// Scale bounds. Values outside are clamped, never rejected.
const (
	MinScale = 1
	MaxScale = 3
)

// ClampScale returns n limited to [MinScale, MaxScale].
func ClampScale(n int) int {
	return max(MinScale, min(n, MaxScale))
}

// ExportConfig is handed to the renderer as export options.
type ExportConfig struct {
	Theme       Theme // "" means ThemeDark
	Background  bool  // export the canvas background
	EmbedSource bool  // embed the scene so the SVG can be reopened in the editor
	Scale       int   // 1-3, clamped
}

// DefaultExportConfig returns dark theme, no background, no source, scale 1.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{Theme: ThemeDark, Scale: MinScale}
}

// exportOptions maps the config to the JSON document served to the page.
func (e ExportConfig) exportOptions() assetserver.ExportOptions {
	return assetserver.ExportOptions{
		Background:   e.Background,
		EmbedScene:   e.EmbedSource,
		WithDarkMode: e.Theme != ThemeLight,
		Scale:        e.Scale,
	}
}

// OutputFormat selects how fonts are handled in the returned SVG.
type OutputFormat int

// Output formats.
const (
	// FormatEmbed inlines every referenced font as a base64 data URI.
	FormatEmbed OutputFormat = iota
	// FormatRaw returns the renderer's markup untouched.
	FormatRaw
	// FormatNoFont removes the font style block contents.
	FormatNoFont
	// FormatPath would convert text to paths. Not implemented; always fails
	// with ErrUnsupportedFormat.
	FormatPath
)

var formatNames = map[OutputFormat]string{
	FormatEmbed:  "embed",
	FormatRaw:    "raw",
	FormatNoFont: "no-font",
	FormatPath:   "path",
}

func (f OutputFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

// SupportedFormats lists the formats Convert can produce.
func SupportedFormats() []string {
	return []string{FormatEmbed.String(), FormatRaw.String(), FormatNoFont.String()}
}

// ParseFormat parses a format name (case-insensitive). Empty means FormatEmbed.
// "path" parses successfully; Convert rejects it.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "embed":
		return FormatEmbed, nil
	case "raw":
		return FormatRaw, nil
	case "no-font", "nofont":
		return FormatNoFont, nil
	case "path":
		return FormatPath, nil
	}
	return 0, fmt.Errorf("%w: %q (must be embed, raw, no-font or path)", ErrInvalidFormat, s)
}

// InputType identifies the diagram document format.
type InputType int

// Input types.
const (
	InputExcalidraw InputType = iota
	InputDrawio
)

func (t InputType) String() string {
	switch t {
	case InputExcalidraw:
		return "excalidraw"
	case InputDrawio:
		return "drawio"
	}
	return fmt.Sprintf("InputType(%d)", int(t))
}

// VirtualName is the file name the input is served under.
func (t InputType) VirtualName() string {
	return "input." + t.String()
}

// ParseInputType parses an input type name (case-insensitive).
func ParseInputType(s string) (InputType, error) {
	switch strings.ToLower(s) {
	case "excalidraw":
		return InputExcalidraw, nil
	case "drawio":
		return InputDrawio, nil
	}
	return 0, fmt.Errorf("%w: %q (must be excalidraw or drawio)", ErrInvalidInputType, s)
}

// Input contains conversion parameters.
type Input struct {
	Data   []byte       // Diagram document (required), served verbatim
	Type   InputType    // Document format
	Export ExportConfig // Options passed to the renderer
	Format OutputFormat // Font handling for the result
}

// ConvertResult holds the post-processed SVG and the renderer's raw markup.
type ConvertResult struct {
	SVG []byte
	Raw []byte
}
