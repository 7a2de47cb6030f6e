package pipeline

import (
	"errors"
	"strings"
	"testing"
)

const sampleStyle = `
      @font-face {
        font-family: "Virgil";
        src: url("https://excalidraw.com/excalidraw-assets/Virgil.woff2");
      }
      @font-face {
        font-family: "Cascadia";
        src: url("https://excalidraw.com/excalidraw-assets/Cascadia.woff2");
      }
    `

func sampleMarkup(style string) string {
	return `<svg version="1.1" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">` +
		`<!-- svg-source:excalidraw --><defs>` + StyleOpen + style + StyleClose + `</defs>` +
		`<text font-family="Virgil, Segoe UI Emoji">hi</text></svg>`
}

// ---------------------------------------------------------------------------
// TestLocateStyleBlock
// ---------------------------------------------------------------------------

func TestLocateStyleBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantStyle string
		wantErr   error
	}{
		{
			name:      "single block",
			markup:    sampleMarkup(sampleStyle),
			wantStyle: sampleStyle,
		},
		{
			name:      "empty block",
			markup:    sampleMarkup(""),
			wantStyle: "",
		},
		{
			name:      "first block wins",
			markup:    StyleOpen + "one" + StyleClose + StyleOpen + "two" + StyleClose,
			wantStyle: "one",
		},
		{
			name:      "earlier unrelated style close is ignored",
			markup:    `<style>.a{}</style>` + StyleOpen + "fonts" + StyleClose,
			wantStyle: "fonts",
		},
		{
			name:    "missing opening marker",
			markup:  `<svg><style>.a{}</style></svg>`,
			wantErr: ErrStyleBlockNotFound,
		},
		{
			name:    "closing marker only before opening",
			markup:  `</style>` + StyleOpen + "unterminated",
			wantErr: ErrStyleBlockNotFound,
		},
		{
			name:    "empty markup",
			markup:  "",
			wantErr: ErrStyleBlockNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before, style, after, err := LocateStyleBlock(tt.markup)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LocateStyleBlock() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if style != tt.wantStyle {
				t.Errorf("style = %q, want %q", style, tt.wantStyle)
			}
			if !strings.HasSuffix(before, StyleOpen) {
				t.Errorf("before should end with opening marker, got %q", before)
			}
			if !strings.HasPrefix(after, StyleClose) {
				t.Errorf("after should start with closing marker, got %q", after)
			}
			if got := Splice(before, style, after); got != tt.markup {
				t.Errorf("Splice() does not reproduce the markup:\n got %q\nwant %q", got, tt.markup)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSplice_Idempotent
// ---------------------------------------------------------------------------

func TestSplice_Idempotent(t *testing.T) {
	t.Parallel()

	before, _, after, err := LocateStyleBlock(sampleMarkup(sampleStyle))
	if err != nil {
		t.Fatalf("LocateStyleBlock() error: %v", err)
	}

	replacements := []string{
		"",
		"@font-face { font-family: \"X\"; }",
		strings.Repeat("a", 10_000),
		"<style class=\"style-fonts\">nested opening marker",
		"multi\nline\n\ttext",
	}

	for _, x := range replacements {
		spliced := Splice(before, x, after)

		gotBefore, gotStyle, gotAfter, err := LocateStyleBlock(spliced)
		if err != nil {
			t.Fatalf("LocateStyleBlock(Splice(..., %q, ...)) error: %v", x, err)
		}
		if gotBefore != before || gotStyle != x || gotAfter != after {
			t.Errorf("round trip of %q = (%q, %q, %q)", x, gotBefore, gotStyle, gotAfter)
		}
	}
}
