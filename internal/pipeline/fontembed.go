package pipeline

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// FontSource resolves font file names to raw font bytes.
// *archive.Archive satisfies it.
type FontSource interface {
	Lookup(name string) ([]byte, error)
}

// EmbedFonts emits one @font-face rule per reference, with the font bytes
// inlined as a base64 woff2 data URI. Rules keep the order of refs.
// A single missing font fails the whole call.
func EmbedFonts(refs []FontReference, fonts FontSource) (string, error) {
	var b strings.Builder
	for _, ref := range refs {
		data, err := fonts.Lookup(ref.File)
		if err != nil {
			return "", &FontError{Family: ref.Family, File: ref.File, Err: err}
		}
		writeFontFace(&b, ref.Family, data)
	}
	return b.String(), nil
}

// FontError reports a font file the bundle could not supply.
// It matches ErrFontNotFound and the underlying lookup error.
type FontError struct {
	Family string
	File   string
	Err    error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("%v: %s (family %q): %v", ErrFontNotFound, e.File, e.Family, e.Err)
}

func (e *FontError) Unwrap() []error {
	return []error{ErrFontNotFound, e.Err}
}

func writeFontFace(b *strings.Builder, family string, data []byte) {
	b.WriteString(`@font-face { font-family: "`)
	b.WriteString(family)
	b.WriteString(`"; src: url(data:font/woff2;charset=utf-8;base64,`)
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	b.WriteString(`) format('woff2'); }`)
}

// StripFonts drops every font declaration. The result is always empty.
func StripFonts([]FontReference) string {
	return ""
}
