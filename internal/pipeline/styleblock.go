package pipeline

import (
	"fmt"
	"strings"
)

// Style block markers as emitted by the renderer.
const (
	StyleOpen  = `<style class="style-fonts">`
	StyleClose = `</style>`
)

// LocateStyleBlock splits markup around the first font style block.
// before ends with StyleOpen and after starts with StyleClose, so
// Splice(before, style, after) reproduces markup exactly.
// The closing marker is searched only after the opening one.
func LocateStyleBlock(markup string) (before, style, after string, err error) {
	start := strings.Index(markup, StyleOpen)
	if start < 0 {
		return "", "", "", fmt.Errorf("%w: missing %s", ErrStyleBlockNotFound, StyleOpen)
	}
	bodyStart := start + len(StyleOpen)

	end := strings.Index(markup[bodyStart:], StyleClose)
	if end < 0 {
		return "", "", "", fmt.Errorf("%w: missing %s after offset %d", ErrStyleBlockNotFound, StyleClose, bodyStart)
	}
	bodyEnd := bodyStart + end

	return markup[:bodyStart], markup[bodyStart:bodyEnd], markup[bodyEnd:], nil
}

// Splice joins the three markup segments.
func Splice(before, style, after string) string {
	var b strings.Builder
	b.Grow(len(before) + len(style) + len(after))
	b.WriteString(before)
	b.WriteString(style)
	b.WriteString(after)
	return b.String()
}
