// Package pipeline post-processes the SVG markup returned by a render.
//
// The markup is treated as three opaque segments around a single font style
// block:
//   - LocateStyleBlock splits the markup at the block's markers
//   - ExtractFontReferences and ExtractFontFaces read font family and file
//     pairs out of the block
//   - EmbedFonts and StripFonts produce the replacement block text
//   - Splice joins the segments back together
//
// Nothing here re-validates the markup. The only structural check is the
// marker search itself.
package pipeline
