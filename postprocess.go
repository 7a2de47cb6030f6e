package diag2svg

import (
	"errors"
	"fmt"

	"github.com/alnah/go-diag2svg/internal/pipeline"
)

// checkFormat rejects formats that are accepted as configuration but have no
// implementation.
func checkFormat(f OutputFormat) error {
	switch f {
	case FormatRaw, FormatEmbed, FormatNoFont:
		return nil
	case FormatPath:
		return fmt.Errorf("%w: %s (text-to-path conversion is not implemented)", ErrUnsupportedFormat, f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// postprocess applies the output format to the rendered markup.
// FormatRaw returns markup untouched without looking for the style block.
func (c *Converter) postprocess(markup []byte, format OutputFormat) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if format == FormatRaw {
		return markup, nil
	}

	before, style, after, err := pipeline.LocateStyleBlock(string(markup))
	if err != nil {
		return nil, &RenderError{Stage: StagePostprocess, Err: err}
	}

	refs, err := c.fontReferences(style)
	if err != nil {
		return nil, &RenderError{Stage: StagePostprocess, Err: err}
	}

	var replacement string
	switch format {
	case FormatEmbed:
		replacement, err = pipeline.EmbedFonts(refs, c.fonts)
		if err != nil {
			rerr := &RenderError{Stage: StagePostprocess, Archive: c.fonts.Name(), Err: err}
			var fe *pipeline.FontError
			if errors.As(err, &fe) {
				rerr.Path = fe.File
			}
			return nil, rerr
		}
	case FormatNoFont:
		replacement = pipeline.StripFonts(refs)
	}

	c.logger.Debug("fonts processed", "format", format, "fonts", len(refs))

	return []byte(pipeline.Splice(before, replacement, after)), nil
}

func (c *Converter) fontReferences(style string) ([]pipeline.FontReference, error) {
	if c.cfg.ruleScoped {
		return pipeline.ExtractFontFaces(style)
	}
	return pipeline.ExtractFontReferences(style)
}
