package pipeline

import (
	"fmt"
	"path"
	"strings"

	"github.com/gorilla/css/scanner"
)

// Markers for the positional scan.
const (
	FontAssetMarker  = "excalidraw-assets/"
	FontFamilyMarker = `font-family: "`
)

// FontReference pairs a font family with the bundle file that backs it.
type FontReference struct {
	Family string
	File   string
}

// ExtractFontReferences scans style twice, once for font file names and
// once for family names, and pairs the results by position. Extra entries
// in the longer list are dropped.
//
// The pairing relies on the renderer emitting each family before or after
// its file in the same order. Use ExtractFontFaces when that cannot be
// trusted.
func ExtractFontReferences(style string) ([]FontReference, error) {
	files, err := scanQuoted(style, FontAssetMarker)
	if err != nil {
		return nil, err
	}
	families, err := scanQuoted(style, FontFamilyMarker)
	if err != nil {
		return nil, err
	}

	n := min(len(files), len(families))
	refs := make([]FontReference, n)
	for i := range n {
		refs[i] = FontReference{Family: families[i], File: files[i]}
	}
	return refs, nil
}

// scanQuoted collects every substring between marker and the next '"'.
func scanQuoted(s, marker string) ([]string, error) {
	var out []string
	for {
		i := strings.Index(s, marker)
		if i < 0 {
			return out, nil
		}
		s = s[i+len(marker):]

		j := strings.IndexByte(s, '"')
		if j < 0 {
			return nil, fmt.Errorf("%w: no closing quote after %q", ErrMalformedStyle, marker)
		}
		out = append(out, s[:j])
		s = s[j+1:]
	}
}

// ExtractFontFaces tokenizes style as CSS and reads font-family and the src
// URL from within each @font-face rule. Rules without both, or whose source
// is already a data URI, are skipped.
func ExtractFontFaces(style string) ([]FontReference, error) {
	s := scanner.New(style)

	var refs []FontReference
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return refs, nil
		case scanner.TokenError:
			return nil, tokenError(tok)
		case scanner.TokenAtKeyword:
			if !strings.EqualFold(tok.Value, "@font-face") {
				continue
			}
			ref, err := readFontFace(s)
			if err != nil {
				return nil, err
			}
			if ref.Family != "" && ref.File != "" {
				refs = append(refs, ref)
			}
		}
	}
}

// readFontFace consumes one rule body, from its '{' to the matching '}'.
func readFontFace(s *scanner.Scanner) (FontReference, error) {
	var (
		ref     FontReference
		depth   int
		name    string
		prop    string
		inValue bool
		pending bool // saw url( and expect its string argument
	)

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return ref, fmt.Errorf("%w: unterminated @font-face rule", ErrMalformedStyle)
		case scanner.TokenError:
			return ref, tokenError(tok)
		case scanner.TokenS, scanner.TokenComment:
			continue
		case scanner.TokenChar:
			switch tok.Value {
			case "{":
				depth++
			case "}":
				depth--
				if depth <= 0 {
					return ref, nil
				}
			case ":":
				if !inValue {
					prop = strings.ToLower(name)
					inValue = true
				}
			case ";":
				name, prop, inValue, pending = "", "", false, false
			}
		case scanner.TokenIdent:
			if !inValue {
				name = tok.Value
			} else if prop == "font-family" && ref.Family == "" {
				ref.Family = tok.Value
			}
		case scanner.TokenString:
			switch {
			case prop == "font-family" && ref.Family == "":
				ref.Family = unquote(tok.Value)
			case prop == "src" && pending && ref.File == "":
				ref.File = fontFile(unquote(tok.Value))
				pending = false
			}
		case scanner.TokenURI:
			if prop == "src" && ref.File == "" {
				ref.File = fontFile(uriValue(tok.Value))
			}
		case scanner.TokenFunction:
			pending = prop == "src" && strings.EqualFold(tok.Value, "url(")
		}
	}
}

// fontFile maps a src URL to a font bundle entry name.
func fontFile(url string) string {
	if url == "" || strings.HasPrefix(url, "data:") {
		return ""
	}
	if i := strings.Index(url, FontAssetMarker); i >= 0 {
		return url[i+len(FontAssetMarker):]
	}
	return path.Base(url)
}

// uriValue returns the argument of a url(...) token.
func uriValue(tok string) string {
	v := tok
	if len(v) >= 4 && strings.EqualFold(v[:4], "url(") {
		v = v[4:]
	}
	v = strings.TrimSuffix(v, ")")
	return unquote(strings.TrimSpace(v))
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

func tokenError(tok *scanner.Token) error {
	return fmt.Errorf("%w: line %d, column %d: %q", ErrMalformedStyle, tok.Line, tok.Column, tok.Value)
}
