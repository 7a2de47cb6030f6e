package main

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	diag2svg "github.com/alnah/go-diag2svg"
)

// Recognized diagram file extensions.
var diagramExts = map[string]diag2svg.InputType{
	".excalidraw": diag2svg.InputExcalidraw,
	".drawio":     diag2svg.InputDrawio,
}

// inferInputType picks the document type from the file extension, then
// from the content: JSON is Excalidraw, well-formed XML is draw.io.
func inferInputType(path string, data []byte) (diag2svg.InputType, error) {
	if t, ok := diagramExts[strings.ToLower(filepath.Ext(path))]; ok {
		return t, nil
	}
	if json.Valid(data) {
		return diag2svg.InputExcalidraw, nil
	}
	if isWellFormedXML(data) {
		return diag2svg.InputDrawio, nil
	}
	return 0, fmt.Errorf("%w: %s is neither JSON nor XML", ErrUnknownInputType, path)
}

// isWellFormedXML reports whether data holds at least one element and
// tokenizes without error.
func isWellFormedXML(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	sawElement := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return sawElement
		}
		if err != nil {
			return false
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawElement = true
		}
	}
}

// isDiagramFile reports whether path has a recognized diagram extension.
func isDiagramFile(path string) bool {
	_, ok := diagramExts[strings.ToLower(filepath.Ext(path))]
	return ok
}
