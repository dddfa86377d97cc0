// ABOUTME: Streaming parser for DTBook/DAISY XML documents
// ABOUTME: Emits heading and paragraph events in document order for chunk assembly
package dtbook

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// EventHandler receives structural events in document order.
// Heading carries the text of an h1/h2/h3 element; Paragraph carries the
// text of a p element. Text is raw (not whitespace-normalized).
type EventHandler interface {
	Heading(text string)
	Paragraph(text string)
}

// headingLevels are the element local names treated as section headings.
var headingLevels = map[string]bool{"h1": true, "h2": true, "h3": true}

// ParseFile opens path and parses it with Parse. A missing or unreadable
// file is a fatal source error.
func ParseFile(path string, h EventHandler) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := Parse(f, h); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Parse streams XML tokens from r and emits events to h. Elements are
// matched by local name only, so the DTBook namespace prefix is irrelevant.
// Nothing outside h1-h3 and p elements contributes text.
func Parse(r io.Reader, h EventHandler) error {
	dec := xml.NewDecoder(r)
	sawElement := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true

		name := strings.ToLower(start.Name.Local)
		switch {
		case headingLevels[name]:
			text, err := collectText(dec)
			if err != nil {
				return fmt.Errorf("malformed XML in <%s>: %w", name, err)
			}
			h.Heading(text)
		case name == "p":
			text, err := collectText(dec)
			if err != nil {
				return fmt.Errorf("malformed XML in <p>: %w", err)
			}
			h.Paragraph(text)
		}
	}

	if !sawElement {
		return fmt.Errorf("document contains no XML elements")
	}
	return nil
}

// collectText consumes tokens until the matching end element, gathering
// all character data, including text inside nested inline elements.
func collectText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}

	return sb.String(), nil
}
