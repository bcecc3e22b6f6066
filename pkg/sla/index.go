package sla

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Element names that make up the repeatable unit: the subtree duplicated once
// per record during a merge. Everything else under DOCUMENT is scaffold and
// appears exactly once in merged output.
const (
	elemPage       = "PAGE"
	elemPageObject = "PAGEOBJECT"
	elemDocument   = "DOCUMENT"
)

// childSpan records the byte extent of one direct child of the DOCUMENT
// element within the raw template.
type childSpan struct {
	Name  string
	Start int
	End   int
}

// Repeatable reports whether the element belongs to the per-record unit.
func (c childSpan) Repeatable() bool {
	return c.Name == elemPage || c.Name == elemPageObject
}

// Index is the offset map the merge assembler rewrites against: the DOCUMENT
// open tag and the spans of its direct children, in document order.
type Index struct {
	raw         []byte
	docTagStart int
	docTagEnd   int
	children    []childSpan
}

// IndexDocument tokenizes the template and records the byte spans of the
// DOCUMENT element's children. The scan verifies well-formedness of the
// regions the engine edits; it does not validate SLA semantics.
func IndexDocument(raw []byte) (*Index, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	idx := &Index{raw: raw, docTagStart: -1}

	depth := 0
	childStart := 0
	childName := ""
	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sla: malformed document at offset %d: %w", start, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				if t.Name.Local == elemDocument && idx.docTagStart < 0 {
					idx.docTagStart = start
					idx.docTagEnd = int(dec.InputOffset())
				}
			case 3:
				childStart = start
				childName = t.Name.Local
			}
		case xml.EndElement:
			if depth == 3 {
				idx.children = append(idx.children, childSpan{
					Name:  childName,
					Start: childStart,
					End:   int(dec.InputOffset()),
				})
			}
			depth--
		}
	}

	if idx.docTagStart < 0 {
		return nil, fmt.Errorf("sla: no %s element found", elemDocument)
	}
	return idx, nil
}

// Children returns the DOCUMENT children spans in document order.
func (idx *Index) Children() []childSpan {
	return idx.children
}

// RepeatableBounds returns the byte extent from the first to the last
// repeatable child, and whether any repeatable child exists.
func (idx *Index) RepeatableBounds() (start, end int, ok bool) {
	start, end = -1, -1
	for _, c := range idx.children {
		if !c.Repeatable() {
			continue
		}
		if start < 0 {
			start = c.Start
		}
		end = c.End
	}
	return start, end, start >= 0
}

// PageCount returns the number of PAGE children, the per-record page stride
// used when offsetting page numbers in merged copies.
func (idx *Index) PageCount() int {
	n := 0
	for _, c := range idx.children {
		if c.Name == elemPage {
			n++
		}
	}
	return n
}
