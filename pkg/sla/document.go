package sla

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document wraps a loaded SLA template and its origin. The raw bytes are
// never mutated in place; substitution and assembly always produce a new
// buffer.
type Document struct {
	path string
	raw  []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(path string, raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("sla: document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{path: path, raw: clone}, nil
}

// LoadDocument reads a template file from disk.
func LoadDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("sla: load template: %w", err)
	}
	return NewDocument(path, raw)
}

// Path returns the template's file path (may be empty for in-memory docs).
func (d Document) Path() string {
	return d.path
}

// Base returns the template file name without directory or extension.
func (d Document) Base() string {
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Raw returns a copy of the document bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Len returns the document size in bytes.
func (d Document) Len() int {
	return len(d.raw)
}
