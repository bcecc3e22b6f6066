// Package render defines the contract between the engine and the external
// renderer that converts written SLA documents into raster or fixed-layout
// exports. The engine decides that a render is needed and which format; how
// the renderer works is the collaborator's business.
package render

import (
	"context"
	"fmt"
)

// Format names an output kind for a generation run.
type Format string

const (
	// FormatSLA keeps the native markup only; no external render happens.
	FormatSLA Format = "sla"
	// FormatJPG requests a raster export.
	FormatJPG Format = "jpg"
	// FormatPDF requests a fixed-layout export.
	FormatPDF Format = "pdf"
	// FormatAll requests both exports alongside the native document.
	FormatAll Format = "all"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatSLA, FormatJPG, FormatPDF, FormatAll:
		return true
	}
	return false
}

// Exports lists the concrete export formats f implies. FormatSLA implies
// none.
func (f Format) Exports() []Format {
	switch f {
	case FormatJPG:
		return []Format{FormatJPG}
	case FormatPDF:
		return []Format{FormatPDF}
	case FormatAll:
		return []Format{FormatJPG, FormatPDF}
	}
	return nil
}

// Request asks the external renderer for one export of one written document.
type Request struct {
	// SourceDocument is the path of the written SLA file.
	SourceDocument string

	// TargetFormat is a concrete export format (jpg or pdf).
	TargetFormat Format

	// Quality is the raster quality hint in [1, 100]. Ignored for pdf.
	Quality int
}

// Renderer converts a written SLA document into an export format. Exported
// files land alongside the source document.
type Renderer interface {
	Name() string
	Render(ctx context.Context, req Request) error
}

// Error reports a failed render of one document. The already-written native
// document stays valid; the failure is logged, never rolled back.
type Error struct {
	Document string
	Format   Format
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %q to %s: %v", e.Document, e.Format, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
