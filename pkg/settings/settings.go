// Package settings holds the engine configuration and the codec that embeds
// it inside a template document, so a template can carry its own generation
// setup ("save settings" / "load settings" round-tripping).
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codfish-zz/ScribusGenerator/pkg/render"
)

// Settings is the engine configuration for one generation run. It is built
// from CLI/API defaults, optionally overridden by values decoded from the
// template, and passed explicitly through the orchestrator.
type Settings struct {
	// DataFile is the record data source path. Empty means the template path
	// with a .csv extension.
	DataFile string `yaml:"dataFile"`

	// CSVDelimiter separates fields in delimited data files.
	CSVDelimiter string `yaml:"csvDelimiter"`

	// CSVEncoding is the IANA name of the delimited file's text encoding.
	CSVEncoding string `yaml:"csvEncoding"`

	// OutputDir receives generated files. Empty means the template's own
	// directory.
	OutputDir string `yaml:"outDir"`

	// OutputName is the generated file name pattern, without extension. It
	// may contain %VAR_...% placeholders including the reserved counter.
	// Empty means an incrementing index (multi-output) or the template base
	// name (single-output).
	OutputName string `yaml:"outName"`

	// OutputFormat selects native, raster, fixed-layout, or all outputs.
	OutputFormat render.Format `yaml:"outFormat"`

	// ImageQuality is the raster quality hint in [1, 100].
	ImageQuality int `yaml:"imgQuality"`

	// SingleOutput merges all records into one document when true.
	SingleOutput bool `yaml:"single"`

	// FirstRow and LastRow bound the 1-based inclusive data-row range. Empty
	// means "from start" / "to end".
	FirstRow string `yaml:"firstRow"`
	LastRow  string `yaml:"lastRow"`

	// SaveSettings persists this configuration into the template.
	SaveSettings bool `yaml:"save"`

	// KeepGenerated leaves written SLA files in place after an export run.
	KeepGenerated bool `yaml:"keepGenerated"`
}

// Default returns the engine defaults the CLI starts from.
func Default() Settings {
	return Settings{
		CSVDelimiter:  ",",
		CSVEncoding:   "utf-8",
		OutputFormat:  render.FormatSLA,
		ImageQuality:  100,
		KeepGenerated: true,
	}
}

// Delimiter returns the delimiter as a rune, or 0 when unset.
func (s Settings) Delimiter() rune {
	trimmed := strings.TrimSpace(s.CSVDelimiter)
	if trimmed == "" {
		return 0
	}
	return []rune(trimmed)[0]
}

// RowRange parses FirstRow/LastRow into integer bounds, with 0 meaning
// "unbounded". Non-numeric values are configuration errors.
func (s Settings) RowRange() (first, last int, err error) {
	first, err = parseBound(s.FirstRow, "firstRow")
	if err != nil {
		return 0, 0, err
	}
	last, err = parseBound(s.LastRow, "lastRow")
	if err != nil {
		return 0, 0, err
	}
	return first, last, nil
}

func parseBound(raw, name string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("settings: %s %q is not a number", name, raw)
	}
	return n, nil
}

// ClampQuality forces ImageQuality into [1, 100].
func (s *Settings) ClampQuality() {
	if s.ImageQuality < 1 {
		s.ImageQuality = 1
	}
	if s.ImageQuality > 100 {
		s.ImageQuality = 100
	}
}
