package records

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// Format selects how a data file is parsed into a RecordSet.
type Format string

const (
	// FormatAuto picks a format from the file extension: .json and
	// .yaml/.yml load as structured data, everything else as delimited text.
	FormatAuto      Format = ""
	FormatDelimited Format = "delimited"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
)

// DetectFormat resolves FormatAuto against a file name.
func DetectFormat(format Format, name string) Format {
	if format != FormatAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatDelimited
	}
}

// Loader turns a Source into a normalized RecordSet. Both the delimited and
// the structured loaders produce the same shape so downstream stages never
// care which concrete format the data came from.
type Loader interface {
	Load(ctx context.Context, src Source, opts LoadOptions) (RecordSet, error)
}

// LoaderOptions configures loader construction.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources. Optional.
	FileSystem fs.FS
}

// LoadOptions carries per-load parsing parameters.
type LoadOptions struct {
	// Format overrides extension-based detection when not FormatAuto.
	Format Format

	// Delimiter is the field separator for delimited text. Zero means comma.
	Delimiter rune

	// Encoding names the text encoding of delimited files (IANA name, e.g.
	// "latin1"). Empty or a UTF-8 alias means no transcoding.
	Encoding string
}
