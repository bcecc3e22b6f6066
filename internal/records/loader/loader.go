// Package loader implements records.Loader for delimited text (CSV-like) and
// structured (JSON/YAML) data files, normalizing both to the same RecordSet
// shape.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
)

// Loader dispatches to the delimited or structured parser based on the
// resolved format.
type Loader struct {
	fs fs.FS
}

// Ensure the implementation satisfies the public interface.
var _ records.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options records.LoaderOptions) records.Loader {
	return &Loader{fs: options.FileSystem}
}

// Load reads the source and parses it into a RecordSet. Missing or unreadable
// files, duplicate header fields, and row/header arity mismatches all surface
// as *records.DataSourceError.
func (l *Loader) Load(ctx context.Context, src records.Source, opts records.LoadOptions) (records.RecordSet, error) {
	if src == nil {
		return records.RecordSet{}, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return records.RecordSet{}, err
	}

	data, err := l.read(src)
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(src.Location(), "cannot read", err)
	}

	switch records.DetectFormat(opts.Format, src.Location()) {
	case records.FormatJSON:
		return parseJSON(src.Location(), data)
	case records.FormatYAML:
		return parseYAML(src.Location(), data)
	default:
		return parseDelimited(src.Location(), data, opts.Delimiter, opts.Encoding)
	}
}

func (l *Loader) read(src records.Source) ([]byte, error) {
	switch src.Kind() {
	case records.SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("loader: no filesystem configured for fs source")
		}
		return fs.ReadFile(l.fs, src.Location())
	default:
		info, err := os.Stat(src.Location())
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, errors.New("is a directory")
		}
		return os.ReadFile(src.Location())
	}
}
