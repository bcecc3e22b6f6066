package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
)

// parseDelimited reads a header row plus data rows from delimiter-separated
// text. The encoding name follows the IANA registry; empty or any UTF-8 alias
// skips transcoding.
func parseDelimited(path string, data []byte, delimiter rune, encodingName string) (records.RecordSet, error) {
	reader, err := decodingReader(bytes.NewReader(data), encodingName)
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, fmt.Sprintf("unsupported encoding %q", encodingName), err)
	}

	cr := csv.NewReader(reader)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	// Arity is checked against the header below so the mismatch surfaces as a
	// DataSourceError with the offending row number.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "malformed delimited text", err)
	}
	if len(rows) == 0 {
		return records.RecordSet{}, records.NewDataSourceError(path, "no header row", nil)
	}

	header, err := records.NewHeader(rows[0])
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "invalid header", err)
	}
	for i, row := range rows[1:] {
		if len(row) != header.Len() {
			return records.RecordSet{}, records.NewDataSourceError(path,
				fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(row), header.Len()), nil)
		}
	}

	set, err := records.NewRecordSet(header, rows[1:])
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "invalid rows", err)
	}
	return set, nil
}

func decodingReader(r io.Reader, name string) (io.Reader, error) {
	if isUTF8(name) {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("no decoder for %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
