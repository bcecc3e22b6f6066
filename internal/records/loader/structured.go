package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
)

// parseJSON loads the structured format: a top-level array of flat objects,
// one object per record. Field order is not significant in JSON, so the
// header uses the first object's keys sorted alphabetically; every object
// must carry exactly the same key set.
func parseJSON(path string, data []byte) (records.RecordSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "malformed JSON", err)
	}
	return structuredSet(path, raw)
}

// parseYAML loads the same record shape from a YAML sequence of mappings.
func parseYAML(path string, data []byte) (records.RecordSet, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "malformed YAML", err)
	}
	return structuredSet(path, raw)
}

func structuredSet(path string, raw []map[string]any) (records.RecordSet, error) {
	if len(raw) == 0 {
		return records.RecordSet{}, records.NewDataSourceError(path, "no records", nil)
	}

	names := make([]string, 0, len(raw[0]))
	for name := range raw[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	header, err := records.NewHeader(names)
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "invalid header", err)
	}

	rows := make([][]string, 0, len(raw))
	for i, obj := range raw {
		if len(obj) != header.Len() {
			return records.RecordSet{}, records.NewDataSourceError(path,
				fmt.Sprintf("record %d has %d fields, expected %d", i+1, len(obj), header.Len()), nil)
		}
		row := make([]string, 0, header.Len())
		for _, name := range names {
			value, ok := obj[name]
			if !ok {
				return records.RecordSet{}, records.NewDataSourceError(path,
					fmt.Sprintf("record %d is missing field %q", i+1, name), nil)
			}
			row = append(row, scalarString(value))
		}
		rows = append(rows, row)
	}

	set, err := records.NewRecordSet(header, rows)
	if err != nil {
		return records.RecordSet{}, records.NewDataSourceError(path, "invalid rows", err)
	}
	return set, nil
}

// scalarString renders a structured field value the way it appeared in the
// source where possible: strings pass through, JSON numbers keep their
// original notation.
func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
