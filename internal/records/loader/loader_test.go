package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
	"github.com/codfish-zz/ScribusGenerator/pkg/testsupport"
)

func load(t *testing.T, name string, content []byte, opts records.LoadOptions) (records.RecordSet, error) {
	t.Helper()

	path := testsupport.WriteFile(t, t.TempDir(), name, content)
	l := New(records.LoaderOptions{})
	return l.Load(context.Background(), records.SourceFromFile(path), opts)
}

func rowValues(set records.RecordSet, field string) []string {
	out := make([]string, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		value, _ := set.Row(i).Get(field)
		out = append(out, value)
	}
	return out
}

func TestLoadCSV(t *testing.T) {
	set, err := load(t, "data.csv", testsupport.CSV("name,email", "Alice,a@example.com", "Bob,b@example.com"), records.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"name", "email"}, set.Header().Fields()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Alice", "Bob"}, rowValues(set, "name")); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSV_CustomDelimiter(t *testing.T) {
	set, err := load(t, "data.csv", testsupport.CSV("name;city", "Alice;Ghent"), records.LoadOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := rowValues(set, "city"); got[0] != "Ghent" {
		t.Fatalf("city = %q", got[0])
	}
}

func TestLoadCSV_Latin1Encoding(t *testing.T) {
	// "Bérteh" with é as 0xE9, the latin1 code point.
	content := append([]byte("name\nB"), 0xE9)
	content = append(content, []byte("rteh\n")...)

	set, err := load(t, "data.csv", content, records.LoadOptions{Encoding: "latin1"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := rowValues(set, "name"); got[0] != "Bérteh" {
		t.Fatalf("name = %q, want transcoded UTF-8", got[0])
	}
}

func TestLoadCSV_UnknownEncoding(t *testing.T) {
	_, err := load(t, "data.csv", testsupport.CSV("name", "x"), records.LoadOptions{Encoding: "no-such-charset"})
	var dsErr *records.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
}

func TestLoadCSV_DuplicateHeader(t *testing.T) {
	_, err := load(t, "data.csv", testsupport.CSV("name,name", "a,b"), records.LoadOptions{})
	var dsErr *records.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
}

func TestLoadCSV_ArityMismatch(t *testing.T) {
	_, err := load(t, "data.csv", testsupport.CSV("name,email", "Alice"), records.LoadOptions{})
	var dsErr *records.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := New(records.LoaderOptions{})
	_, err := l.Load(context.Background(), records.SourceFromFile(filepath.Join(t.TempDir(), "nope.csv")), records.LoadOptions{})
	var dsErr *records.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	payload := []byte(`[
  {"name": "Alice", "age": 30},
  {"name": "Bob", "age": 25}
]`)
	set, err := load(t, "data.json", payload, records.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Structured headers are sorted alphabetically.
	if diff := cmp.Diff([]string{"age", "name"}, set.Header().Fields()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"30", "25"}, rowValues(set, "age")); diff != "" {
		t.Fatalf("ages mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON_InconsistentKeys(t *testing.T) {
	payload := []byte(`[{"name": "Alice"}, {"email": "b@example.com", "name": "Bob"}]`)
	_, err := load(t, "data.json", payload, records.LoadOptions{})
	var dsErr *records.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	payload := []byte("- name: Alice\n  city: Ghent\n- name: Bob\n  city: Liège\n")
	set, err := load(t, "data.yaml", payload, records.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Ghent", "Liège"}, rowValues(set, "city")); diff != "" {
		t.Fatalf("cities mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FormatOverride(t *testing.T) {
	// JSON payload under a .txt name still parses when the format is forced.
	payload := []byte(`[{"name": "Alice"}]`)
	set, err := load(t, "data.txt", payload, records.LoadOptions{Format: records.FormatJSON})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", set.Len())
	}
}
