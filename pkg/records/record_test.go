package records

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustSet(t *testing.T, header []string, rows [][]string) RecordSet {
	t.Helper()

	h, err := NewHeader(header)
	if err != nil {
		t.Fatalf("new header: %v", err)
	}
	set, err := NewRecordSet(h, rows)
	if err != nil {
		t.Fatalf("new record set: %v", err)
	}
	return set
}

func fiveRows(t *testing.T) RecordSet {
	t.Helper()
	return mustSet(t, []string{"name"}, [][]string{{"r1"}, {"r2"}, {"r3"}, {"r4"}, {"r5"}})
}

func names(set RecordSet) []string {
	out := make([]string, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		value, _ := set.Row(i).Get("name")
		out = append(out, value)
	}
	return out
}

func TestNewHeader_RejectsDuplicates(t *testing.T) {
	_, err := NewHeader([]string{"name", "email", "name"})
	if err == nil {
		t.Fatal("expected error for duplicate field name")
	}
	if !strings.Contains(err.Error(), `"name"`) {
		t.Fatalf("error should name the duplicate field, got %v", err)
	}
}

func TestNewHeader_RejectsEmptyField(t *testing.T) {
	if _, err := NewHeader([]string{"name", ""}); err == nil {
		t.Fatal("expected error for empty field name")
	}
}

func TestNewRecordSet_RejectsArityMismatch(t *testing.T) {
	h, err := NewHeader([]string{"name", "email"})
	if err != nil {
		t.Fatalf("new header: %v", err)
	}
	_, err = NewRecordSet(h, [][]string{{"Alice", "a@example.com"}, {"Bob"}})
	if err == nil {
		t.Fatal("expected error for row/header arity mismatch")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("error should name the offending row, got %v", err)
	}
}

func TestRecordGet(t *testing.T) {
	set := mustSet(t, []string{"name", "email"}, [][]string{{"Alice", "a@example.com"}})

	value, ok := set.Row(0).Get("email")
	if !ok || value != "a@example.com" {
		t.Fatalf("Get(email) = %q, %v", value, ok)
	}
	if _, ok := set.Row(0).Get("missing"); ok {
		t.Fatal("Get(missing) should report absence")
	}
}

func TestFilterRange_SubRange(t *testing.T) {
	got := fiveRows(t).FilterRange(2, 3)
	if diff := cmp.Diff([]string{"r2", "r3"}, names(got)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRange_ClampsOutOfRange(t *testing.T) {
	if got := fiveRows(t).FilterRange(10, 20); got.Len() != 0 {
		t.Fatalf("expected empty set, got %d rows", got.Len())
	}
	if got := fiveRows(t).FilterRange(4, 99); !cmp.Equal([]string{"r4", "r5"}, names(got)) {
		t.Fatalf("expected rows 4..5, got %v", names(got))
	}
}

func TestFilterRange_UnboundedMeansFullSet(t *testing.T) {
	got := fiveRows(t).FilterRange(0, 0)
	if diff := cmp.Diff([]string{"r1", "r2", "r3", "r4", "r5"}, names(got)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRange_InvertedYieldsEmpty(t *testing.T) {
	if got := fiveRows(t).FilterRange(4, 2); got.Len() != 0 {
		t.Fatalf("expected empty set, got %d rows", got.Len())
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"data.csv", FormatDelimited},
		{"data.txt", FormatDelimited},
		{"data.json", FormatJSON},
		{"data.YAML", FormatYAML},
		{"data.yml", FormatYAML},
	}
	for _, tc := range cases {
		if got := DetectFormat(FormatAuto, tc.name); got != tc.want {
			t.Errorf("DetectFormat(auto, %q) = %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := DetectFormat(FormatDelimited, "data.json"); got != FormatDelimited {
		t.Errorf("explicit format should win, got %q", got)
	}
}
