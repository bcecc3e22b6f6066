package vars

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
)

func record(t *testing.T, fields []string, values []string) records.Record {
	t.Helper()

	h, err := records.NewHeader(fields)
	if err != nil {
		t.Fatalf("new header: %v", err)
	}
	set, err := records.NewRecordSet(h, [][]string{values})
	if err != nil {
		t.Fatalf("new record set: %v", err)
	}
	return set.Row(0)
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 12, 19, 14, 30, 5, 0, time.UTC)
	return func() time.Time { return at }
}

func TestResolve(t *testing.T) {
	r := NewResolver(WithClock(fixedClock()))
	got := r.Resolve(record(t, []string{"name", "email"}, []string{"Alice", "a@example.com"}), 2, 7)

	want := SubstitutionMap{
		"name":       "Alice",
		"email":      "a@example.com",
		NameCount:    "2",
		NameTotal:    "7",
		NameDate:     "2024-12-19",
		NameTime:     "14:30:05",
		NameDateTime: "2024-12-19 14:30:05",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ReservedNameWins(t *testing.T) {
	r := NewResolver(WithClock(fixedClock()))
	got := r.Resolve(record(t, []string{"COUNT", "name"}, []string{"from-data", "Alice"}), 3, 3)

	if got[NameCount] != "3" {
		t.Fatalf("COUNT = %q, reserved value must win over the data field", got[NameCount])
	}
	if got["name"] != "Alice" {
		t.Fatalf("name = %q", got["name"])
	}
}

func TestResolveContext(t *testing.T) {
	r := NewResolver(WithClock(fixedClock()))
	got := r.ResolveContext(1, 5)

	if got[NameCount] != "1" || got[NameTotal] != "5" {
		t.Fatalf("context map = %v", got)
	}
	if _, ok := got["name"]; ok {
		t.Fatal("context map must not contain record fields")
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range ReservedNames() {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false", name)
		}
	}
	if IsReserved("count") {
		t.Error("reserved names are case-sensitive; got IsReserved(count) = true")
	}
}
