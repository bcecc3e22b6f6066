package sla

import (
	"bytes"
	"errors"
	"testing"

	"github.com/codfish-zz/ScribusGenerator/pkg/vars"
)

func TestSubstitute_ReplacesPlaceholders(t *testing.T) {
	got, err := Substitute([]byte(`<ITEXT CH="Hello %VAR_name%, issue %VAR_COUNT%"/>`), vars.SubstitutionMap{
		"name":  "Alice",
		"COUNT": "4",
	})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	want := `<ITEXT CH="Hello Alice, issue 4"/>`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSubstitute_NoPlaceholdersIsByteIdentical(t *testing.T) {
	input := []byte("<DOCUMENT>plain text, 100% literal percent</DOCUMENT>")
	got, err := Substitute(input, vars.SubstitutionMap{"name": "x"})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if !bytes.Equal(input, got) {
		t.Fatalf("output differs from input:\n%q\n%q", input, got)
	}
}

func TestSubstitute_Deterministic(t *testing.T) {
	input := []byte(`a %VAR_x% b %VAR_x% c`)
	m := vars.SubstitutionMap{"x": "<&>"}

	first, err := Substitute(input, m)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	second, err := Substitute(input, m)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("repeated substitution produced different bytes")
	}
}

func TestSubstitute_EscapesMarkup(t *testing.T) {
	got, err := Substitute([]byte(`<ITEXT CH="%VAR_co%"/>`), vars.SubstitutionMap{"co": `Köhler & Söhne <"GmbH">`})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	want := `<ITEXT CH="Köhler &amp; Söhne &lt;&quot;GmbH&quot;&gt;"/>`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSubstitute_UnresolvedVariable(t *testing.T) {
	_, err := Substitute([]byte("line one\n<ITEXT CH=\"%VAR_missing%\"/>"), vars.SubstitutionMap{"name": "x"})

	var unresolved *UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedVariableError, got %v", err)
	}
	if unresolved.Name != "missing" {
		t.Fatalf("error names %q, want missing", unresolved.Name)
	}
	if unresolved.Line != 2 {
		t.Fatalf("error line = %d, want 2", unresolved.Line)
	}
}

func TestSubstitute_CaseSensitiveMatching(t *testing.T) {
	m := vars.SubstitutionMap{"name": "Alice"}

	if _, err := Substitute([]byte("%VAR_name%"), m); err != nil {
		t.Fatalf("matching case must resolve: %v", err)
	}

	_, err := Substitute([]byte("%VAR_Name%"), m)
	var unresolved *UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("mismatched case must stay unresolved, got %v", err)
	}
	if unresolved.Name != "Name" {
		t.Fatalf("error names %q, want Name", unresolved.Name)
	}
}

func TestSubstitute_MalformedPlaceholder(t *testing.T) {
	cases := []string{
		"text %VAR_name without closing",
		"text %VAR_%",
		"text %VAR_name",
	}
	for _, input := range cases {
		_, err := Substitute([]byte(input), vars.SubstitutionMap{"name": "x"})
		var malformed *MalformedPlaceholderError
		if !errors.As(err, &malformed) {
			t.Errorf("input %q: expected MalformedPlaceholderError, got %v", input, err)
		}
	}
}

func TestSubstitutePlain_NoEscaping(t *testing.T) {
	got, err := SubstitutePlain([]byte("card-%VAR_COUNT%-%VAR_co%"), vars.SubstitutionMap{
		"COUNT": "2",
		"co":    "K&S",
	})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if string(got) != "card-2-K&S" {
		t.Fatalf("got %q", got)
	}
}

func TestContainsPlaceholders(t *testing.T) {
	if !ContainsPlaceholders([]byte("a %VAR_x% b")) {
		t.Fatal("expected placeholder detection")
	}
	if ContainsPlaceholders([]byte("no tokens here, 50% off")) {
		t.Fatal("false positive placeholder detection")
	}
}
