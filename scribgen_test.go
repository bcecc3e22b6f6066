package scribgen_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	scribgen "github.com/codfish-zz/ScribusGenerator"
	"github.com/codfish-zz/ScribusGenerator/pkg/generator"
	"github.com/codfish-zz/ScribusGenerator/pkg/testsupport"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	template := testsupport.WriteFile(t, dir, "letter.sla", testsupport.SampleSLA("Dear %VAR_name%"))
	testsupport.WriteFile(t, dir, "letter.csv", testsupport.CSV("name", "Alice"))

	res := scribgen.Generate(context.Background(), template, scribgen.DefaultSettings())
	if res.Outcome != generator.OutcomeDone {
		t.Fatalf("outcome = %s, err %v", res.Outcome, res.Err)
	}
	if len(res.Written) != 1 {
		t.Fatalf("written = %v", res.Written)
	}

	out, err := os.ReadFile(res.Written[0])
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(out, []byte("Dear Alice")) {
		t.Fatal("placeholder not substituted in output")
	}
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	template := testsupport.WriteFile(t, dir, "letter.sla", testsupport.SampleSLA("Dear %VAR_name%"))
	testsupport.WriteFile(t, dir, "letter.csv", testsupport.CSV("name", "Alice", "Bob"))
	missing := testsupport.WriteFile(t, dir, "other.sla", testsupport.SampleSLA("Dear %VAR_name%"))

	results := scribgen.GenerateAll(context.Background(), []scribgen.Request{
		{TemplatePath: template, Settings: scribgen.DefaultSettings()},
		{TemplatePath: missing, Settings: scribgen.DefaultSettings()},
	})

	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Outcome != generator.OutcomeDone {
		t.Fatalf("first outcome = %s, err %v", results[0].Outcome, results[0].Err)
	}
	if results[1].Outcome != generator.OutcomeSkipped {
		t.Fatalf("second outcome = %s, want skipped for missing data file", results[1].Outcome)
	}
}
