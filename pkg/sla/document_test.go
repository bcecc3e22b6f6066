package sla

import (
	"testing"

	"github.com/codfish-zz/ScribusGenerator/pkg/testsupport"
)

func TestNewDocument_RejectsEmpty(t *testing.T) {
	if _, err := NewDocument("x.sla", nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestDocumentBase(t *testing.T) {
	doc, err := NewDocument("example/Business_Card.sla", testsupport.SampleSLA("x"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if got := doc.Base(); got != "Business_Card" {
		t.Fatalf("Base() = %q", got)
	}
}

func TestDocumentRawIsACopy(t *testing.T) {
	doc, err := NewDocument("x.sla", []byte("<SCRIBUSUTF8NEW/>"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	raw := doc.Raw()
	raw[0] = '!'
	if doc.Raw()[0] != '<' {
		t.Fatal("mutating Raw() output must not affect the document")
	}
}
