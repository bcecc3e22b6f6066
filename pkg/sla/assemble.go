package sla

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
	"github.com/codfish-zz/ScribusGenerator/pkg/vars"
)

// copySeparator keeps appended unit copies on their own lines, matching the
// indentation SLA files use for DOCUMENT children.
const copySeparator = "\n    "

var (
	// Identifier attributes rewritten per copy. Values "" and "-1" are the
	// format's null references and stay untouched.
	idAttrPattern = regexp.MustCompile(`\b(ItemID|AnName|NEXTITEM|BACKITEM)="([^"]*)"`)

	// Page-number attributes offset per copy by the template's page count.
	// Negative values mark off-page objects and stay untouched.
	pageNumPattern = regexp.MustCompile(`\b(NUM|OwnPage)="(-?[0-9]+)"`)

	anzPagesPattern = regexp.MustCompile(`\bANZPAGES="[0-9]+"`)
)

// AssemblerOption customises assembler construction.
type AssemblerOption func(*Assembler)

// WithLogger injects a structured logger.
func WithLogger(log *zap.SugaredLogger) AssemblerOption {
	return func(a *Assembler) {
		if log != nil {
			a.log = log
		}
	}
}

// WithResolver injects the variable resolver used for per-record maps.
func WithResolver(r *vars.Resolver) AssemblerOption {
	return func(a *Assembler) {
		if r != nil {
			a.resolver = r
		}
	}
}

// WithParallelism bounds how many records AssembleMany substitutes
// concurrently. Values below 1 mean sequential. AssembleSingle always runs
// sequentially: its accumulating document serializes identifier assignment
// and append order.
func WithParallelism(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.parallelism = n
		}
	}
}

// Assembler produces merged single-output documents and per-record
// multi-output documents from a template and a record set.
type Assembler struct {
	log         *zap.SugaredLogger
	resolver    *vars.Resolver
	parallelism int
}

// NewAssembler constructs an Assembler applying any provided options.
func NewAssembler(options ...AssemblerOption) *Assembler {
	a := &Assembler{
		log:         zap.NewNop().Sugar(),
		resolver:    vars.NewResolver(),
		parallelism: 1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// AssembleSingle merges every record into one document: the template's
// repeatable unit (its PAGE and PAGEOBJECT subtrees) is copied once per
// record in record order, each copy gets a disjoint identifier namespace and
// that record's substitution, and the non-repeating scaffold appears exactly
// once. Any record's substitution failure aborts the whole merge; a
// half-built combined document is never returned.
func (a *Assembler) AssembleSingle(doc Document, set records.RecordSet) ([]byte, error) {
	idx, err := IndexDocument(doc.raw)
	if err != nil {
		return nil, err
	}
	start, end, ok := idx.RepeatableBounds()
	if !ok {
		return nil, fmt.Errorf("sla: template %q has no pages to merge", doc.Path())
	}

	unit := repeatableUnit(idx)
	stride := idx.PageCount()

	var buf bytes.Buffer
	buf.Grow(len(doc.raw) + len(unit)*set.Len())
	buf.Write(doc.raw[:start])

	// Scaffold children interleaved with the repeatable block are hoisted
	// ahead of the copies so they still appear exactly once.
	for _, c := range idx.Children() {
		if !c.Repeatable() && c.Start > start && c.End < end {
			buf.Write(doc.raw[c.Start:c.End])
			buf.WriteString(copySeparator)
		}
	}

	total := set.Len()
	for k := 0; k < total; k++ {
		copyBytes := rewriteIdentifiers(unit, k, stride)
		m := a.resolver.Resolve(set.Row(k), k+1, total)
		substituted, err := Substitute(copyBytes, m)
		if err != nil {
			return nil, fmt.Errorf("sla: merge record %d of %q: %w", k+1, doc.Path(), err)
		}
		if k > 0 {
			buf.WriteString(copySeparator)
		}
		buf.Write(substituted)
	}

	buf.Write(doc.raw[end:])

	out := updatePageTotal(buf.Bytes(), stride*total)
	a.log.Debugw("merged records into single document",
		"template", doc.Path(), "records", total, "pages", stride*total)
	return out, nil
}

// RecordResult is the outcome of one record in multi-output mode.
type RecordResult struct {
	// Position is the record's 1-based index in the generated sequence.
	Position int
	Content  []byte
	Err      error
}

// AssembleMany substitutes the full template once per record, producing one
// document per record in record order. A failing record is reported in its
// RecordResult and skipped; the remaining records still generate. Records are
// independent, so substitution runs concurrently up to the configured
// parallelism.
func (a *Assembler) AssembleMany(ctx context.Context, doc Document, set records.RecordSet) []RecordResult {
	total := set.Len()
	results := make([]RecordResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)
	for k := 0; k < total; k++ {
		k := k
		g.Go(func() error {
			position := k + 1
			if err := gctx.Err(); err != nil {
				results[k] = RecordResult{Position: position, Err: err}
				return nil
			}
			m := a.resolver.Resolve(set.Row(k), position, total)
			content, err := Substitute(doc.raw, m)
			results[k] = RecordResult{Position: position, Content: content, Err: err}
			return nil
		})
	}
	// Workers never return errors; failures live in the per-record results.
	_ = g.Wait()
	return results
}

// repeatableUnit concatenates the repeatable children, dropping scaffold
// bytes that sit between them.
func repeatableUnit(idx *Index) []byte {
	var parts [][]byte
	for _, c := range idx.Children() {
		if c.Repeatable() {
			parts = append(parts, idx.raw[c.Start:c.End])
		}
	}
	return bytes.Join(parts, []byte(copySeparator))
}

// rewriteIdentifiers gives copy k a disjoint identifier namespace: string
// identifiers get an "_k" suffix, page numbers shift by the page stride. The
// scheme is deterministic and collision-free for any record count.
func rewriteIdentifiers(unit []byte, k, stride int) []byte {
	out := idAttrPattern.ReplaceAllFunc(unit, func(match []byte) []byte {
		parts := idAttrPattern.FindSubmatch(match)
		value := string(parts[2])
		if value == "" || value == "-1" {
			return match
		}
		return []byte(fmt.Sprintf(`%s="%s_%d"`, parts[1], value, k))
	})
	if stride == 0 || k == 0 {
		return out
	}
	return pageNumPattern.ReplaceAllFunc(out, func(match []byte) []byte {
		parts := pageNumPattern.FindSubmatch(match)
		n, err := strconv.Atoi(string(parts[2]))
		if err != nil || n < 0 {
			return match
		}
		return []byte(fmt.Sprintf(`%s="%d"`, parts[1], n+stride*k))
	})
}

// updatePageTotal rewrites the ANZPAGES declaration in the DOCUMENT open tag
// to the merged page count.
func updatePageTotal(doc []byte, pages int) []byte {
	replaced := false
	return anzPagesPattern.ReplaceAllFunc(doc, func(match []byte) []byte {
		if replaced {
			return match
		}
		replaced = true
		return []byte(fmt.Sprintf(`ANZPAGES="%d"`, pages))
	})
}
