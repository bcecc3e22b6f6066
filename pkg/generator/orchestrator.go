// Package generator sequences the full mail-merge pipeline: load records,
// filter the row range, substitute or merge, write the outputs, and request
// external rendering. One template's failure never terminates the batch.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	internalloader "github.com/codfish-zz/ScribusGenerator/internal/records/loader"
	"github.com/codfish-zz/ScribusGenerator/internal/render/scribus"
	"github.com/codfish-zz/ScribusGenerator/pkg/records"
	"github.com/codfish-zz/ScribusGenerator/pkg/render"
	"github.com/codfish-zz/ScribusGenerator/pkg/settings"
	"github.com/codfish-zz/ScribusGenerator/pkg/sla"
	"github.com/codfish-zz/ScribusGenerator/pkg/vars"
)

const defaultRendererName = "scribus"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom record loader.
func WithLoader(loader records.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithResolver injects a custom variable resolver.
func WithResolver(resolver *vars.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithRenderRegistry injects a renderer registry.
func WithRenderRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer overrides the renderer used for exports.
func WithRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.rendererName = name
	}
}

// WithLogger injects a structured logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithParallelism bounds concurrent record substitution in multi-output
// mode.
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// Orchestrator coordinates the pipeline for a batch of templates. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
type Orchestrator struct {
	loader       records.Loader
	resolver     *vars.Resolver
	assembler    *sla.Assembler
	registry     *render.Registry
	rendererName string
	log          *zap.SugaredLogger
	parallelism  int
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		rendererName: defaultRendererName,
		log:          zap.NewNop().Sugar(),
		parallelism:  1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalloader.New(records.LoaderOptions{})
	}
	if o.resolver == nil {
		o.resolver = vars.NewResolver()
	}
	o.assembler = sla.NewAssembler(
		sla.WithResolver(o.resolver),
		sla.WithLogger(o.log),
		sla.WithParallelism(o.parallelism),
	)
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(scribus.New(scribus.WithLogger(o.log)))
	}
	if o.rendererName == "" {
		o.rendererName = defaultRendererName
	}
}

// Request describes one template to generate from.
type Request struct {
	// TemplatePath is the SLA template file.
	TemplatePath string

	// Settings carries CLI/API-provided configuration. Zero-value fields
	// fall back to engine defaults relative to the template path.
	Settings settings.Settings

	// LoadSettings replaces Settings with the configuration embedded in the
	// template, when present.
	LoadSettings bool
}

// RunAll processes templates strictly in order, continuing past per-template
// failures. Cancelling the context skips the templates not yet started; the
// template in flight finishes, so a partially substituted document is never
// written.
func (o *Orchestrator) RunAll(ctx context.Context, requests []Request) []Result {
	results := make([]Result, 0, len(requests))
	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Template: req.TemplatePath, Outcome: OutcomeSkipped, Err: err})
			continue
		}
		results = append(results, o.Run(ctx, req))
	}
	return results
}

// Run executes the pipeline for one template.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	res := Result{Template: req.TemplatePath, Outcome: OutcomeFailed}
	templateBase := filepath.Base(req.TemplatePath)

	doc, err := sla.LoadDocument(req.TemplatePath)
	if err != nil {
		res.Err = err
		o.log.Errorw("cannot load template", "template", templateBase, "error", err)
		return res
	}

	s := o.effectiveSettings(doc, req)

	if s.SaveSettings {
		if err := o.saveSettings(doc, s); err != nil {
			res.Err = err
			return res
		}
	}

	if _, err := os.Stat(s.DataFile); err != nil {
		res.Outcome = OutcomeSkipped
		res.Err = records.NewDataSourceError(s.DataFile, "not found", err)
		o.log.Warnf("Data file [%s] for [%s] not found, skip this template.", s.DataFile, templateBase)
		return res
	}

	set, err := o.loader.Load(ctx, records.SourceFromFile(s.DataFile), records.LoadOptions{
		Delimiter: s.Delimiter(),
		Encoding:  s.CSVEncoding,
	})
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Err = err
		o.log.Warnw("cannot load data file, skip this template", "template", templateBase, "error", err)
		return res
	}

	first, last, err := s.RowRange()
	if err != nil {
		res.Err = err
		return res
	}
	set = set.FilterRange(first, last)
	if set.Len() == 0 {
		res.Outcome = OutcomeDone
		o.log.Infow("no data rows in selected range, nothing to generate", "template", templateBase)
		return res
	}

	o.log.Infow("generating", "template", templateBase, "records", set.Len(),
		"outputDir", s.OutputDir, "merge", s.SingleOutput)

	var docs []GeneratedDocument
	if s.SingleOutput {
		docs, err = o.generateSingle(doc, set, s)
		if err != nil {
			res.Err = err
			o.log.Errorw("merge aborted", "template", templateBase, "error", err)
			return res
		}
	} else {
		docs, res.RecordErrors = o.generateMany(ctx, doc, set, s)
		if len(docs) == 0 && len(res.RecordErrors) > 0 {
			res.Err = fmt.Errorf("generator: all %d records failed for %q", set.Len(), templateBase)
			return res
		}
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		res.Err = fmt.Errorf("generator: create output directory: %w", err)
		return res
	}
	for _, gd := range docs {
		path := filepath.Join(s.OutputDir, gd.Name+".sla")
		if err := os.WriteFile(path, gd.Content, 0o644); err != nil {
			res.Err = fmt.Errorf("generator: write %q: %w", path, err)
			return res
		}
		res.Written = append(res.Written, path)
		o.log.Debugw("wrote document", "path", path)
	}

	res.RenderErrors = o.renderAll(ctx, res.Written, s)
	if !s.KeepGenerated && len(s.OutputFormat.Exports()) > 0 {
		res.Written = o.removeGenerated(res.Written, res.RenderErrors)
	}
	res.Outcome = OutcomeDone
	return res
}

// removeGenerated deletes the intermediate SLA files once their exports
// succeeded. A document whose render failed keeps its source file, so the
// export can be retried.
func (o *Orchestrator) removeGenerated(written []string, renderErrs []error) []string {
	failed := make(map[string]bool, len(renderErrs))
	for _, err := range renderErrs {
		var rerr *render.Error
		if !errors.As(err, &rerr) {
			// Not attributable to one document (no renderer at all); no
			// export happened, so every source file stays.
			return written
		}
		failed[rerr.Document] = true
	}

	kept := written[:0]
	for _, path := range written {
		if failed[path] {
			kept = append(kept, path)
			continue
		}
		if err := os.Remove(path); err != nil {
			o.log.Warnw("cannot remove generated document", "path", path, "error", err)
			kept = append(kept, path)
			continue
		}
		o.log.Debugw("removed generated document after export", "path", path)
	}
	return kept
}

// effectiveSettings resolves the configuration for one run: embedded template
// settings when requested, then path defaults relative to the template.
func (o *Orchestrator) effectiveSettings(doc sla.Document, req Request) settings.Settings {
	s := req.Settings
	templateBase := filepath.Base(req.TemplatePath)

	if req.LoadSettings {
		loaded, ok, err := settings.Decode(doc.Raw())
		switch {
		case err != nil:
			o.log.Warnw("settings region unreadable, using arguments and defaults instead",
				"template", templateBase, "error", err)
		case ok:
			s = loaded
			o.log.Infow("settings loaded from template", "template", templateBase)
		default:
			o.log.Warnw("could not load settings from template, using arguments and defaults instead",
				"template", templateBase)
		}
	}

	if s.DataFile == "" {
		s.DataFile = strings.TrimSuffix(req.TemplatePath, filepath.Ext(req.TemplatePath)) + ".csv"
	}
	if s.OutputDir == "" {
		s.OutputDir = filepath.Dir(req.TemplatePath)
	}
	s.ClampQuality()
	return s
}

// saveSettings embeds the run configuration into the template file itself.
func (o *Orchestrator) saveSettings(doc sla.Document, s settings.Settings) error {
	updated, err := settings.Embed(doc.Raw(), s)
	if err != nil {
		return fmt.Errorf("generator: save settings: %w", err)
	}
	if err := os.WriteFile(doc.Path(), updated, 0o644); err != nil {
		return fmt.Errorf("generator: save settings: %w", err)
	}
	o.log.Infow("settings saved into template", "template", filepath.Base(doc.Path()))
	return nil
}

func (o *Orchestrator) generateSingle(doc sla.Document, set records.RecordSet, s settings.Settings) ([]GeneratedDocument, error) {
	content, err := o.assembler.AssembleSingle(doc, set)
	if err != nil {
		return nil, err
	}

	pattern := s.OutputName
	if pattern == "" {
		// Not the bare template name: the default output directory is the
		// template's own directory, and the merge must never overwrite its
		// template.
		pattern = doc.Base() + "__merged"
	}
	// Merge mode has no single record, so only the engine-level context
	// variables apply to the name pattern.
	name, err := o.resolveName(pattern, o.resolver.ResolveContext(1, set.Len()))
	if err != nil {
		return nil, err
	}
	return []GeneratedDocument{{Name: name, Content: content}}, nil
}

func (o *Orchestrator) generateMany(ctx context.Context, doc sla.Document, set records.RecordSet, s settings.Settings) ([]GeneratedDocument, []error) {
	var docs []GeneratedDocument
	var recordErrs []error

	for _, rr := range o.assembler.AssembleMany(ctx, doc, set) {
		if rr.Err != nil {
			recordErrs = append(recordErrs, fmt.Errorf("record %d: %w", rr.Position, rr.Err))
			o.log.Errorw("record skipped", "template", doc.Base(), "record", rr.Position, "error", rr.Err)
			continue
		}

		name := strconv.Itoa(rr.Position)
		if s.OutputName != "" {
			m := o.resolver.Resolve(set.Row(rr.Position-1), rr.Position, set.Len())
			resolved, err := o.resolveName(s.OutputName, m)
			if err != nil {
				recordErrs = append(recordErrs, fmt.Errorf("record %d: output name: %w", rr.Position, err))
				o.log.Errorw("record skipped, output name not resolvable",
					"template", doc.Base(), "record", rr.Position, "error", err)
				continue
			}
			name = resolved
		}
		docs = append(docs, GeneratedDocument{Name: name, Content: rr.Content})
	}
	return docs, recordErrs
}

// renderAll requests exports for every written document. Failures are
// reported per document and never touch the written SLA files.
func (o *Orchestrator) renderAll(ctx context.Context, written []string, s settings.Settings) []error {
	if s.OutputFormat == render.FormatSLA || s.OutputFormat == "" || len(written) == 0 {
		return nil
	}

	renderer, err := o.registry.Get(o.rendererName)
	if err != nil {
		o.log.Errorw("no renderer available, keeping generated SLA files", "error", err)
		return []error{err}
	}

	var renderErrs []error
	for _, path := range written {
		err := renderer.Render(ctx, render.Request{
			SourceDocument: path,
			TargetFormat:   s.OutputFormat,
			Quality:        s.ImageQuality,
		})
		if err != nil {
			renderErrs = append(renderErrs, err)
			o.log.Errorw("render failed, generated SLA file kept", "document", path, "error", err)
		}
	}
	return renderErrs
}

// resolveName substitutes placeholders in an output-name pattern and strips
// characters that cannot appear in a file name.
func (o *Orchestrator) resolveName(pattern string, m vars.SubstitutionMap) (string, error) {
	resolved, err := sla.SubstitutePlain([]byte(pattern), m)
	if err != nil {
		return "", err
	}
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, string(resolved))
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("generator: output name pattern %q resolved to an empty name", pattern)
	}
	return name, nil
}
