// Package scribgen generates Scribus (SLA) documents from tabular or
// structured record data, mail-merge style: placeholders of the form
// %VAR_name% are substituted per record, either into one output document per
// record or into a single merged document, optionally followed by a JPG/PDF
// export through an external Scribus renderer.
package scribgen

import (
	"context"

	"github.com/codfish-zz/ScribusGenerator/pkg/generator"
	"github.com/codfish-zz/ScribusGenerator/pkg/settings"
)

// Settings aliases the engine configuration exported via the root package
// for convenience.
type Settings = settings.Settings

// Request describes one template to generate from.
type Request = generator.Request

// Result reports one template's run.
type Result = generator.Result

// DefaultSettings returns the engine defaults the CLI starts from.
func DefaultSettings() Settings {
	return settings.Default()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...generator.Option) *generator.Orchestrator {
	return generator.New(options...)
}

// Generate runs the pipeline for a single template with the given settings.
// It is the simplest entry point for callers that just want files on disk.
func Generate(ctx context.Context, templatePath string, s Settings, options ...generator.Option) Result {
	gen := generator.New(options...)
	return gen.Run(ctx, generator.Request{TemplatePath: templatePath, Settings: s})
}

// GenerateAll runs the pipeline for a batch of templates, continuing past
// per-template failures.
func GenerateAll(ctx context.Context, requests []Request, options ...generator.Option) []Result {
	gen := generator.New(options...)
	return gen.RunAll(ctx, requests)
}
