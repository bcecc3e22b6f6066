// Package scribus implements the render contract by driving a headless
// Scribus through its scripting console, wrapped in xvfb-run so exports work
// without a display server.
package scribus

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/codfish-zz/ScribusGenerator/pkg/render"
)

const rendererName = "scribus"

// Runner executes an external command and returns its combined output.
// Injectable so tests can capture invocations without a Scribus install.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Option customises renderer construction.
type Option func(*Renderer)

// WithLogger injects a structured logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithScribusBinary overrides the scribus executable path.
func WithScribusBinary(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.scribusBin = path
		}
	}
}

// WithXvfb sets the xvfb-run executable path. An empty path runs scribus
// directly, for environments that already have a display.
func WithXvfb(path string) Option {
	return func(r *Renderer) {
		r.xvfbBin = path
	}
}

// WithRunner injects a command runner.
func WithRunner(run Runner) Option {
	return func(r *Renderer) {
		if run != nil {
			r.run = run
		}
	}
}

// Renderer shells out to Scribus for JPG and PDF exports.
type Renderer struct {
	log        *zap.SugaredLogger
	scribusBin string
	xvfbBin    string
	run        Runner
}

// Ensure the implementation satisfies the public contract.
var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		log:        zap.NewNop().Sugar(),
		scribusBin: "scribus",
		xvfbBin:    "xvfb-run",
		run:        defaultRunner,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return rendererName
}

// Render exports the written SLA document into the requested format(s). The
// native document is left untouched whether or not the export succeeds.
func (r *Renderer) Render(ctx context.Context, req render.Request) error {
	formats := req.TargetFormat.Exports()
	if len(formats) == 0 {
		return nil
	}
	for _, format := range formats {
		if err := r.export(ctx, req.SourceDocument, format, req.Quality); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) export(ctx context.Context, src string, format render.Format, quality int) error {
	outPath := strings.TrimSuffix(src, filepath.Ext(src)) + "." + string(format)

	script, err := os.CreateTemp("", "scribusgen-*.py")
	if err != nil {
		return &render.Error{Document: src, Format: format, Cause: err}
	}
	defer os.Remove(script.Name())

	if _, err := script.WriteString(exportScript(src, outPath, format, quality)); err != nil {
		script.Close()
		return &render.Error{Document: src, Format: format, Cause: err}
	}
	if err := script.Close(); err != nil {
		return &render.Error{Document: src, Format: format, Cause: err}
	}

	name, args := r.command(script.Name())
	r.log.Debugw("invoking scribus", "command", name, "args", args, "output", outPath)
	output, err := r.run(ctx, name, args...)
	if err != nil {
		return &render.Error{
			Document: src,
			Format:   format,
			Cause:    fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output))),
		}
	}

	if format == render.FormatPDF {
		// A truncated Scribus run can exit zero and still leave a broken
		// file behind; flag it here instead of at print time.
		if err := api.ValidateFile(outPath, nil); err != nil {
			r.log.Warnw("exported PDF failed validation", "file", outPath, "error", err)
		}
	}
	return nil
}

// command builds the invocation, wrapping scribus in xvfb-run when
// configured.
func (r *Renderer) command(scriptPath string) (string, []string) {
	scribusArgs := []string{"-g", "-ns", "-py", scriptPath}
	if r.xvfbBin == "" {
		return r.scribusBin, scribusArgs
	}
	return r.xvfbBin, append([]string{"-a", r.scribusBin}, scribusArgs...)
}

// exportScript renders the scripter program Scribus runs in headless mode.
func exportScript(src, out string, format render.Format, quality int) string {
	var b strings.Builder
	b.WriteString("import scribus\n")
	fmt.Fprintf(&b, "scribus.openDoc(%q)\n", src)
	switch format {
	case render.FormatPDF:
		b.WriteString("pdf = scribus.PDFfile()\n")
		fmt.Fprintf(&b, "pdf.file = %q\n", out)
		b.WriteString("pdf.save()\n")
	default:
		b.WriteString("img = scribus.ImageExport()\n")
		b.WriteString("img.type = \"JPG\"\n")
		fmt.Fprintf(&b, "img.quality = %d\n", quality)
		fmt.Fprintf(&b, "img.saveAs(%q)\n", out)
	}
	b.WriteString("scribus.closeDoc()\n")
	return b.String()
}
