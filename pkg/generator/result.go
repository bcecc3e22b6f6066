package generator

// Outcome classifies how one template's run ended. The batch driver inspects
// outcomes instead of catching errors, and always continues with the
// remaining templates.
type Outcome string

const (
	// OutcomeDone means documents were generated (possibly zero, for an
	// empty row range).
	OutcomeDone Outcome = "done"
	// OutcomeSkipped means the template was skipped, typically because its
	// data file is missing.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means generation aborted for this template.
	OutcomeFailed Outcome = "failed"
)

// GeneratedDocument is one output buffer tagged with the file name (without
// extension) it must be written as.
type GeneratedDocument struct {
	Name    string
	Content []byte
}

// Result reports one template's run. RecordErrors collects per-record skips
// in multi-output mode; RenderErrors collects export failures, which never
// invalidate the written native documents.
type Result struct {
	Template     string
	Outcome      Outcome
	Written      []string
	RecordErrors []error
	RenderErrors []error
	Err          error
}
