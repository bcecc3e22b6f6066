package sla

import "fmt"

// UnresolvedVariableError reports a well-formed placeholder whose name is
// neither a record field nor a reserved pseudo-variable. It aborts the
// current record (multi-output) or the whole merge (single-output).
type UnresolvedVariableError struct {
	Name   string
	Offset int
	Line   int
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("could not find the value for variable %q at line %d (offset %d)", e.Name, e.Line, e.Offset)
}

// MalformedPlaceholderError reports an unterminated or empty placeholder
// token.
type MalformedPlaceholderError struct {
	Offset  int
	Line    int
	Snippet string
}

func (e *MalformedPlaceholderError) Error() string {
	return fmt.Sprintf("malformed placeholder %q at line %d (offset %d)", e.Snippet, e.Line, e.Offset)
}
