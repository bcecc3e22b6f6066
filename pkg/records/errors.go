package records

import "fmt"

// DataSourceError reports a missing, unreadable, or malformed record data
// file. The orchestrator treats it as "skip this template", never as a fatal
// batch error.
type DataSourceError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *DataSourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("data source %q: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("data source %q: %s", e.Path, e.Reason)
}

func (e *DataSourceError) Unwrap() error {
	return e.Cause
}

// NewDataSourceError creates a DataSourceError with optional cause.
func NewDataSourceError(path, reason string, cause error) error {
	return &DataSourceError{Path: path, Reason: reason, Cause: cause}
}
