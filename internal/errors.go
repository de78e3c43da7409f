package internal

import "fmt"

// Machine-readable error codes carried in result envelopes.
const (
	CodeInvalidQuery = "INVALID_QUERY"
	CodeDBOpenFailed = "DB_OPEN_FAILED"
)

// OpenError represents a failure to open the history store. It is the
// only anticipated store-level failure; both operations convert it
// into a DB_OPEN_FAILED envelope error instead of propagating it.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open history store %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Info converts the open failure into its envelope representation.
func (e *OpenError) Info() *ErrorInfo {
	return &ErrorInfo{
		Code:    CodeDBOpenFailed,
		Message: "could not open the opencode history database",
		Detail:  e.Err.Error(),
		Path:    e.Path,
	}
}

func invalidQueryInfo() *ErrorInfo {
	return &ErrorInfo{
		Code:    CodeInvalidQuery,
		Message: "search query is empty; provide at least one term",
	}
}
