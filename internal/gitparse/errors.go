package gitparse

import "fmt"

// ParseError reports machine-readable git output that did not match the
// expected format. It is treated as a tool-version compatibility fault and
// is always surfaced to the caller, never dropped.
type ParseError struct {
	Format string // "status" or "diff"
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("parse %s output: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("parse %s output: %s: %q", e.Format, e.Reason, e.Line)
}

func statusErr(line, reason string) *ParseError {
	return &ParseError{Format: "status", Line: line, Reason: reason}
}

func diffErr(line, reason string) *ParseError {
	return &ParseError{Format: "diff", Line: line, Reason: reason}
}
