package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them; both reach the caller of
// Service unmodified apart from wrapping.
var (
	// ErrSourceNotFound means the record file could not be located.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMalformedRecord means a line failed field-count or type validation.
	ErrMalformedRecord = errors.New("malformed record")
)

// Reasons carried by MalformedRecordError.
const (
	ReasonFieldCount     = "too few fields"
	ReasonInvalidNumber  = "invalid number"
	ReasonWrongSeparator = "wrong decimal separator"
	ReasonNegativeArea   = "negative floor area"
)

// MalformedRecordError describes why a line could not become a UnitRecord.
//
// Line is the 1-based line number in the source (header = 1). It is zero when
// the line was parsed on its own, outside a repository.
type MalformedRecordError struct {
	Line   int    // 1-based line number, 0 if unknown
	Raw    string // The offending line as read
	Field  string // Field name, empty for field-count errors
	Value  string // The cleaned field value that failed, or the field count
	Reason string // One of the Reason* constants
	Err    error  // Underlying conversion error, if any
}

func (e *MalformedRecordError) Error() string {
	var msg string
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s: %s %q", ErrMalformedRecord, e.Reason, e.Field, e.Value)
	} else if e.Value != "" {
		msg = fmt.Sprintf("%s: %s: %s", ErrMalformedRecord, e.Reason, e.Value)
	} else {
		msg = fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s (input: %q)", e.Line, msg, e.Raw)
	}
	return msg
}

// Unwrap exposes both ErrMalformedRecord and the underlying conversion error.
func (e *MalformedRecordError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRecord, e.Err}
	}
	return []error{ErrMalformedRecord}
}

// AtLine returns a copy of the error annotated with its position in the source.
func (e *MalformedRecordError) AtLine(line int, raw string) *MalformedRecordError {
	annotated := *e
	annotated.Line = line
	annotated.Raw = raw
	return &annotated
}
