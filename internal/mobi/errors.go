package mobi

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural failures. Each is wrapped in a FormatError
// carrying the offending offset and record index, so callers can match with
// errors.Is while still getting diagnostic context.
var (
	// ErrTooSmall indicates the buffer is shorter than the 78-byte PDB preamble.
	ErrTooSmall = errors.New("mobi: buffer too small for PDB header")

	// ErrNoRecords indicates the record count in the PDB preamble is zero.
	ErrNoRecords = errors.New("mobi: record count is zero")

	// ErrHeaderNotFound indicates no record starts with the MOBI magic bytes.
	ErrHeaderNotFound = errors.New("mobi: MOBI header record not found")

	// ErrBadIdentifier indicates the header record does not begin with "MOBI".
	ErrBadIdentifier = errors.New("mobi: header identifier mismatch")

	// ErrBadHeaderLength indicates the declared header length is below the
	// 16-byte minimum or exceeds the header record itself.
	ErrBadHeaderLength = errors.New("mobi: declared header length out of range")

	// ErrEmptyContent indicates no text could be recovered from any record.
	ErrEmptyContent = errors.New("mobi: no text content recovered")
)

// FormatError is the typed error returned for fatal structural failures.
type FormatError struct {
	Err    error  // one of the sentinel errors above
	Offset int    // byte offset in the file, -1 when not applicable
	Record int    // record index, -1 when not applicable
	Detail string // optional human-readable context
}

func (e *FormatError) Error() string {
	msg := e.Err.Error()
	if e.Record >= 0 {
		msg = fmt.Sprintf("%s (record %d)", msg, e.Record)
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// formatErr builds a FormatError for the given sentinel.
func formatErr(sentinel error, offset, record int, detail string) *FormatError {
	return &FormatError{Err: sentinel, Offset: offset, Record: record, Detail: detail}
}
