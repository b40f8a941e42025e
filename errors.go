// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"errors"
	"fmt"
)

// Kind classifies a decode error into one of the taxonomy buckets from the
// error handling design: InvalidFormat, Io, InvalidEntry, ParseError,
// SchemaError, OutputError, Utf8Error. It does not replace Go's usual error
// wrapping; it is exposed so callers can triage failures without string
// matching.
type Kind int

const (
	KindInvalidFormat Kind = iota
	KindIo
	KindInvalidEntry
	KindParseError
	KindSchemaError
	KindOutputError
	KindUtf8Error
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindIo:
		return "Io"
	case KindInvalidEntry:
		return "InvalidEntry"
	case KindParseError:
		return "ParseError"
	case KindSchemaError:
		return "SchemaError"
	case KindOutputError:
		return "OutputError"
	case KindUtf8Error:
		return "Utf8Error"
	default:
		return "Unknown"
	}
}

// Error is returned by this package for anything beyond a bare io.EOF. It
// carries enough context to identify the offending record: entry id, byte
// offset, and expected/actual sizes.
type Error struct {
	Kind     Kind
	Msg      string
	EntryID  uint32 // 0 if not applicable
	Name     string // entry name, if known
	Offset   int64  // byte offset of the record header, -1 if not applicable
	Expected int    // expected size/count, -1 if not applicable
	Actual   int    // actual size/count, -1 if not applicable
	Wrapped  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Name != "" {
		s += fmt.Sprintf(" (entry %q, id=%d)", e.Name, e.EntryID)
	} else if e.EntryID != 0 {
		s += fmt.Sprintf(" (entry id=%d)", e.EntryID)
	}
	if e.Offset >= 0 {
		s += fmt.Sprintf(" [offset=%d]", e.Offset)
	}
	if e.Expected >= 0 || e.Actual >= 0 {
		s += fmt.Sprintf(" [expected=%d actual=%d]", e.Expected, e.Actual)
	}
	if e.Wrapped != nil {
		s += ": " + e.Wrapped.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// newFormatError accepts a %w verb in format; the error it names becomes
// Wrapped, so errors.Is matches sentinels such as ErrTruncated.
func newFormatError(offset int64, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: KindInvalidFormat, Msg: err.Error(), Offset: offset, Expected: -1, Actual: -1, Wrapped: errors.Unwrap(err)}
}

func newEntryError(id uint32, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidEntry, Msg: fmt.Sprintf(format, args...), EntryID: id, Offset: -1, Expected: -1, Actual: -1}
}

func newParseError(id uint32, name string, expected, actual int, format string, args ...any) *Error {
	return &Error{Kind: KindParseError, Msg: fmt.Sprintf(format, args...), EntryID: id, Name: name, Offset: -1, Expected: expected, Actual: actual}
}

func newSchemaError(format string, args ...any) *Error {
	return &Error{Kind: KindSchemaError, Msg: fmt.Sprintf(format, args...), Offset: -1, Expected: -1, Actual: -1}
}

func newUtf8Error(id uint32, name string, wrapped error) *Error {
	return &Error{Kind: KindUtf8Error, Msg: "invalid UTF-8", EntryID: id, Name: name, Offset: -1, Expected: -1, Actual: -1, Wrapped: wrapped}
}

func newOutputError(wrapped error) *Error {
	return &Error{Kind: KindOutputError, Msg: "parquet writer failure", Offset: -1, Expected: -1, Actual: -1, Wrapped: wrapped}
}

// NewOutputError wraps wrapped as a KindOutputError Error, for callers
// outside this package (internal/parquetio's C8 writer) that need to
// surface a writer I/O failure through the same taxonomy spec.md §7
// defines for the core decoder.
func NewOutputError(wrapped error) *Error {
	return newOutputError(wrapped)
}

var (
	// ErrBadMagic is returned when the file does not start with "WPILOG".
	ErrBadMagic = fmt.Errorf("bad wpilog magic")
	// ErrTruncated is returned when a record's payload runs past EOF.
	ErrTruncated = fmt.Errorf("truncated record")
	// ErrUnresolvedSchema is returned when a struct entry references a schema
	// name that has not (yet) been registered.
	ErrUnresolvedSchema = fmt.Errorf("unresolved struct schema")
)

func unexpectedBytesError(got int, want int) error {
	return fmt.Errorf("expected %d bytes, got %d", want, got)
}
