// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"os"
	"unicode/utf8"
)

// Reader is the top-level facade over a wpilog file: it validates the
// file header once at construction and then exposes the record stream,
// the wide-row projection, and header metadata. A Reader owns its byte
// source exclusively; it may be handed to another goroutine but must not
// be used from two goroutines at once (spec.md §5).
type Reader struct {
	src         *ByteSource
	version     uint16
	extraHeader string
	recordsAt   int
}

const (
	fileMagicLen  = len(FileMagic)
	fileHeaderFix = fileMagicLen + 2 + 4 // magic + version + extra-header length
)

// FromBytes validates buf's wpilog file header and returns a Reader over
// it. buf must not be modified for the Reader's lifetime.
func FromBytes(buf []byte) (*Reader, error) {
	src := NewByteSource(buf)
	if src.Len() < fileHeaderFix {
		return nil, newFormatError(0, "%w: file shorter than header", ErrTruncated)
	}

	magic, err := src.Slice(0, fileMagicLen)
	if err != nil {
		return nil, err
	}
	if string(magic) != FileMagic {
		return nil, newFormatError(0, "%w: got %q", ErrBadMagic, magic)
	}

	versionBytes, err := src.Slice(fileMagicLen, 2)
	if err != nil {
		return nil, err
	}
	version := uint16(readUintLE(versionBytes))
	if version != SupportedVersion {
		return nil, newFormatError(fileMagicLen, "unsupported wpilog version 0x%04x", version)
	}

	extraLenBytes, err := src.Slice(fileMagicLen+2, 4)
	if err != nil {
		return nil, err
	}
	extraLen := int(readUintLE(extraLenBytes))

	extraBytes, err := src.Slice(fileHeaderFix, extraLen)
	if err != nil {
		return nil, newFormatError(int64(fileHeaderFix), "%w: extra header needs %d bytes", ErrTruncated, extraLen)
	}
	if !utf8.Valid(extraBytes) {
		return nil, newUtf8Error(0, "", nil)
	}

	return &Reader{
		src:         src,
		version:     version,
		extraHeader: string(extraBytes),
		recordsAt:   fileHeaderFix + extraLen,
	}, nil
}

// FromFile reads path fully into memory and validates it as a wpilog
// file.
func FromFile(path string) (*Reader, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIo, Msg: "reading wpilog file", Offset: -1, Expected: -1, Actual: -1, Wrapped: err}
	}
	return FromBytes(buf)
}

// Version returns the file's wire-format version.
func (r *Reader) Version() uint16 { return r.version }

// ExtraHeader returns the file's extra-header text.
func (r *Reader) ExtraHeader() string { return r.extraHeader }

// LowLevelRecords returns a fresh, restartable iterator over the file's
// raw records, starting just after the file header.
func (r *Reader) LowLevelRecords() *RecordReader {
	return NewRecordReader(r.src, r.recordsAt)
}

// ReadAll decodes and projects the entire record stream into wide rows.
func (r *Reader) ReadAll() ([]WideRow, error) {
	rows, _, err := projectRecords(r.LowLevelRecords())
	return rows, err
}

// ReadAllWithMetadata decodes and projects the entire record stream,
// additionally returning the Formatter's column-name union and discovered
// struct schemas.
func (r *Reader) ReadAllWithMetadata() ([]WideRow, *Formatter, error) {
	return projectRecords(r.LowLevelRecords())
}
