// Copyright (c) 2025 Neomantra Corp

package wpilog

// Record is a single raw, framed wpilog record: an entry id, a microsecond
// timestamp, and the payload bytes. It does not interpret the payload —
// that is the job of the payload decoders (C4) and struct unpacker (C6).
type Record struct {
	EntryID      uint32
	TimestampUs  uint64
	Payload      []byte // borrows directly from the ByteSource
	HeaderOffset int64  // byte offset of this record's header-length byte
	TotalLength  int    // header + payload, in bytes
}

// IsControl reports whether this is a control record (entry id 0).
func (r Record) IsControl() bool {
	return r.EntryID == ControlEntryID
}

// readUintLE reads a little-endian unsigned integer of 1..8 bytes from b,
// which must be exactly that length.
func readUintLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(b[i])
	}
	return v
}

// headerWidths decodes the bit-packed header-length byte into the three
// variable field widths. The top bit is reserved and ignored.
func headerWidths(b byte) (entryLen, sizeLen, tsLen int) {
	entryLen = int(b&0x3) + 1
	sizeLen = int((b>>2)&0x3) + 1
	tsLen = int((b>>4)&0x7) + 1
	return
}

// RecordReader yields the lazy sequence of raw records following a wpilog
// file's header. It is restartable (NewRecordReader always starts at the
// given offset) and holds no cursor state beyond what's needed for a single
// forward pass; it is not safe for concurrent use.
type RecordReader struct {
	src       *ByteSource
	pos       int
	lastErr   error
	lastRec   Record
	eofIsDone bool // true once a clean EOF has been observed
}

// NewRecordReader creates a RecordReader starting at byteOffset, which must
// be the first byte after the file header.
func NewRecordReader(src *ByteSource, byteOffset int) *RecordReader {
	return &RecordReader{src: src, pos: byteOffset}
}

// Next decodes the next record. It returns false at a clean EOF (Err()
// returns nil) or upon a decode failure (Err() returns the InvalidFormat
// error).
func (r *RecordReader) Next() bool {
	if r.eofIsDone {
		return false
	}
	if r.pos >= r.src.Len() {
		r.eofIsDone = true
		r.lastErr = nil
		return false
	}

	headerOffset := r.pos
	lenByte, err := r.src.Slice(r.pos, 1)
	if err != nil {
		r.lastErr = newFormatError(int64(headerOffset), "truncated record: missing header-length byte")
		return false
	}
	entryLen, sizeLen, tsLen := headerWidths(lenByte[0])
	headerLen := 1 + entryLen + sizeLen + tsLen

	header, err := r.src.Slice(r.pos, headerLen)
	if err != nil {
		r.lastErr = newFormatError(int64(headerOffset), "%w: header needs %d bytes", ErrTruncated, headerLen)
		return false
	}

	off := 1
	entryID := uint32(readUintLE(header[off : off+entryLen]))
	off += entryLen
	payloadSize := int(readUintLE(header[off : off+sizeLen]))
	off += sizeLen
	tsUs := readUintLE(header[off : off+tsLen])

	payload, err := r.src.Slice(r.pos+headerLen, payloadSize)
	if err != nil {
		r.lastErr = newFormatError(int64(headerOffset), "%w: payload needs %d bytes", ErrTruncated, payloadSize)
		return false
	}

	r.lastRec = Record{
		EntryID:      entryID,
		TimestampUs:  tsUs,
		Payload:      payload,
		HeaderOffset: int64(headerOffset),
		TotalLength:  headerLen + payloadSize,
	}
	r.pos += headerLen + payloadSize
	r.lastErr = nil
	return true
}

// Record returns the most recently decoded record. Only valid after a call
// to Next() that returned true.
func (r *RecordReader) Record() Record {
	return r.lastRec
}

// Err returns the error from the last failed Next(), or nil.
func (r *RecordReader) Err() error {
	return r.lastErr
}
