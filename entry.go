// Copyright (c) 2025 Neomantra Corp

package wpilog

import "unicode/utf8"

// EntryInfo is the directory's view of one entry-id's current logical
// entry: its name, type string, opaque metadata, and the timestamp at
// which it went live.
type EntryInfo struct {
	ID          uint32
	Name        string
	Type        string
	Metadata    string
	StartTimeUs uint64
	State       EntryState
}

// Directory tracks {entry-id -> EntryInfo}, mutated by control records as
// described by the Unknown -> Live -> Finished -> Live state machine.
type Directory struct {
	entries map[uint32]*EntryInfo
}

// NewDirectory returns an empty entry directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[uint32]*EntryInfo)}
}

// ApplyStart registers id as Live. It fails with InvalidEntry if id is
// already Live (re-use is only permitted after Finish).
func (d *Directory) ApplyStart(id uint32, name, typ, metadata string, tsUs uint64) error {
	if ei, ok := d.entries[id]; ok && ei.State == EntryLive {
		return newEntryError(id, "Start for already-live entry %q", ei.Name)
	}
	d.entries[id] = &EntryInfo{
		ID:          id,
		Name:        name,
		Type:        typ,
		Metadata:    metadata,
		StartTimeUs: tsUs,
		State:       EntryLive,
	}
	return nil
}

// ApplyFinish retires id. An absent id is a soft no-op, not an error, per
// spec (malformed files may double-finish).
func (d *Directory) ApplyFinish(id uint32) {
	if ei, ok := d.entries[id]; ok {
		ei.State = EntryFinished
	}
}

// ApplyMetadata updates id's metadata string. id must currently be Live.
func (d *Directory) ApplyMetadata(id uint32, metadata string) error {
	ei, ok := d.entries[id]
	if !ok || ei.State != EntryLive {
		return newEntryError(id, "SetMetadata for non-live entry")
	}
	ei.Metadata = metadata
	return nil
}

// Lookup returns id's current EntryInfo and whether it is present AND
// live. Data records for ids that are absent or not live must be skipped
// by the caller (recorded as a warning, per spec.md §4.3/§4.7).
func (d *Directory) Lookup(id uint32) (EntryInfo, bool) {
	ei, ok := d.entries[id]
	if !ok || ei.State != EntryLive {
		return EntryInfo{}, false
	}
	return *ei, true
}

// ControlRecord is the decoded form of a control-tagged Record's payload.
type ControlRecord struct {
	Tag      ControlTag
	EntryID  uint32
	Name     string
	Type     string
	Metadata string
}

// parseControlRecord decodes the control-record payload layouts from
// spec.md §3: Start carries name/type/metadata, Finish carries only an
// id, SetMetadata carries an id and metadata.
func parseControlRecord(payload []byte) (ControlRecord, error) {
	if len(payload) < 1 {
		return ControlRecord{}, newParseError(ControlEntryID, "", 1, len(payload), "empty control record payload")
	}
	tag := ControlTag(payload[0])
	body := payload[1:]

	switch tag {
	case TagStart:
		id, rest, err := readU32Prefixed(body)
		if err != nil {
			return ControlRecord{}, err
		}
		name, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return ControlRecord{}, err
		}
		typ, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return ControlRecord{}, err
		}
		metadata, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return ControlRecord{}, err
		}
		if len(rest) != 0 {
			return ControlRecord{}, newParseError(id, name, 0, len(rest), "trailing bytes after Start payload")
		}
		return ControlRecord{Tag: tag, EntryID: id, Name: name, Type: typ, Metadata: metadata}, nil

	case TagFinish:
		if len(body) != 4 {
			return ControlRecord{}, newParseError(ControlEntryID, "", 4, len(body), "malformed Finish payload")
		}
		id := uint32(readUintLE(body))
		return ControlRecord{Tag: tag, EntryID: id}, nil

	case TagSetMetadata:
		id, rest, err := readU32Prefixed(body)
		if err != nil {
			return ControlRecord{}, err
		}
		metadata, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return ControlRecord{}, err
		}
		if len(rest) != 0 {
			return ControlRecord{}, newParseError(id, "", 0, len(rest), "trailing bytes after SetMetadata payload")
		}
		return ControlRecord{Tag: tag, EntryID: id, Metadata: metadata}, nil

	default:
		return ControlRecord{}, newParseError(ControlEntryID, "", -1, -1, "unknown control tag 0x%02x", byte(tag))
	}
}

// readU32Prefixed consumes a 4-byte LE uint32 and returns it plus the
// remaining bytes.
func readU32Prefixed(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, newParseError(ControlEntryID, "", 4, len(b), "truncated control field")
	}
	return uint32(readUintLE(b[:4])), b[4:], nil
}

// readLenPrefixedString consumes a u32 LE length then that many UTF-8
// bytes, returning the string and the remaining bytes.
func readLenPrefixedString(b []byte) (string, []byte, error) {
	if len(b) < 4 {
		return "", nil, newParseError(ControlEntryID, "", 4, len(b), "truncated string length")
	}
	n := int(readUintLE(b[:4]))
	b = b[4:]
	if len(b) < n {
		return "", nil, newParseError(ControlEntryID, "", n, len(b), "truncated string body")
	}
	s := b[:n]
	if !utf8.Valid(s) {
		return "", nil, newUtf8Error(ControlEntryID, "", nil)
	}
	return string(s), b[n:], nil
}
