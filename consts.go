// Copyright (c) 2025 Neomantra Corp
//
// wpilog is WPILib's append-only binary telemetry format.
//
// Layout reference:
//   https://github.com/wpilibsuite/allwpilib/blob/main/wpiutil/doc/datalog.adoc
//

package wpilog

// FileMagic is the fixed 6-byte prefix of every wpilog file.
const FileMagic = "WPILOG"

// SupportedVersion is the only wpilog wire version this decoder understands.
const SupportedVersion uint16 = 0x0100

// ControlEntryID is the reserved entry id used for control records.
const ControlEntryID uint32 = 0

// ControlTag identifies the kind of control record.
type ControlTag uint8

const (
	// TagStart introduces a new live entry.
	TagStart ControlTag = 0x00
	// TagFinish retires an entry; its id may be reused afterward.
	TagFinish ControlTag = 0x01
	// TagSetMetadata updates the metadata string of a live entry.
	TagSetMetadata ControlTag = 0x02
)

func (t ControlTag) String() string {
	switch t {
	case TagStart:
		return "Start"
	case TagFinish:
		return "Finish"
	case TagSetMetadata:
		return "SetMetadata"
	default:
		return "Unknown"
	}
}

// Recognized type strings. Anything else falls back to the raw-bytes decoder.
const (
	TypeBoolean      = "boolean"
	TypeInt64        = "int64"
	TypeFloat        = "float"
	TypeDouble       = "double"
	TypeString       = "string"
	TypeBooleanArray = "boolean[]"
	TypeInt64Array   = "int64[]"
	TypeFloatArray   = "float[]"
	TypeDoubleArray  = "double[]"
	TypeStringArray  = "string[]"
	TypeJSON         = "json"
	TypeMsgPack      = "msgpack"
	TypeRaw          = "raw"
)

// StructSchemaPrefix and StructPrefix introduce the two user-defined-struct
// type string families: "structschema:<TypeName>" carries the schema text
// itself, "struct:<TypeName>" carries struct-encoded payloads.
const (
	StructSchemaPrefix = "structschema:"
	StructPrefix       = "struct:"
)

// EntryState is a node in the per-entry control-record state machine:
// Unknown -> Live -> Finished -> Live -> ... (on id reuse).
type EntryState uint8

const (
	EntryUnknown EntryState = iota
	EntryLive
	EntryFinished
)

func (s EntryState) String() string {
	switch s {
	case EntryUnknown:
		return "Unknown"
	case EntryLive:
		return "Live"
	case EntryFinished:
		return "Finished"
	default:
		return "Invalid"
	}
}
