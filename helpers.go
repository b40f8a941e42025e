// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"bytes"
	"time"
)

// TrimNullBytes removes trailing NUL bytes from b and returns a string.
// NUL bytes followed by other bytes are kept; the struct unpacker's
// `char[N]` decoding instead cuts the string at the first NUL.
func TrimNullBytes(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// TimestampUsToTime converts a wpilog microsecond timestamp to a time.Time,
// for callers formatting rows or entry metadata for display. The wpilog
// clock has no defined epoch; callers should treat the result as relative,
// not wall-clock, unless they know the logger's epoch out of band.
func TimestampUsToTime(tsUs uint64) time.Time {
	secs := int64(tsUs / 1_000_000)
	nanos := int64(tsUs%1_000_000) * 1000
	return time.Unix(secs, nanos)
}

// TimestampUsToSeconds converts a wpilog microsecond timestamp to the
// floating-point seconds value used by WideRow.Timestamp.
func TimestampUsToSeconds(tsUs uint64) float64 {
	return float64(tsUs) / 1_000_000.0
}
