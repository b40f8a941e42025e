// Copyright (c) 2025 Neomantra Corp

package convert_test

import (
	"encoding/binary"
	"math"
)

// Minimal local copies of the root package's synthetic wpilog byte-buffer
// builders (wpilog_helpers_test.go), needed here because this package's
// tests exercise the public convert.File entry point against a real file
// on disk rather than in-memory Reader construction.

func leBytes(v uint64, width int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b[:width]
}

func buildRecord(entryID uint32, tsUs uint64, payload []byte) []byte {
	var out []byte
	out = append(out, 0x7f) // entry_len=4, size_len=4, ts_len=8
	out = append(out, leBytes(uint64(entryID), 4)...)
	out = append(out, leBytes(uint64(len(payload)), 4)...)
	out = append(out, leBytes(tsUs, 8)...)
	out = append(out, payload...)
	return out
}

func lenPrefixed(s string) []byte {
	out := leBytes(uint64(len(s)), 4)
	return append(out, []byte(s)...)
}

func controlStartPayload(id uint32, name, typ, metadata string) []byte {
	var p []byte
	p = append(p, 0x00)
	p = append(p, leBytes(uint64(id), 4)...)
	p = append(p, lenPrefixed(name)...)
	p = append(p, lenPrefixed(typ)...)
	p = append(p, lenPrefixed(metadata)...)
	return p
}

func buildFile(records ...[]byte) []byte {
	var out []byte
	out = append(out, []byte("WPILOG")...)
	out = append(out, leBytes(0x0100, 2)...)
	out = append(out, leBytes(0, 4)...)
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

func float64Bytes(f float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return b
}
