// Copyright (c) 2025 Neomantra Corp

package wpilog_test

import (
	"encoding/binary"
	"math"
)

// Test-only synthetic wpilog byte-buffer builders, used to construct the
// seed scenarios from spec.md §8 without a real logger.

func leBytes(v uint64, width int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b[:width]
}

func headerByte(entryLen, sizeLen, tsLen int) byte {
	return byte((entryLen-1)&0x3) | byte((sizeLen-1)&0x3)<<2 | byte((tsLen-1)&0x7)<<4
}

// buildRecordWidths frames a record with explicit field widths, for
// boundary-behavior coverage of every (entry_len, size_len, ts_len)
// combination.
func buildRecordWidths(entryLen, sizeLen, tsLen int, entryID uint32, tsUs uint64, payload []byte) []byte {
	var out []byte
	out = append(out, headerByte(entryLen, sizeLen, tsLen))
	out = append(out, leBytes(uint64(entryID), entryLen)...)
	out = append(out, leBytes(uint64(len(payload)), sizeLen)...)
	out = append(out, leBytes(tsUs, tsLen)...)
	out = append(out, payload...)
	return out
}

// buildRecord frames a record with a fixed, generously-wide header
// (4-byte entry id, 4-byte size, 8-byte timestamp) for scenarios that
// don't specifically exercise the width-packing boundary.
func buildRecord(entryID uint32, tsUs uint64, payload []byte) []byte {
	return buildRecordWidths(4, 4, 8, entryID, tsUs, payload)
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

func controlFinishPayload(id uint32) []byte {
	p := []byte{0x01}
	return append(p, leBytes(uint64(id), 4)...)
}

func controlSetMetadataPayload(id uint32, metadata string) []byte {
	var p []byte
	p = append(p, 0x02)
	p = append(p, leBytes(uint64(id), 4)...)
	p = append(p, lenPrefixed(metadata)...)
	return p
}

// buildFile assembles a full wpilog file: magic, version, an empty extra
// header, then the concatenation of pre-framed records.
func buildFile(records ...[]byte) []byte {
	var out []byte
	out = append(out, []byte("WPILOG")...)
	out = append(out, leBytes(0x0100, 2)...)
	out = append(out, leBytes(0, 4)...) // no extra header
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

func int64Bytes(i int64) []byte {
	return leBytes(uint64(i), 8)
}
