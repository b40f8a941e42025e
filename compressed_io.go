// Copyright (c) 2025 Neomantra Corp
// Compressed input helper for wpilog files.
//
// Adapted from Neomantra's Gist:
// https://gist.github.com/neomantra/691a6028cdf2ac3fc6ec97d00e8ea802
//

package wpilog

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

///////////////////////////////////////////////////////////////////////////////

// MakeCompressedReader returns an io.Reader for filename, or os.Stdin if
// filename is "-". If filename ends in ".zst"/".zstd", or useZstd is true,
// the reader transparently zstd-decompresses the input. The caller must
// close the returned io.Closer (which may be nil for stdin).
func MakeCompressedReader(filename string, useZstd bool) (io.Reader, io.Closer, error) {
	var reader io.Reader
	var closer io.Closer

	if filename != "-" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, nil, &Error{Kind: KindIo, Msg: "opening wpilog input", Offset: -1, Expected: -1, Actual: -1, Wrapped: err}
		}
		reader, closer = file, file
	} else {
		reader = os.Stdin
	}

	if useZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zr, err := zstd.NewReader(reader)
		if err != nil {
			if closer != nil {
				closer.Close()
			}
			return nil, nil, &Error{Kind: KindIo, Msg: "opening zstd stream", Offset: -1, Expected: -1, Actual: -1, Wrapped: err}
		}
		return zr, closer, nil
	}
	return reader, closer, nil
}

///////////////////////////////////////////////////////////////////////////////

// FromCompressedFile reads filename (optionally zstd-compressed, per
// MakeCompressedReader's suffix/flag rule) fully into memory and validates
// it as a wpilog file, exactly as FromFile does for uncompressed input.
// This is ambient transport only: the decoded bytes are still exactly the
// wpilog wire format, never a new on-disk representation.
func FromCompressedFile(filename string, useZstd bool) (*Reader, error) {
	reader, closer, err := MakeCompressedReader(filename, useZstd)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, &Error{Kind: KindIo, Msg: "reading wpilog stream", Offset: -1, Expected: -1, Actual: -1, Wrapped: err}
	}
	return FromBytes(buf)
}
