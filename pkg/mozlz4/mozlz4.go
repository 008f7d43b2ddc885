// Package mozlz4 reads and writes Mozilla's jsonlz4 container format, used
// by Firefox-derived browsers for session-store files.
//
// The container is an 8-byte magic header ("mozLz40\0"), a 4-byte
// little-endian uncompressed size, and a single raw LZ4 block. This is not
// the LZ4 frame format; the block carries no checksum and the size prefix
// is authoritative.
package mozlz4

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/pierrec/lz4/v4"
)

// Magic is the 8-byte header identifying a mozlz4 file.
const Magic = "mozLz40\x00"

const headerSize = len(Magic) + 4

// maxDecodedSize caps the size prefix honored during decode. Session
// stores are a few MiB at most; anything past this is a corrupt header.
const maxDecodedSize = 1 << 30

// Sentinel errors for codec failures.
var (
	// ErrMagic is returned when the 8-byte header is wrong.
	ErrMagic = errors.New("invalid mozlz4 magic header")

	// ErrTruncated is returned when the input ends before the size prefix.
	ErrTruncated = errors.New("truncated mozlz4 data")

	// ErrSize is returned when the size prefix is implausible or the
	// block does not decompress to exactly that many bytes.
	ErrSize = errors.New("mozlz4 size mismatch")
)

// Decode decompresses a mozlz4 container into its payload bytes.
func Decode(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, ErrMagic
	}

	size := binary.LittleEndian.Uint32(data[len(Magic):headerSize])
	if size == 0 {
		return []byte{}, nil
	}
	if size > maxDecodedSize {
		return nil, fmt.Errorf("%w: size prefix %d", ErrSize, size)
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[headerSize:], out)
	if err != nil {
		return nil, fmt.Errorf("decompress block: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("%w: header says %d bytes, block held %d", ErrSize, size, n)
	}
	return out, nil
}

// Encode compresses payload into a mozlz4 container.
func Encode(payload []byte) []byte {
	bound := lz4.CompressBlockBound(len(payload))
	block := make([]byte, bound)

	var c lz4.Compressor
	n, err := c.CompressBlock(payload, block)
	if err != nil || n == 0 {
		// Incompressible input still needs a valid block: emit it as a
		// single literal run.
		n = literalBlock(payload, block)
	}

	out := make([]byte, 0, headerSize+n)
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, block[:n]...)
	return out
}

// literalBlock writes src into dst as one LZ4 sequence of literals with no
// match, returning the block length. dst must be at least
// CompressBlockBound(len(src)) bytes.
func literalBlock(src, dst []byte) int {
	di := 0
	if n := len(src); n < 15 {
		dst[di] = byte(n) << 4
		di++
	} else {
		dst[di] = 0xF0
		di++
		for rem := n - 15; ; rem -= 255 {
			if rem < 255 {
				dst[di] = byte(rem)
				di++
				break
			}
			dst[di] = 0xFF
			di++
		}
	}
	return di + copy(dst[di:], src)
}

// ReadFile reads and decodes a mozlz4 file.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	payload, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return payload, nil
}

// WriteFile encodes payload and writes it to path, replacing any existing
// file.
func WriteFile(path string, payload []byte) error {
	return os.WriteFile(path, Encode(payload), 0o644)
}
