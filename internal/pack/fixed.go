// Package pack holds the primitive codecs every on-disk structure in the
// explorer builds on: fixed-width big-endian integers, a variable-length
// unsigned integer, and the 16-bit move-token encoding. All functions are
// free functions over []byte, not methods on a codec type, so the two
// record packers (master, lichess) can share them without inheritance.
package pack

import (
	"encoding/binary"
	"fmt"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// PutUint8 appends a single byte.
func PutUint8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// Uint8 reads one byte from the front of src.
func Uint8(src []byte) (uint8, []byte, error) {
	if len(src) < 1 {
		return 0, nil, fmt.Errorf("pack: reading uint8: %w", apperr.ErrTruncated)
	}
	return src[0], src[1:], nil
}

// PutUint16 appends a big-endian uint16.
func PutUint16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// Uint16 reads a big-endian uint16 from the front of src.
func Uint16(src []byte) (uint16, []byte, error) {
	if len(src) < 2 {
		return 0, nil, fmt.Errorf("pack: reading uint16: %w", apperr.ErrTruncated)
	}
	return binary.BigEndian.Uint16(src), src[2:], nil
}

// PutUint24 appends the low 24 bits of v, big-endian.
func PutUint24(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>16), byte(v>>8), byte(v))
}

// Uint24 reads a big-endian 24-bit unsigned integer.
func Uint24(src []byte) (uint32, []byte, error) {
	if len(src) < 3 {
		return 0, nil, fmt.Errorf("pack: reading uint24: %w", apperr.ErrTruncated)
	}
	v := uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
	return v, src[3:], nil
}

// PutUint32 appends a big-endian uint32.
func PutUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// Uint32 reads a big-endian uint32 from the front of src.
func Uint32(src []byte) (uint32, []byte, error) {
	if len(src) < 4 {
		return 0, nil, fmt.Errorf("pack: reading uint32: %w", apperr.ErrTruncated)
	}
	return binary.BigEndian.Uint32(src), src[4:], nil
}

// PutUint48 appends the low 48 bits of v, big-endian.
func PutUint48(dst []byte, v uint64) []byte {
	var buf [6]byte
	buf[0] = byte(v >> 40)
	buf[1] = byte(v >> 32)
	buf[2] = byte(v >> 24)
	buf[3] = byte(v >> 16)
	buf[4] = byte(v >> 8)
	buf[5] = byte(v)
	return append(dst, buf[:]...)
}

// Uint48 reads a big-endian 48-bit unsigned integer.
func Uint48(src []byte) (uint64, []byte, error) {
	if len(src) < 6 {
		return 0, nil, fmt.Errorf("pack: reading uint48: %w", apperr.ErrTruncated)
	}
	v := uint64(src[0])<<40 | uint64(src[1])<<32 | uint64(src[2])<<24 |
		uint64(src[3])<<16 | uint64(src[4])<<8 | uint64(src[5])
	return v, src[6:], nil
}
