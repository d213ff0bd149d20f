package pack

import (
	"fmt"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// PutVaruint appends x as a variable-length unsigned integer: 7 payload
// bits per byte, high bit set on every byte but the last. The encoding
// is minimal - no byte carries a zero continuation bit except the last.
func PutVaruint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// Varuint decodes a varuint from the front of src, tolerating values up
// to 64 bits. Returns the value and the remaining bytes.
func Varuint(src []byte) (uint64, []byte, error) {
	var x uint64
	var shift uint
	for i := 0; i < len(src); i++ {
		b := src[i]
		if shift >= 64 {
			return 0, nil, fmt.Errorf("pack: varuint overflow: %w", apperr.ErrMalformed)
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return x, src[i+1:], nil
		}
		shift += 7
	}
	return 0, nil, fmt.Errorf("pack: varuint: %w", apperr.ErrTruncated)
}
