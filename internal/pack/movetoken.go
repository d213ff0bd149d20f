package pack

import (
	"fmt"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// MoveToken is the 16-bit wire encoding of a board move or a Crazyhouse
// piece drop: [role(4) | dest(6) | orig(6)], big-endian. A drop is
// distinguished from a board move by Orig == Dest.
type MoveToken struct {
	Orig uint8 // 0..63
	Dest uint8 // 0..63
	Role uint8 // 0 = no promotion; 1..4 promotion role; 1..6 drop role when Orig==Dest
}

// IsDrop reports whether t encodes a Crazyhouse piece drop.
func (t MoveToken) IsDrop() bool {
	return t.Orig == t.Dest
}

// EncodeMoveToken packs t into its 16-bit wire form. Callers are expected
// to have validated t already (see DecodeMoveToken for the checks this
// mirrors); EncodeMoveToken itself does not re-validate.
func EncodeMoveToken(t MoveToken) uint16 {
	return uint16(t.Role&0xF)<<12 | uint16(t.Dest&0x3F)<<6 | uint16(t.Orig&0x3F)
}

// PutMoveToken appends the big-endian 16-bit encoding of t.
func PutMoveToken(dst []byte, t MoveToken) []byte {
	return PutUint16(dst, EncodeMoveToken(t))
}

// DecodeMoveToken unpacks a raw 16-bit word, validating role/orig/dest
// against the drop-vs-promotion rules in the move-token format.
func DecodeMoveToken(word uint16) (MoveToken, error) {
	t := MoveToken{
		Role: uint8(word>>12) & 0xF,
		Dest: uint8(word>>6) & 0x3F,
		Orig: uint8(word) & 0x3F,
	}
	if t.IsDrop() {
		if t.Role < 1 || t.Role > 6 {
			return MoveToken{}, fmt.Errorf("pack: drop role %d out of range: %w", t.Role, apperr.ErrMalformed)
		}
		return t, nil
	}
	if t.Role > 4 {
		return MoveToken{}, fmt.Errorf("pack: promotion role %d out of range: %w", t.Role, apperr.ErrMalformed)
	}
	return t, nil
}

// MoveTokenWord reads a big-endian move token word from the front of src.
func MoveTokenWord(src []byte) (uint16, []byte, error) {
	return Uint16(src)
}
