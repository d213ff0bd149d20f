// Package gameref encodes the identity of a single indexed game into the
// fixed 8-byte record the rest of the store carries around by value.
package gameref

import (
	"fmt"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
)

// Winner is the game outcome as seen from the stored 2-bit field.
type Winner uint8

const (
	WinnerDraw Winner = iota
	WinnerBlack
	WinnerWhite
	winnerReserved
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const idLen = 8
const idBase = uint64(len(idAlphabet))

// Ref is the 8-byte identity of one indexed game:
//
//	bits 15..14 : speed
//	bits 13..12 : winner
//	bits 11..0  : averageRating, clamped to [0, 4095]
//	bits 47..0  : gameId, base-62 over idAlphabet
type Ref struct {
	GameID        string
	Winner        Winner
	Speed         ratingband.SpeedBucket
	AverageRating uint16
}

// Encode packs r into exactly 8 bytes. A rating above 4095 is clamped.
func Encode(r Ref) [8]byte {
	rating := r.AverageRating
	if rating > 4095 {
		rating = 4095
	}
	header := uint16(r.Speed&0x3)<<14 | uint16(r.Winner&0x3)<<12 | rating&0x0FFF

	var out [8]byte
	buf := pack.PutUint16(out[:0], header)
	buf = pack.PutUint48(buf, encodeID(r.GameID))
	copy(out[:], buf)
	return out
}

// Decode unpacks an 8-byte wire record. A reserved winner value (3)
// decodes as a draw.
func Decode(raw []byte) (Ref, error) {
	if len(raw) != 8 {
		return Ref{}, fmt.Errorf("gameref: want 8 bytes, got %d: %w", len(raw), apperr.ErrMalformed)
	}
	header, rest, err := pack.Uint16(raw)
	if err != nil {
		return Ref{}, err
	}
	id, _, err := pack.Uint48(rest)
	if err != nil {
		return Ref{}, err
	}

	speed := ratingband.SpeedBucket(header >> 14 & 0x3)
	winner := Winner(header >> 12 & 0x3)
	if winner == winnerReserved {
		winner = WinnerDraw
	}
	rating := header & 0x0FFF

	return Ref{
		GameID:        decodeID(id),
		Winner:        winner,
		Speed:         speed,
		AverageRating: rating,
	}, nil
}

func encodeID(id string) uint64 {
	var v uint64
	for i := 0; i < len(id); i++ {
		idx := indexOf(id[i])
		v = v*idBase + uint64(idx)
	}
	return v
}

func decodeID(v uint64) string {
	var buf [idLen]byte
	for i := idLen - 1; i >= 0; i-- {
		buf[i] = idAlphabet[v%idBase]
		v /= idBase
	}
	return string(buf[:])
}

func indexOf(c byte) int {
	for i := 0; i < len(idAlphabet); i++ {
		if idAlphabet[i] == c {
			return i
		}
	}
	return 0
}
