package gameref_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
)

const idChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func genID(t *rapid.T) string {
	runes := make([]byte, 8)
	for i := range runes {
		runes[i] = idChars[rapid.IntRange(0, len(idChars)-1).Draw(t, "c")]
	}
	return string(runes)
}

func TestEncodeLengthIsEight(t *testing.T) {
	enc := gameref.Encode(gameref.Ref{GameID: "ref00000", Winner: gameref.WinnerWhite, Speed: ratingband.Bullet, AverageRating: 1999})
	require.Len(t, enc, 8)
}

func TestRoundtrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ref := gameref.Ref{
			GameID:        genID(rt),
			Winner:        gameref.Winner(rapid.IntRange(0, 2).Draw(rt, "winner")),
			Speed:         ratingband.SpeedBucket(rapid.IntRange(0, 3).Draw(rt, "speed")),
			AverageRating: uint16(rapid.IntRange(0, 4095).Draw(rt, "rating")),
		}
		enc := gameref.Encode(ref)
		got, err := gameref.Decode(enc[:])
		require.NoError(rt, err)
		require.Equal(rt, ref, got)
	})
}

func TestEncodeClampsRating(t *testing.T) {
	enc := gameref.Encode(gameref.Ref{GameID: "ref00000", Winner: gameref.WinnerDraw, Speed: ratingband.Blitz, AverageRating: 9000})
	got, err := gameref.Decode(enc[:])
	require.NoError(t, err)
	require.EqualValues(t, 4095, got.AverageRating)
}

func TestDecodeReservedWinnerIsDraw(t *testing.T) {
	enc := gameref.Encode(gameref.Ref{GameID: "ref00000", Winner: gameref.WinnerWhite, Speed: ratingband.Rapid, AverageRating: 1500})
	// Force the reserved winner value (3) into the header bits directly.
	raw := enc[:]
	raw[0] = raw[0] | 0x30
	got, err := gameref.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, gameref.WinnerDraw, got.Winner)
}

func TestDecodeShortInput(t *testing.T) {
	_, err := gameref.Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, apperr.ErrMalformed)
}
