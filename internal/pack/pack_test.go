package pack_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/pack"
)

func TestVaruintRoundtrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Uint64Range(0, 1<<48-1).Draw(rt, "x")
		buf := pack.PutVaruint(nil, x)
		got, rest, err := pack.Varuint(buf)
		require.NoError(rt, err)
		require.Empty(rt, rest)
		require.Equal(rt, x, got)
	})
}

func TestVaruintBoundaryValue(t *testing.T) {
	const x = uint64(864197252500)
	buf := pack.PutVaruint(nil, x)
	require.Len(t, buf, 7)
	for i := 0; i < len(buf)-1; i++ {
		require.NotZero(t, buf[i]&0x80, "continuation bit must be set on byte %d", i)
	}
	require.Zero(t, buf[len(buf)-1]&0x80, "high bit must be clear on final byte")

	got, rest, err := pack.Varuint(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, x, got)
}

func TestVaruintTruncated(t *testing.T) {
	buf := pack.PutVaruint(nil, 1<<20)
	_, _, err := pack.Varuint(buf[:1])
	require.ErrorIs(t, err, apperr.ErrTruncated)
}

func TestFixedWidthRoundtrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v16 := uint16(rapid.Uint32Range(0, 1<<16-1).Draw(rt, "v16"))
		b16, rest16, err := pack.Uint16(pack.PutUint16(nil, v16))
		require.NoError(rt, err)
		require.Empty(rt, rest16)
		require.Equal(rt, v16, b16)

		v24 := rapid.Uint32Range(0, 1<<24-1).Draw(rt, "v24")
		b24, rest24, err := pack.Uint24(pack.PutUint24(nil, v24))
		require.NoError(rt, err)
		require.Empty(rt, rest24)
		require.Equal(rt, v24, b24)

		v48 := rapid.Uint64Range(0, 1<<48-1).Draw(rt, "v48")
		b48, rest48, err := pack.Uint48(pack.PutUint48(nil, v48))
		require.NoError(rt, err)
		require.Empty(rt, rest48)
		require.Equal(rt, v48, b48)
	})
}

func TestMoveTokenRoundtripBoardMove(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		orig := uint8(rapid.IntRange(0, 63).Draw(rt, "orig"))
		dest := uint8(rapid.IntRange(0, 63).Draw(rt, "dest"))
		if orig == dest {
			dest = (dest + 1) % 64
		}
		role := uint8(rapid.SampledFrom([]int{0, 1, 2, 3, 4}).Draw(rt, "role"))
		word := pack.EncodeMoveToken(pack.MoveToken{Orig: orig, Dest: dest, Role: role})
		got, err := pack.DecodeMoveToken(word)
		require.NoError(rt, err)
		require.Equal(rt, orig, got.Orig)
		require.Equal(rt, dest, got.Dest)
		require.Equal(rt, role, got.Role)
		require.False(rt, got.IsDrop())
	})
}

func TestMoveTokenRoundtripDrop(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sq := uint8(rapid.IntRange(0, 63).Draw(rt, "sq"))
		role := uint8(rapid.IntRange(1, 6).Draw(rt, "role"))
		word := pack.EncodeMoveToken(pack.MoveToken{Orig: sq, Dest: sq, Role: role})
		got, err := pack.DecodeMoveToken(word)
		require.NoError(rt, err)
		require.True(rt, got.IsDrop())
		require.Equal(rt, sq, got.Orig)
		require.Equal(rt, sq, got.Dest)
		require.Equal(rt, role, got.Role)
	})
}

func TestMoveTokenKnownExample(t *testing.T) {
	// g1f3: orig=6 (g1), dest=21 (f3), role=0 (no promotion).
	word := pack.EncodeMoveToken(pack.MoveToken{Orig: 6, Dest: 21, Role: 0})
	got, err := pack.DecodeMoveToken(word)
	require.NoError(t, err)
	require.Equal(t, pack.MoveToken{Orig: 6, Dest: 21, Role: 0}, got)
}

func TestMoveTokenInvalidPromotionRole(t *testing.T) {
	word := pack.EncodeMoveToken(pack.MoveToken{Orig: 6, Dest: 21, Role: 5})
	_, err := pack.DecodeMoveToken(word)
	require.ErrorIs(t, err, apperr.ErrMalformed)
}

func TestMoveTokenInvalidDropRole(t *testing.T) {
	word := pack.EncodeMoveToken(pack.MoveToken{Orig: 10, Dest: 10, Role: 0})
	_, err := pack.DecodeMoveToken(word)
	require.ErrorIs(t, err, apperr.ErrMalformed)
}
