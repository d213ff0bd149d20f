package ratingband_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/ratingband"
)

func TestOfMonotonic(t *testing.T) {
	prev := ratingband.Of(0)
	for r := uint16(1); r < 4096; r++ {
		b := ratingband.Of(r)
		require.GreaterOrEqual(t, b, prev)
		prev = b
	}
}

func TestOfPartition(t *testing.T) {
	require.Equal(t, ratingband.Band(0), ratingband.Of(0))
	require.Equal(t, ratingband.Band(0), ratingband.Of(999))
	require.Equal(t, ratingband.Band(1000), ratingband.Of(1000))
	require.Equal(t, ratingband.Band(2800), ratingband.Of(2800))
	require.Equal(t, ratingband.Band(2800), ratingband.Of(4095))
}

func TestClassifySpeed(t *testing.T) {
	require.Equal(t, ratingband.Bullet, ratingband.ClassifySpeed("60+1"))
	require.Equal(t, ratingband.Blitz, ratingband.ClassifySpeed("180+0"))
	require.Equal(t, ratingband.Classical, ratingband.ClassifySpeed("600+0"))
	require.Equal(t, ratingband.Classical, ratingband.ClassifySpeed("-"))
	require.Equal(t, ratingband.Classical, ratingband.ClassifySpeed(""))
}

func TestClassifySpeedBoundaries(t *testing.T) {
	require.Equal(t, ratingband.Bullet, ratingband.ClassifySpeed("179+0"))
	require.Equal(t, ratingband.Blitz, ratingband.ClassifySpeed("180+0"))
	require.Equal(t, ratingband.Blitz, ratingband.ClassifySpeed("479+0"))
	require.Equal(t, ratingband.Rapid, ratingband.ClassifySpeed("480+0"))
	require.Equal(t, ratingband.Rapid, ratingband.ClassifySpeed("1499+0"))
	require.Equal(t, ratingband.Classical, ratingband.ClassifySpeed("1500+0"))
}

func TestParseBandRoundtrip(t *testing.T) {
	for _, b := range ratingband.All() {
		got, err := ratingband.Parse(b.String())
		require.NoError(t, err)
		require.Equal(t, b, got)
	}
}
