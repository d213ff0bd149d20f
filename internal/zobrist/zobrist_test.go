package zobrist_test

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

func TestStartingPositionIsDeterministic(t *testing.T) {
	table := zobrist.TableFor(zobrist.VariantStandard)
	a := table.Hash(chess.StartingPosition())
	b := table.Hash(chess.StartingPosition())
	require.Equal(t, a, b)
}

func TestTablesAreVariantSpecific(t *testing.T) {
	std := zobrist.TableFor(zobrist.VariantStandard)
	crazy := zobrist.TableFor(zobrist.VariantCrazyhouse)
	require.NotEqual(t, std.Hash(chess.StartingPosition()), crazy.Hash(chess.StartingPosition()))
}

func TestDifferentPositionsHashDifferently(t *testing.T) {
	table := zobrist.TableFor(zobrist.VariantStandard)
	start := chess.StartingPosition()

	game := chess.NewGame()
	require.NoError(t, game.PushMove("e4", nil))

	require.NotEqual(t, table.Hash(start), table.Hash(game.Position()))
}

func TestTurnAffectsHash(t *testing.T) {
	table := zobrist.TableFor(zobrist.VariantStandard)
	game := chess.NewGame()
	before := table.Hash(game.Position())
	require.NoError(t, game.PushMove("e4", nil))
	after := table.Hash(game.Position())
	require.NotEqual(t, before, after)
}
