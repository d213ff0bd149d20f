// Package zobrist derives the 128-bit position key the rest of the
// module uses as a store lookup key, folding a *chess.Position down to
// two independent 64-bit lanes (xor-table-of-random-values, the
// standard Zobrist construction) so the combined key's collision rate
// stays far below what either lane alone would give.
package zobrist

import (
	"math/rand"

	"github.com/corentings/chess/v2"
)

// Variant distinguishes the piece/drop universe a Table was built for.
// Each supported chess variant gets its own Table and, in turn, its own
// store: position keys are never compared across variants.
type Variant uint8

const (
	VariantStandard Variant = iota
	VariantChess960
	VariantFromPosition
	VariantKingOfTheHill
	VariantThreeCheck
	VariantAntichess
	VariantAtomic
	VariantHorde
	VariantRacingKings
	VariantCrazyhouse
)

// variantNames mirrors spec §6's `variant` enum exactly; these are also
// the on-disk `{name}.kct` file stems internal/store derives.
var variantNames = [...]string{
	VariantStandard:      "chess",
	VariantChess960:      "chess960",
	VariantFromPosition:  "fromPosition",
	VariantKingOfTheHill: "kingOfTheHill",
	VariantThreeCheck:    "threeCheck",
	VariantAntichess:     "antichess",
	VariantAtomic:        "atomic",
	VariantHorde:         "horde",
	VariantRacingKings:   "racingKings",
	VariantCrazyhouse:    "crazyhouse",
}

// String returns the wire/file name for v, per spec §6's variant enum.
func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// ParseVariant maps a spec §6 variant name back to its Variant value.
func ParseVariant(s string) (Variant, bool) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), true
		}
	}
	return 0, false
}

const (
	numSquares   = 64
	numColors    = 2
	numPieceType = 6 // pawn, knight, bishop, rook, queen, king
)

// Key is a 128-bit position hash: Hi and Lo are independently seeded so
// a collision in one lane almost never coincides with one in the other.
type Key struct {
	Hi, Lo uint64
}

// Table holds the random constants for one Variant. Tables are
// immutable after construction and safe for concurrent use.
type Table struct {
	piece   [numColors][numPieceType][numSquares][2]uint64
	castle  [4][2]uint64 // WOO, WOOO, BOO, BOOO
	ep      [numSquares][2]uint64
	turn    [2]uint64
	variant Variant
}

// NewTable builds the constant table for variant, seeded deterministically
// so every process derives identical keys for identical positions.
func NewTable(variant Variant) *Table {
	r := rand.New(rand.NewSource(int64(variant) + 1))
	t := &Table{variant: variant}
	for c := 0; c < numColors; c++ {
		for p := 0; p < numPieceType; p++ {
			for sq := 0; sq < numSquares; sq++ {
				t.piece[c][p][sq] = rand64pair(r)
			}
		}
	}
	for i := range t.castle {
		t.castle[i] = rand64pair(r)
	}
	for sq := range t.ep {
		t.ep[sq] = rand64pair(r)
	}
	t.turn[0] = 0
	t.turn[1] = rand64pair(r)[0]<<1 | 1 // distinct lane, never all-zero
	return t
}

func rand64pair(r *rand.Rand) [2]uint64 {
	hi := uint64(r.Int63())<<32 ^ uint64(r.Int63())
	lo := uint64(r.Int63())<<32 ^ uint64(r.Int63())
	return [2]uint64{hi, lo}
}

var standardTables = map[Variant]*Table{}

func init() {
	for v := range variantNames {
		variant := Variant(v)
		standardTables[variant] = NewTable(variant)
	}
}

// TableFor returns the package-wide singleton Table for variant.
func TableFor(variant Variant) *Table {
	return standardTables[variant]
}

// Hash folds pos into a Key, combining piece placement, side to move,
// castling rights, and the en passant target square.
func (t *Table) Hash(pos *chess.Position) Key {
	var hi, lo uint64
	board := pos.Board()
	for sq := 0; sq < numSquares; sq++ {
		p := board.Piece(chess.Square(sq))
		if p == chess.NoPiece {
			continue
		}
		c := colorIndex(p.Color())
		pt := pieceTypeIndex(p.Type())
		entry := t.piece[c][pt][sq]
		hi ^= entry[0]
		lo ^= entry[1]
	}

	if pos.Turn() == chess.Black {
		hi ^= t.turn[0]
		lo ^= t.turn[1]
	}

	rights := pos.CastleRights()
	if rights.CanCastle(chess.White, chess.KingSide) {
		hi ^= t.castle[0][0]
		lo ^= t.castle[0][1]
	}
	if rights.CanCastle(chess.White, chess.QueenSide) {
		hi ^= t.castle[1][0]
		lo ^= t.castle[1][1]
	}
	if rights.CanCastle(chess.Black, chess.KingSide) {
		hi ^= t.castle[2][0]
		lo ^= t.castle[2][1]
	}
	if rights.CanCastle(chess.Black, chess.QueenSide) {
		hi ^= t.castle[3][0]
		lo ^= t.castle[3][1]
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		entry := t.ep[ep]
		hi ^= entry[0]
		lo ^= entry[1]
	}

	return Key{Hi: hi, Lo: lo}
}

func colorIndex(c chess.Color) int {
	if c == chess.Black {
		return 1
	}
	return 0
}

func pieceTypeIndex(pt chess.PieceType) int {
	switch pt {
	case chess.Pawn:
		return 0
	case chess.Knight:
		return 1
	case chess.Bishop:
		return 2
	case chess.Rook:
		return 3
	case chess.Queen:
		return 4
	default:
		return 5 // King
	}
}
