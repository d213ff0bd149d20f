package entry

import (
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/movestats"
	"github.com/lila-explorer/openingexplorer/internal/pack"
)

// MasterEntry is the master database's position record. The master
// corpus does not partition by rating band or time control, so a
// position needs only a single cell: MasterEntry is structurally a
// SubEntry, wire-compatible with movestats.Encode/Decode.
type MasterEntry = movestats.SubEntry

// NewMasterEntry returns an empty MasterEntry.
func NewMasterEntry() MasterEntry {
	return movestats.NewSubEntry()
}

// EncodeMaster serializes a MasterEntry with movestats' own codec: moves
// followed by the top-rated games, no block wrapper or cell key needed.
func EncodeMaster(e MasterEntry) []byte {
	return movestats.Encode(nil, e)
}

// DecodeMaster reads the format EncodeMaster writes.
func DecodeMaster(src []byte) (MasterEntry, error) {
	return movestats.Decode(src)
}

// InsertMaster is a free function mirroring Entry.InsertRef, since
// MasterEntry has no cell routing to do.
func InsertMaster(e *MasterEntry, ref gameref.Ref, move pack.MoveToken) {
	e.Insert(ref, move)
}
