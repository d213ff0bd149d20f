package store

import "github.com/erigontech/mdbx-go/mdbx"

// Table names. Every environment in this module is created with all of
// these tables (ensureTables opens each entry of tableCfg), but each
// store reads and writes only its own one: splitting concerns across
// environments (position / gameInfo / pgn) keeps each file's page cache
// and growth policy independently tunable.
const (
	tblPositions = "positions"
	tblGameInfo  = "gameInfo"
	tblPgn       = "pgn"
)

// tableCfgItem is a declarative record of the flags a table is opened
// with, kept separate from the code that opens it so the on-disk
// layout is documented in one place.
type tableCfgItem struct {
	flags mdbx.DBFlags
}

// tableCfg is every table this package opens, alongside the flags it
// is opened with. None of our tables are dup-sorted: every key maps to
// exactly one value record.
var tableCfg = map[string]tableCfgItem{
	tblPositions: {flags: mdbx.Create},
	tblGameInfo:  {flags: mdbx.Create},
	tblPgn:       {flags: mdbx.Create},
}
