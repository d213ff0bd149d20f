package query

import (
	"github.com/lila-explorer/openingexplorer/internal/entry"
	"github.com/lila-explorer/openingexplorer/internal/movestats"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// MasterProbe is the read-only dependency *store.MasterStore satisfies.
type MasterProbe interface {
	Get(key zobrist.Key) (entry.MasterEntry, bool, error)
}

// ProbeMaster reads the single-cell MasterEntry at key. The master
// database has no band/speed partitioning, so there is nothing to
// filter: maxMoves and maxTopGames/maxRecentGames still bound the
// response shape, taken straight off the one SubEntry. An absent
// position yields a zero Result.
func (e Engine) ProbeMaster(store MasterProbe, key zobrist.Key, maxMoves, topGames, recentGames int) (Result, error) {
	sub, found, err := store.Get(key)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, nil
	}
	return Result{
		Total:       sub.Total(),
		Moves:       movestats.RankedMoves(sub, maxMoves),
		TopGames:    movestats.SelectTopGames(sub.Games, clampNonNegative(topGames, 4)),
		RecentGames: truncateRefs(sub.Games, recentGames),
	}, nil
}
