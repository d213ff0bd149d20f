// Package query implements the read side: probing one position's Entry,
// aggregating it across a (ratingBands x speeds) filter, ranking moves,
// and selecting top/recent games. The engine is pure and stateless
// besides the store it's handed; it never mutates anything.
package query

import (
	"github.com/lila-explorer/openingexplorer/internal/entry"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/movestats"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// Filter narrows a Probe to a subset of bands/speeds and bounds how many
// moves/games come back.
type Filter struct {
	RatingBands []ratingband.Band
	Speeds      []ratingband.SpeedBucket
	TopGames    int
	RecentGames int
	MaxMoves    int
}

func (f Filter) bandSet() map[ratingband.Band]bool {
	out := make(map[ratingband.Band]bool, len(f.RatingBands))
	for _, b := range f.RatingBands {
		out[b] = true
	}
	return out
}

func (f Filter) speedSet() map[ratingband.SpeedBucket]bool {
	out := make(map[ratingband.SpeedBucket]bool, len(f.Speeds))
	for _, s := range f.Speeds {
		out[s] = true
	}
	return out
}

// Result is one probe's answer: the aggregated totals, ranked moves, and
// the two disjoint game-list selections.
type Result struct {
	Total       movestats.Stats
	Moves       []movestats.RankedMove
	TopGames    []gameref.Ref
	RecentGames []gameref.Ref
}

// PositionProbe is the read-only dependency a variant's PositionStore
// satisfies.
type PositionProbe interface {
	Get(key zobrist.Key) (entry.Entry, bool, error)
}

// Engine answers queries against a PositionProbe, given a hash table for
// the variant being queried.
type Engine struct {
	Table *zobrist.Table
}

// Probe reads the Entry at key and aggregates it under filter (spec
// §4.6 steps 1-5). An absent position yields a zero Result, not an
// error.
func (e Engine) Probe(store PositionProbe, key zobrist.Key, filter Filter) (Result, error) {
	ent, found, err := store.Get(key)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, nil
	}
	return aggregate(ent, filter), nil
}

// aggregate implements steps 2-5 against an already-fetched Entry.
func aggregate(ent entry.Entry, filter Filter) Result {
	bands := filter.bandSet()
	speeds := filter.speedSet()

	merged := movestats.NewSubEntry()
	for key, sub := range ent.Cells {
		if !bands[key.Band] || !speeds[key.Speed] {
			continue
		}
		merged = movestats.Merge(merged, sub)
	}

	res := Result{
		Total: merged.Total(),
		Moves: movestats.RankedMoves(merged, filter.MaxMoves),
	}
	res.RecentGames = truncateRefs(merged.Games, filter.RecentGames)
	res.TopGames = topGamesAcrossSpeeds(ent, filter)
	return res
}

// topGamesAcrossSpeeds implements step 4: candidates are pooled across
// every band for the requested speeds, ranked by averageRating, and
// only survive if the single highest-rated candidate's band is itself
// requested (Open Question 3: no nearest-band fallback).
func topGamesAcrossSpeeds(ent entry.Entry, filter Filter) []gameref.Ref {
	speeds := filter.speedSet()
	bands := filter.bandSet()

	var pool []gameref.Ref
	for key, sub := range ent.Cells {
		if !speeds[key.Speed] {
			continue
		}
		pool = append(pool, sub.Games...)
	}
	if len(pool) == 0 {
		return nil
	}

	top := movestats.SelectTopGames(pool, clampNonNegative(filter.TopGames, 4))
	if len(top) == 0 {
		return nil
	}
	if !bands[ratingband.Of(top[0].AverageRating)] {
		return nil
	}

	out := make([]gameref.Ref, 0, len(top))
	for _, ref := range top {
		if bands[ratingband.Of(ref.AverageRating)] {
			out = append(out, ref)
		}
	}
	return out
}

func truncateRefs(refs []gameref.Ref, max int) []gameref.Ref {
	if max < 0 || len(refs) <= max {
		return append([]gameref.Ref{}, refs...)
	}
	return append([]gameref.Ref{}, refs[:max]...)
}

func clampNonNegative(n, ceiling int) int {
	if n < 0 {
		return 0
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
