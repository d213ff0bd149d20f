// Package movestats holds the per-move aggregate counters (MoveStats) and
// the per-cell container that indexes them by move token (SubEntry).
package movestats

import (
	"sort"

	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
)

// Stats is the {white, draws, black, ratingSum} counter set for one move.
type Stats struct {
	White     uint64
	Draws     uint64
	Black     uint64
	RatingSum uint64
}

// Total returns the number of games counted in s.
func (s Stats) Total() uint64 {
	return s.White + s.Draws + s.Black
}

// IsZero reports whether s has no games at all.
func (s Stats) IsZero() bool {
	return s.Total() == 0
}

// WithGame returns s incremented for a game that reached this move via ref.
func (s Stats) WithGame(ref gameref.Ref) Stats {
	switch ref.Winner {
	case gameref.WinnerWhite:
		s.White++
	case gameref.WinnerBlack:
		s.Black++
	default:
		s.Draws++
	}
	s.RatingSum += uint64(ref.AverageRating)
	return s
}

// WithoutGame reverses WithGame symmetrically.
func (s Stats) WithoutGame(ref gameref.Ref) Stats {
	switch ref.Winner {
	case gameref.WinnerWhite:
		if s.White > 0 {
			s.White--
		}
	case gameref.WinnerBlack:
		if s.Black > 0 {
			s.Black--
		}
	default:
		if s.Draws > 0 {
			s.Draws--
		}
	}
	if s.RatingSum >= uint64(ref.AverageRating) {
		s.RatingSum -= uint64(ref.AverageRating)
	} else {
		s.RatingSum = 0
	}
	return s
}

// Add sums two Stats (the semigroup used by Query's cross-cell aggregation).
func Add(a, b Stats) Stats {
	return Stats{
		White:     a.White + b.White,
		Draws:     a.Draws + b.Draws,
		Black:     a.Black + b.Black,
		RatingSum: a.RatingSum + b.RatingSum,
	}
}

// AverageRating returns the rating sum divided by the game count, or 0
// for an empty Stats.
func (s Stats) AverageRating() uint16 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return uint16(s.RatingSum / total)
}

// SubEntry is a dense map from move token to its Stats, plus the
// time-ordered (newest-first) list of games that reached this cell.
type SubEntry struct {
	Moves map[pack.MoveToken]Stats
	Games []gameref.Ref
}

// NewSubEntry returns an empty SubEntry.
func NewSubEntry() SubEntry {
	return SubEntry{Moves: make(map[pack.MoveToken]Stats)}
}

// Total sums the counters across every move in e.
func (e SubEntry) Total() Stats {
	var out Stats
	for _, s := range e.Moves {
		out = Add(out, s)
	}
	return out
}

// Insert updates moves[move] (creating it if absent) and prepends ref to
// the recent-games list.
func (e *SubEntry) Insert(ref gameref.Ref, move pack.MoveToken) {
	if e.Moves == nil {
		e.Moves = make(map[pack.MoveToken]Stats)
	}
	e.Moves[move] = e.Moves[move].WithGame(ref)
	e.Games = append([]gameref.Ref{ref}, e.Games...)
}

// Remove reverses Insert: decrements the move's counters (removing it if
// it falls to zero) and removes ref's gameId from the games list.
func (e *SubEntry) Remove(ref gameref.Ref, move pack.MoveToken) {
	if e.Moves != nil {
		s := e.Moves[move].WithoutGame(ref)
		if s.IsZero() {
			delete(e.Moves, move)
		} else {
			e.Moves[move] = s
		}
	}
	filtered := e.Games[:0]
	removed := false
	for _, g := range e.Games {
		if !removed && g.GameID == ref.GameID {
			removed = true
			continue
		}
		filtered = append(filtered, g)
	}
	e.Games = filtered
}

// IsEmpty reports whether e has no games recorded at all.
func (e SubEntry) IsEmpty() bool {
	return e.Total().IsZero()
}

// Merge sums a and b's move tables and concatenates their game
// lists (used to aggregate several Entry cells during a query).
func Merge(a, b SubEntry) SubEntry {
	out := NewSubEntry()
	for move, s := range a.Moves {
		out.Moves[move] = Add(out.Moves[move], s)
	}
	for move, s := range b.Moves {
		out.Moves[move] = Add(out.Moves[move], s)
	}
	out.Games = append(append([]gameref.Ref{}, a.Games...), b.Games...)
	return out
}

// RankedMove is one entry of a move leaderboard.
type RankedMove struct {
	Move  pack.MoveToken
	Stats Stats
}

// RankedMoves returns e's moves sorted by total descending, dropping any
// move whose total is zero, truncated to max entries.
func RankedMoves(e SubEntry, max int) []RankedMove {
	out := make([]RankedMove, 0, len(e.Moves))
	for move, s := range e.Moves {
		if s.IsZero() {
			continue
		}
		out = append(out, RankedMove{Move: move, Stats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Stats.Total(), out[j].Stats.Total()
		if ti != tj {
			return ti > tj
		}
		return pack.EncodeMoveToken(out[i].Move) < pack.EncodeMoveToken(out[j].Move)
	})
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
