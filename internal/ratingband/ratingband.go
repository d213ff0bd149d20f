// Package ratingband partitions integer ratings into the fixed bands the
// store uses both to shard Entry cells and to filter queries, and
// classifies a lichess TimeControl string into a SpeedBucket.
//
// The band boundaries are a configuration constant, not a tunable: once a
// database file is written with one boundary set, it must be read with
// the same set for the lifetime of that file (spec Open Question 2).
package ratingband

import (
	"fmt"
	"strconv"
	"strings"
)

// Band identifies one of the canonical rating bands by its lower bound.
type Band uint16

// bounds are the lower bounds of the canonical, disjoint, half-open
// rating bands: [0,1000) [1000,1200) ... [2800,inf).
var bounds = []uint16{0, 1000, 1200, 1400, 1600, 1800, 2000, 2200, 2400, 2600, 2800}

// All returns every canonical band, ordered ascending by lower bound.
func All() []Band {
	out := make([]Band, len(bounds))
	for i, b := range bounds {
		out[i] = Band(b)
	}
	return out
}

// Of returns the band containing rating r. Of is monotonic in r and the
// returned bands exactly partition [0, inf).
func Of(r uint16) Band {
	band := Band(bounds[0])
	for _, b := range bounds {
		if r < b {
			break
		}
		band = Band(b)
	}
	return band
}

// String renders the band as its lower bound, e.g. "1600".
func (b Band) String() string {
	return strconv.Itoa(int(b))
}

// Parse looks up the canonical band whose lower bound equals s.
func Parse(s string) (Band, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("ratingband: parse %q: %w", s, err)
	}
	for _, b := range bounds {
		if int(b) == n {
			return Band(b), nil
		}
	}
	return 0, fmt.Errorf("ratingband: %q is not a canonical band lower bound", s)
}

// SpeedBucket is the time-control classification from spec §6.
type SpeedBucket uint8

const (
	Bullet SpeedBucket = iota
	Blitz
	Rapid
	Classical
)

func (s SpeedBucket) String() string {
	switch s {
	case Bullet:
		return "bullet"
	case Blitz:
		return "blitz"
	case Rapid:
		return "rapid"
	case Classical:
		return "classical"
	default:
		return "unknown"
	}
}

// AllSpeeds lists every speed bucket.
func AllSpeeds() []SpeedBucket {
	return []SpeedBucket{Bullet, Blitz, Rapid, Classical}
}

// ParseSpeed maps a speed name back to its bucket.
func ParseSpeed(s string) (SpeedBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullet":
		return Bullet, nil
	case "blitz":
		return Blitz, nil
	case "rapid":
		return Rapid, nil
	case "classical", "correspondence":
		return Classical, nil
	default:
		return 0, fmt.Errorf("ratingband: unknown speed %q", s)
	}
}

// ClassifySpeed buckets a PGN TimeControl string ("base+inc" in seconds)
// by estimated total game duration: base + 40*inc. A literal "-" or an
// unparsable string is classical, matching lichess's own "correspondence
// folds into classical" convention.
func ClassifySpeed(timeControl string) SpeedBucket {
	base, inc, ok := parseTimeControl(timeControl)
	if !ok {
		return Classical
	}
	estimate := base + 40*inc
	switch {
	case estimate <= 179:
		return Bullet
	case estimate <= 479:
		return Blitz
	case estimate <= 1499:
		return Rapid
	default:
		return Classical
	}
}

func parseTimeControl(tc string) (base, inc int, ok bool) {
	tc = strings.TrimSpace(tc)
	if tc == "" || tc == "-" {
		return 0, 0, false
	}
	parts := strings.SplitN(tc, "+", 2)
	base, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 2 {
		inc, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false
		}
	}
	return base, inc, true
}
