package httpapi

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

const (
	defaultMoves        = 12
	minMoves            = 1
	maxMovesParam       = 20
	defaultTopGames     = 4
	maxTopGamesParam    = 4
	defaultRecentGames  = 10
	maxRecentGamesParam = 10
	masterRecentGames   = 2 // fixed; /master does not expose a recentGames filter
)

func requiredFEN(q url.Values) (string, error) {
	fen := q.Get("fen")
	if fen == "" {
		return "", fmt.Errorf("httpapi: missing required \"fen\" parameter: %w", apperr.ErrValidation)
	}
	return fen, nil
}

func intParam(q url.Values, name string, def, min, max int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("httpapi: %q must be an integer: %w", name, apperr.ErrValidation)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("httpapi: %q must be in [%d, %d]: %w", name, min, max, apperr.ErrValidation)
	}
	return n, nil
}

func speedsParam(q url.Values) ([]ratingband.SpeedBucket, error) {
	raw := q["speeds[]"]
	if len(raw) == 0 {
		return ratingband.AllSpeeds(), nil
	}
	out := make([]ratingband.SpeedBucket, 0, len(raw))
	for _, s := range raw {
		speed, err := ratingband.ParseSpeed(s)
		if err != nil {
			return nil, fmt.Errorf("httpapi: %w: %w", err, apperr.ErrValidation)
		}
		out = append(out, speed)
	}
	return out, nil
}

func ratingsParam(q url.Values) ([]ratingband.Band, error) {
	raw := q["ratings[]"]
	if len(raw) == 0 {
		return ratingband.All(), nil
	}
	out := make([]ratingband.Band, 0, len(raw))
	for _, s := range raw {
		band, err := ratingband.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("httpapi: %w: %w", err, apperr.ErrValidation)
		}
		out = append(out, band)
	}
	return out, nil
}

func variantParam(q url.Values) (zobrist.Variant, error) {
	raw := q.Get("variant")
	if raw == "" {
		return zobrist.VariantStandard, nil
	}
	variant, ok := zobrist.ParseVariant(raw)
	if !ok {
		return 0, fmt.Errorf("httpapi: unknown variant %q: %w", raw, apperr.ErrValidation)
	}
	return variant, nil
}
