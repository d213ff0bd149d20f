package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// compress LZMA-encodes plain, used for every gameInfo.kct/master-pgn.kct
// value: both stores hold small strings (a pipe-separated info line, or
// PGN text) where libmdbx's own page compression would gain nothing, but
// LZMA's dictionary model shrinks cross-game boilerplate noticeably.
func compress(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("store: lzma writer: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("store: lzma write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("store: lzma close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(raw []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("store: lzma reader: %w: %w", err, apperr.ErrMalformed)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: lzma read: %w: %w", err, apperr.ErrMalformed)
	}
	return out, nil
}
