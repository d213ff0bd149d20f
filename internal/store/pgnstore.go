package store

const pgnFileName = "master-pgn.kct"

// PgnStore is `master-pgn.kct`: gameId -> raw PGN text, the record the
// master importer writes *first*, its insert-if-absent Store reserving
// the gameId before any ply is replayed (the same dedup convention
// GameInfoStore uses for Lichess). Its presence does not by itself imply
// that every ply of that game was indexed.
type PgnStore struct {
	inner *stringKeyedStore
}

// OpenPgnStore opens (creating if absent) master-pgn.kct under dir.
func OpenPgnStore(dir string, opt EnvOptions) (*PgnStore, error) {
	inner, err := openStringKeyedStore(joinPath(dir, pgnFileName), tblPgn, opt)
	if err != nil {
		return nil, err
	}
	return &PgnStore{inner: inner}, nil
}

func (s *PgnStore) Close() error { return s.inner.Close() }

// Store writes pgn under id only if id has never been seen before.
func (s *PgnStore) Store(id string, pgn string) (bool, error) {
	return s.inner.store(id, []byte(pgn))
}

// Get returns the PGN text for id, or ok=false if never recorded.
func (s *PgnStore) Get(id string) (string, bool, error) {
	raw, ok, err := s.inner.get(id)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(raw), true, nil
}

// Delete removes id's PGN record, part of the `/master/{id}` DELETE
// endpoint's cleanup.
func (s *PgnStore) Delete(id string) error {
	return s.inner.delete(id)
}
