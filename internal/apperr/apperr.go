// Package apperr defines the sentinel error kinds shared by the whole
// explorer core. Every package returns one of these, wrapped with
// fmt.Errorf("%w: ...") for context; there is no other exception channel.
package apperr

import "errors"

var (
	// ErrValidation marks a malformed FEN, unknown variant, or filter
	// value out of range. Callers at the HTTP boundary map it to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing game id (PGN or GameInfo lookup).
	// Callers at the HTTP boundary map it to 404.
	ErrNotFound = errors.New("not found")

	// ErrMalformed marks a corrupted on-disk value that failed to
	// decode. Fatal for the single record; other records stay queryable.
	ErrMalformed = errors.New("malformed record")

	// ErrTruncated marks a short read while decoding an on-disk value.
	ErrTruncated = errors.New("truncated record")

	// ErrImportReject marks a business-rule rejection during import
	// (rating below threshold, duplicate id, invalid initial position,
	// unparsable PGN). Logged at warn level; the batch continues.
	ErrImportReject = errors.New("import rejected")

	// ErrStoreIO marks a disk/storage-engine error. Import batches abort
	// on the first one; the remaining PGNs are not processed.
	ErrStoreIO = errors.New("store io error")
)

// Is reports whether err (or any error it wraps) matches kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
