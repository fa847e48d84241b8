package domain

import "errors"

var (
	// ErrMalformedResponse means the inference backend returned something
	// that could not be parsed as the expected JSON envelope. The document
	// and conversation are left untouched; the caller shows a retry message.
	ErrMalformedResponse = errors.New("assistant response is not valid JSON")

	// ErrInvalidPatch means an updates fragment did not fit the document
	// schema. The document is left untouched.
	ErrInvalidPatch = errors.New("patch does not match document schema")

	// ErrSyncFailure means a remote push or pull failed. The engine stays
	// dirty and retries on the next mutation-triggered debounce.
	ErrSyncFailure = errors.New("remote sync failed")

	// ErrOwnershipConflict means a cached document belongs to a different
	// user than the one currently authenticated.
	ErrOwnershipConflict = errors.New("document owned by another user")

	// ErrCorruptLocalCache means the local cache payload failed to
	// deserialize. Recovered by falling back to the default document.
	ErrCorruptLocalCache = errors.New("local cache is corrupt")

	// ErrQuotaExceeded means the user hit the daily assistant message limit.
	ErrQuotaExceeded = errors.New("daily message quota exceeded")

	// ErrNotFound means no remote record matched the query.
	ErrNotFound = errors.New("document not found")
)
