package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrMalformedMarkup marks a source file that cannot be parsed into a
	// content tree. The file is skipped for the current batch and stays
	// eligible for a future run.
	ErrMalformedMarkup = errors.New("malformed markup")

	// ErrEmptyDocument marks a document whose flattened text is empty.
	// Skipped, never fatal.
	ErrEmptyDocument = errors.New("empty document")

	// ErrAlignment marks an entity span referencing a token index outside
	// the document's token sequence. Fatal for the run: it signals a
	// projection or merge defect, not bad input.
	ErrAlignment = errors.New("span/token alignment inconsistency")

	// ErrDuplicatePath marks an append for a source path already in the
	// corpus. Fatal: correct resumability filtering never triggers it.
	ErrDuplicatePath = errors.New("duplicate source path")

	// ErrPersistence marks a storage-layer failure. The batch aborts and
	// the prior persisted state stays authoritative.
	ErrPersistence = errors.New("store unavailable")

	ErrInvalidConfig = errors.New("invalid configuration")
)
