package domain

import "errors"

var (
	// ErrValidation signals rejected input. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStoreUnavailable signals that the backing store could not be
	// reached within the retry budget.
	ErrStoreUnavailable = errors.New("store unavailable")
)
