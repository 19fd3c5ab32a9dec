package docdex

import "github.com/kailas-cloud/docdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)
