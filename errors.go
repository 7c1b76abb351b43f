package gijidex

import "github.com/kailas-cloud/gijidex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidFilter   = domain.ErrInvalidFilter
	ErrTransport       = domain.ErrTransport
	ErrRemote          = domain.ErrRemote
	ErrMalformedRecord = domain.ErrMalformedRecord
	ErrPersistence     = domain.ErrPersistence
)
