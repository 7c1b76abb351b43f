package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter signals a search filter that fails validation.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrTransport signals a network-level failure reaching the upstream API.
	ErrTransport = errors.New("transport failure")
	// ErrRemote signals an error reported by the upstream API itself.
	ErrRemote = errors.New("remote api error")
	// ErrMalformedRecord signals a raw speech item that cannot be normalized.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrPersistence signals a history storage failure.
	ErrPersistence = errors.New("history persistence failure")
)

// TransportError wraps ErrTransport with the underlying network cause.
// Timeout marks failures caused by an expired search deadline.
type TransportError struct {
	Timeout bool
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: deadline exceeded: %v", ErrTransport.Error(), e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrTransport.Error(), e.Cause)
}

func (e *TransportError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Cause}
}

// NewTransport creates a transport error.
func NewTransport(cause error, timeout bool) error {
	return &TransportError{Timeout: timeout, Cause: cause}
}

// RemoteError wraps ErrRemote with the upstream HTTP status and a bounded
// excerpt of the response payload.
type RemoteError struct {
	StatusCode int
	Excerpt    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrRemote.Error(), e.StatusCode, e.Excerpt)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

// NewRemote creates a remote API error.
func NewRemote(statusCode int, excerpt string) error {
	return &RemoteError{StatusCode: statusCode, Excerpt: excerpt}
}

// MalformedRecordError wraps ErrMalformedRecord with the rejection reason.
type MalformedRecordError struct {
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedRecord.Error(), e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// NewMalformedRecord creates a malformed record error.
func NewMalformedRecord(reason string) error {
	return &MalformedRecordError{Reason: reason}
}

// PersistenceError wraps ErrPersistence with the failed storage operation.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}

// NewPersistence creates a history persistence error.
func NewPersistence(op string, cause error) error {
	return &PersistenceError{Op: op, Cause: cause}
}

// Stage identifies the search pipeline step an error occurred in.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StageAggregate Stage = "aggregate"
	StageRecord    Stage = "record"
)

// SearchError wraps a pipeline failure with the stage it occurred in.
type SearchError struct {
	Stage Stage
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed during %s: %v", e.Stage, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// NewSearchError creates a search pipeline error.
func NewSearchError(stage Stage, err error) error {
	return &SearchError{Stage: stage, Err: err}
}
