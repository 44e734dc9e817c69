package model

import (
	"errors"
	"strings"
)

// Error taxonomy shared by every layer. Handlers translate these into HTTP
// status codes.
var (
	ErrInvalidLanguage  = errors.New("invalid language")
	ErrIncompleteRecord = errors.New("incomplete contract record")
	ErrRenderFailure    = errors.New("render failure")
	ErrDispatchFailure  = errors.New("dispatch failure")
	ErrPersistence      = errors.New("persistence failure")
	ErrNotAuthorized    = errors.New("not authorized")

	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrDispatchInFlight = errors.New("dispatch already in flight")
)

// IncompleteRecordError lists the clause-required fields a contract is
// missing.
type IncompleteRecordError struct {
	Missing []string
}

func (e *IncompleteRecordError) Error() string {
	return ErrIncompleteRecord.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is match ErrIncompleteRecord.
func (e *IncompleteRecordError) Is(target error) bool {
	return target == ErrIncompleteRecord
}
