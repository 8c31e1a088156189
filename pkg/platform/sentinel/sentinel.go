package sentinel

import "errors"

// Sentinel errors describing infrastructure facts. Stores return these
// (optionally wrapped) so the service layer owns the translation into
// client-facing domain errors:
//
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: write conflicts with existing state
//   - ErrAlreadyUsed: deposit reference already consumed
//   - ErrInvalidState: entity in the wrong state for the requested operation
//   - ErrUnavailable: backing service temporarily unreachable
//
// Input validation failures never use these; those are pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
