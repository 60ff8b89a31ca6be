package board

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures.
type ErrorKind uint8

const (
	// UnrecognizedOrientation: the boundary color pair has no starting corner.
	UnrecognizedOrientation ErrorKind = iota + 1
	// NoMoveDetected: the changed-square count fits no move shape.
	NoMoveDetected
	// AmbiguousStartSquare: heuristic recovery did not narrow to one origin.
	AmbiguousStartSquare
	// InvalidBothEmpty: both changed squares were already empty.
	InvalidBothEmpty
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedOrientation:
		return "unrecognized_orientation"
	case NoMoveDetected:
		return "no_move_detected"
	case AmbiguousStartSquare:
		return "ambiguous_start_square"
	case InvalidBothEmpty:
		return "invalid_both_empty"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by the engine. Changed carries the
// changed-square count that led to the failure.
type Error struct {
	Kind    ErrorKind
	Changed int
	Detail  string
}

func (e *Error) Error() string {
	msg := "board: " + e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable is true for transient detector noise. InvalidBothEmpty points
// at a classifier bug and UnrecognizedOrientation needs new input.
func (e *Error) Retryable() bool {
	return e.Kind == NoMoveDetected || e.Kind == AmbiguousStartSquare
}

var (
	ErrUnrecognizedOrientation = &Error{Kind: UnrecognizedOrientation}
	ErrNoMoveDetected          = &Error{Kind: NoMoveDetected}
	ErrAmbiguousStartSquare    = &Error{Kind: AmbiguousStartSquare}
	ErrInvalidBothEmpty        = &Error{Kind: InvalidBothEmpty}

	ErrStaleGeneration = errors.New("board: result computed against a different generation")
)

func newError(kind ErrorKind, changed int, format string, args ...any) *Error {
	return &Error{Kind: kind, Changed: changed, Detail: fmt.Sprintf(format, args...)}
}
