package tracker

import (
	"errors"

	"github.com/park285/Cheese-board-tracker/internal/board"
	"github.com/park285/Cheese-board-tracker/pkg/trackerdto"
)

var (
	ErrNotInitialized    = errors.New("board tracker not initialized")
	ErrSessionInProgress = errors.New("board tracker session already in progress")
	ErrIllegalMove       = errors.New("reconstructed move is not legal")
	ErrGameFinished      = errors.New("tracked game already finished")
	ErrSessionNotFound   = errors.New("tracker session not found")
	ErrAwaitingStability = errors.New("move not yet stable")
	ErrDuplicateGame     = errors.New("tracked game already archived")
	ErrStaleSession      = errors.New("stored session is ahead of this tracker")
)

// ToDomainError maps tracker and engine failures to the exported error type.
func ToDomainError(err error) *trackerdto.DomainError {
	if err == nil {
		return nil
	}
	var berr *board.Error
	switch {
	case errors.As(err, &berr):
		return &trackerdto.DomainError{Code: berr.Kind.String(), Message: err.Error(), Retryable: berr.Retryable()}
	case errors.Is(err, ErrAwaitingStability):
		return &trackerdto.DomainError{Code: "awaiting_stability", Message: err.Error(), Retryable: true}
	case errors.Is(err, ErrIllegalMove):
		return &trackerdto.DomainError{Code: "illegal_move", Message: err.Error(), Retryable: true}
	case errors.Is(err, board.ErrStaleGeneration):
		return &trackerdto.DomainError{Code: "stale_generation", Message: err.Error(), Retryable: true}
	case errors.Is(err, ErrNotInitialized):
		return &trackerdto.DomainError{Code: "not_initialized", Message: err.Error()}
	case errors.Is(err, ErrSessionInProgress):
		return &trackerdto.DomainError{Code: "session_in_progress", Message: err.Error()}
	case errors.Is(err, ErrGameFinished):
		return &trackerdto.DomainError{Code: "game_finished", Message: err.Error()}
	case errors.Is(err, ErrSessionNotFound):
		return &trackerdto.DomainError{Code: "session_not_found", Message: err.Error()}
	default:
		return &trackerdto.DomainError{Code: "internal", Message: err.Error()}
	}
}
