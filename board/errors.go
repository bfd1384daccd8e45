package board

import "errors"

// Sentinel errors reported by position construction and move application.
// Callers match them with errors.Is; the wrapped messages carry detail.
var (
	// ErrMalformedPosition indicates a FEN string that cannot be parsed or
	// that describes a structurally invalid position.
	ErrMalformedPosition = errors.New("malformed position")

	// ErrIllegalMove indicates an attempt to apply a move that is not legal
	// in the position it was applied to.
	ErrIllegalMove = errors.New("illegal move")
)
