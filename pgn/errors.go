package pgn

import "fmt"

// GameError attaches game and ply context to a read or analysis
// failure. Game is the zero-based index within the stream; Ply counts
// resolved moves before the failure; SAN is the offending token when
// one exists.
type GameError struct {
	Game int
	Ply  int
	SAN  string
	Err  error
}

func (e *GameError) Error() string {
	if e.SAN != "" {
		return fmt.Sprintf("game %d, ply %d (%s): %v", e.Game, e.Ply, e.SAN, e.Err)
	}
	return fmt.Sprintf("game %d, ply %d: %v", e.Game, e.Ply, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }
