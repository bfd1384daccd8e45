// Package analysis walks games ply by ply, runs the motif detectors on
// every position, and orchestrates concurrent batch analysis with
// per-game ordered results.
package analysis

import (
	"fmt"

	"chess-motifs/board"
	"chess-motifs/motif"
	"chess-motifs/pgn"
)

// PlyReport is the per-position record emitted for storage or display:
// the ply index within the game, the position before the ply's move,
// its legal move count, and the motifs detected in it.
type PlyReport struct {
	PlyIndex  int
	FEN       string
	MoveCount int
	Motifs    []motif.Instance
}

// GameReport is the ordered analysis of one game.
type GameReport struct {
	GameIndex int
	Tags      map[string]string
	Plies     []PlyReport
	Err       error
}

// AnalyzeGame analyzes every position of the game in ply order,
// including the final position after the last move. The input game is
// not modified.
func AnalyzeGame(g *pgn.Game) ([]PlyReport, error) {
	if g.Start == nil {
		return nil, fmt.Errorf("game has no starting position")
	}
	cur := *g.Start
	reports := make([]PlyReport, 0, len(g.Moves)+1)
	for i := 0; ; i++ {
		p := motif.NewPly(i, &cur)
		reports = append(reports, PlyReport{
			PlyIndex:  i,
			FEN:       cur.ToFEN(),
			MoveCount: len(p.Moves),
			Motifs:    motif.Detect(p),
		})
		if i == len(g.Moves) {
			return reports, nil
		}
		m := g.Moves[i]
		if !containsMove(p.Moves, m) {
			return reports, &pgn.GameError{Ply: i, SAN: m.String(),
				Err: fmt.Errorf("%w: recorded move is not legal", board.ErrIllegalMove)}
		}
		cur.MakeMove(m)
	}
}

func containsMove(moves []board.Move, m board.Move) bool {
	for _, c := range moves {
		if c == m {
			return true
		}
	}
	return false
}
