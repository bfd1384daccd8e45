package board_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"chess-motifs/board"
)

// moveStrings returns the coordinate notation of every legal move, sorted.
func moveStrings(b *board.Board) []string {
	moves := b.GenerateMoves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	slices.Sort(out)
	return out
}

func refMoveStrings(b *dragontoothmg.Board) []string {
	moves := b.GenerateLegalMoves()
	out := make([]string, len(moves))
	for i := range moves {
		out[i] = moves[i].String()
	}
	slices.Sort(out)
	return out
}

// compareTrees walks both move generators in lockstep and fails on the
// first position where the legal move sets diverge.
func compareTrees(t *testing.T, b *board.Board, ref *dragontoothmg.Board, depth int) {
	t.Helper()
	got := moveStrings(b)
	want := refMoveStrings(ref)
	if !slices.Equal(got, want) {
		t.Fatalf("move set mismatch at %s:\n  got  %v\n  want %v", b.ToFEN(), got, want)
	}
	if depth == 0 {
		return
	}
	moves := b.GenerateMoves()
	refMoves := ref.GenerateLegalMoves()
	for _, m := range moves {
		ms := m.String()
		for i := range refMoves {
			if refMoves[i].String() != ms {
				continue
			}
			st := b.MakeMove(m)
			unapply := ref.Apply(refMoves[i])
			compareTrees(t, b, ref, depth-1)
			unapply()
			b.UnmakeMove(m, st)
			break
		}
	}
}

func TestMoveGenerationMatchesReference(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	}
	depth := 2
	if testing.Short() {
		depth = 1
	}
	for _, fen := range fens {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			b, err := board.ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			ref := dragontoothmg.ParseFen(fen)
			compareTrees(t, b, &ref, depth)
		})
	}
}
