package analysis_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chess-motifs/analysis"
	"chess-motifs/board"
	"chess-motifs/motif"
	"chess-motifs/pgn"
)

const scholarsMate = `[Event "Test"]
[Result "1-0"]

1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7# 1-0
`

func readGames(t *testing.T, text string) []*pgn.Game {
	t.Helper()
	games, err := pgn.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return games
}

func TestAnalyzeGameEmitsOrderedPlyReports(t *testing.T) {
	g := readGames(t, scholarsMate)[0]
	reports, err := analysis.AnalyzeGame(g)
	if err != nil {
		t.Fatalf("AnalyzeGame: %v", err)
	}
	if want := len(g.Moves) + 1; len(reports) != want {
		t.Fatalf("got %d reports, want %d", len(reports), want)
	}
	for i, rep := range reports {
		if rep.PlyIndex != i {
			t.Errorf("report %d has PlyIndex %d", i, rep.PlyIndex)
		}
	}
	if reports[0].FEN != board.FENStartPos {
		t.Errorf("first report FEN = %s", reports[0].FEN)
	}
	if reports[0].MoveCount != 20 {
		t.Errorf("initial position MoveCount = %d, want 20", reports[0].MoveCount)
	}
	// Qxf7# ends the game; the final position has no moves.
	if last := reports[len(reports)-1]; last.MoveCount != 0 {
		t.Errorf("final position MoveCount = %d, want 0", last.MoveCount)
	}
}

func TestAnalyzeGameFindsForkFromFENTag(t *testing.T) {
	text := `[Event "Puzzle"]
[SetUp "1"]
[FEN "q3k3/8/8/1N6/8/8/8/4K3 w - - 0 1"]

*
`
	g := readGames(t, text)[0]
	reports, err := analysis.AnalyzeGame(g)
	if err != nil {
		t.Fatalf("AnalyzeGame: %v", err)
	}
	found := false
	for _, in := range reports[0].Motifs {
		if in.Kind == motif.KindFork && in.Confidence == motif.Forced {
			found = true
		}
	}
	if !found {
		t.Errorf("no forced fork in %v", reports[0].Motifs)
	}
}

func TestAnalyzeGameRejectsForeignMove(t *testing.T) {
	g := readGames(t, scholarsMate)[0]
	bad := *g
	bad.Moves = append([]board.Move(nil), g.Moves...)
	bad.Moves[2] = board.NewMove(board.A1, board.A8, board.WhiteRook, board.NoPiece, board.NoPiece, board.FlagNone)

	_, err := analysis.AnalyzeGame(&bad)
	if !errors.Is(err, board.ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	var ge *pgn.GameError
	if !errors.As(err, &ge) || ge.Ply != 2 {
		t.Errorf("err = %v, want GameError at ply 2", err)
	}
}

func TestAnalyzeBatchMatchesSequentialAndPreservesOrder(t *testing.T) {
	text := scholarsMate + `
[Event "Second"]
[Result "1/2-1/2"]

1. d4 d5 2. c4 e6 3. Nc3 Nf6 1/2-1/2

[Event "Third"]
[Result "*"]

1. Nf3 Nf6 2. g3 g6 *
`
	games := readGames(t, text)
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}

	batch := analysis.AnalyzeBatch(games, 4)
	if len(batch) != len(games) {
		t.Fatalf("got %d reports, want %d", len(batch), len(games))
	}
	for i, rep := range batch {
		if rep.GameIndex != i {
			t.Fatalf("report %d has GameIndex %d", i, rep.GameIndex)
		}
		if rep.Err != nil {
			t.Fatalf("game %d failed: %v", i, rep.Err)
		}
		sequential, err := analysis.AnalyzeGame(games[i])
		if err != nil {
			t.Fatalf("AnalyzeGame(%d): %v", i, err)
		}
		if diff := cmp.Diff(sequential, rep.Plies); diff != "" {
			t.Errorf("game %d batch/sequential mismatch (-seq +batch):\n%s", i, diff)
		}
	}
}

func TestAnalyzeBatchIsolatesFailingGame(t *testing.T) {
	games := readGames(t, scholarsMate)
	broken := &pgn.Game{Tags: map[string]string{}, Start: nil}
	games = append(games, broken)
	games = append(games, readGames(t, scholarsMate)...)

	batch := analysis.AnalyzeBatch(games, 2)
	if len(batch) != 3 {
		t.Fatalf("got %d reports, want 3", len(batch))
	}
	if batch[0].Err != nil || batch[2].Err != nil {
		t.Errorf("healthy games failed: %v / %v", batch[0].Err, batch[2].Err)
	}
	if batch[1].Err == nil {
		t.Error("broken game reported no error")
	}
}

func TestPoolStopDrainsWithoutAnalyzing(t *testing.T) {
	games := readGames(t, scholarsMate)
	pool := analysis.NewPool(1)
	pool.Start()
	pool.Stop()
	go func() {
		for i := 0; i < 5; i++ {
			pool.Submit(games[0], i)
		}
		pool.Close()
	}()
	count := 0
	for range pool.Results() {
		count++
	}
	if count != 0 {
		t.Errorf("stopped pool produced %d reports", count)
	}
}
