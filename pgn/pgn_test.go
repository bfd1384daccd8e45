package pgn_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"chess-motifs/board"
	"chess-motifs/pgn"
)

func TestReadGameTagsAndMoves(t *testing.T) {
	text := `[Event "F/S Return Match"]
[Site "Belgrade"]
[White "Fischer, Robert J."]
[Black "Spassky, Boris V."]
[Result "1/2-1/2"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1/2-1/2
`
	games, err := pgn.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	g := games[0]
	if g.Tags["White"] != "Fischer, Robert J." {
		t.Errorf("White tag = %q", g.Tags["White"])
	}
	if g.Result != "1/2-1/2" {
		t.Errorf("Result = %q", g.Result)
	}
	want := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"}
	if len(g.Moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(g.Moves), len(want))
	}
	for i, m := range g.Moves {
		if m.String() != want[i] {
			t.Errorf("move %d = %s, want %s", i, m, want[i])
		}
	}
}

func TestReadGameSkipsCommentsNAGsAndVariations(t *testing.T) {
	text := `[Event "Annotated"]

1. e4 $1 {best by test} e5 ; a remark
2. Nf3 (2. f4 {the King's Gambit} exf4) 2... Nc6 *
`
	games, err := pgn.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	g := games[0]
	if len(g.Moves) != 4 {
		t.Fatalf("got %d moves, want 4: %v", len(g.Moves), g.SAN)
	}
	if g.SAN[3] != "Nc6" {
		t.Errorf("SAN[3] = %q", g.SAN[3])
	}
}

func TestReadMultipleGames(t *testing.T) {
	text := `[Event "One"]

1. d4 d5 1-0

[Event "Two"]

1. c4 c5 0-1
`
	games, err := pgn.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].Tags["Event"] != "One" || games[1].Tags["Event"] != "Two" {
		t.Errorf("tags = %q, %q", games[0].Tags["Event"], games[1].Tags["Event"])
	}
	if games[1].Result != "0-1" {
		t.Errorf("second result = %q", games[1].Result)
	}
}

func TestReadGameFENTag(t *testing.T) {
	text := `[SetUp "1"]
[FEN "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"]

1. Ra8# 1-0
`
	games, err := pgn.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	g := games[0]
	if got := g.Start.ToFEN(); got != "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1" {
		t.Errorf("start FEN = %s", got)
	}
	if len(g.Moves) != 1 || g.Moves[0].String() != "a1a8" {
		t.Errorf("moves = %v", g.Moves)
	}
}

func TestReadGameErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"illegal move", "1. e5 *"},
		{"ambiguous without disambiguation", "[FEN \"1k6/8/8/8/8/8/1K6/R6R w - - 0 1\"]\n\n1. Re1 *"},
		{"bad FEN tag", "[FEN \"not a position\"]\n\n*"},
		{"null move", "1. e4 -- *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pgn.ReadAll(strings.NewReader(tt.text))
			if err == nil {
				t.Fatal("no error")
			}
			var ge *pgn.GameError
			if !errors.As(err, &ge) {
				t.Fatalf("err = %T %v, want *GameError", err, err)
			}
		})
	}
}

func TestReaderEOF(t *testing.T) {
	r := pgn.NewReader(strings.NewReader("  \n\n"))
	if _, err := r.ReadGame(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestMatchSAN(t *testing.T) {
	tests := []struct {
		fen  string
		san  string
		want string
	}{
		{board.FENStartPos, "e4", "e2e4"},
		{board.FENStartPos, "Nf3", "g1f3"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "exd5", "e4d5"},
		{"1k6/8/8/8/8/8/1K6/R6R w - - 0 1", "Rae1", "a1e1"},
		{"1k6/8/8/8/8/8/1K6/R6R w - - 0 1", "Rhe1", "h1e1"},
		{"k3r3/8/8/8/8/8/4R3/K3R3 w - - 0 1", "R2xe8", "e2e8"},
		{"k7/4P3/8/8/8/8/8/K7 w - - 0 1", "e8=Q+", "e7e8q"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "O-O", "e1g1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "O-O-O", "e8c8"},
	}
	for _, tt := range tests {
		b, err := board.ParseFEN(tt.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tt.fen, err)
		}
		m, ok := pgn.MatchSAN(b, tt.san)
		if !ok {
			t.Errorf("MatchSAN(%q) in %s: no match", tt.san, tt.fen)
			continue
		}
		if m.String() != tt.want {
			t.Errorf("MatchSAN(%q) = %s, want %s", tt.san, m, tt.want)
		}
	}
}

func TestMatchSANRejectsAmbiguous(t *testing.T) {
	b, err := board.ParseFEN("1k6/8/8/8/8/8/1K6/R6R w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pgn.MatchSAN(b, "Re1"); ok {
		t.Error("ambiguous Re1 matched")
	}
}
