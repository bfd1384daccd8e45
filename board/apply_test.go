package board_test

import (
	"errors"
	"testing"

	"chess-motifs/board"
)

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	b := mustParse(t, board.FENStartPos)
	before := b.ToFEN()
	hash := b.Hash()

	m, ok := b.FindMove(board.E2, board.E4, board.PieceTypeNone)
	if !ok {
		t.Fatalf("e2e4 not found in legal moves")
	}
	next, err := b.Apply(m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := b.ToFEN(); got != before {
		t.Fatalf("receiver mutated: got %q want %q", got, before)
	}
	if b.Hash() != hash {
		t.Fatalf("receiver hash changed")
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := next.ToFEN(); got != want {
		t.Fatalf("after e2e4: got %q want %q", got, want)
	}
	if !next.Validate() {
		t.Fatalf("applied position fails consistency check")
	}
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	b := mustParse(t, board.FENStartPos)

	// A syntactically plausible move that is not legal here.
	illegal := board.NewMove(board.E2, board.E5, board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagNone)
	if _, err := b.Apply(illegal); !errors.Is(err, board.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}

	// A move that is legal in a different position.
	other := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	m, ok := other.FindMove(board.A1, board.A8, board.PieceTypeNone)
	if !ok {
		t.Fatalf("a1a8 not found")
	}
	if _, err := b.Apply(m); !errors.Is(err, board.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for foreign move, got %v", err)
	}
}

func TestMakeUnmakeRestoresState(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
	}
	for _, fen := range fens {
		b := mustParse(t, fen)
		before := b.ToFEN()
		hash := b.Hash()
		for _, m := range b.GenerateMoves() {
			st := b.MakeMove(m)
			if !b.Validate() {
				t.Fatalf("%s: inconsistent state after %s", fen, m)
			}
			if b.Hash() != b.ComputeZobrist() {
				t.Fatalf("%s: incremental hash diverged after %s", fen, m)
			}
			b.UnmakeMove(m, st)
			if got := b.ToFEN(); got != before {
				t.Fatalf("%s: unmake of %s gave %q", fen, m, got)
			}
			if b.Hash() != hash {
				t.Fatalf("%s: hash not restored after %s", fen, m)
			}
		}
	}
}

func TestApplyCastlingMovesRook(t *testing.T) {
	b := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, ok := b.FindMove(board.E1, board.G1, board.PieceTypeNone)
	if !ok {
		t.Fatalf("castling move not generated")
	}
	next, err := b.Apply(m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.PieceAt(board.F1) != board.WhiteRook || next.PieceAt(board.H1) != board.NoPiece {
		t.Fatalf("rook not relocated: %s", next.ToFEN())
	}
	if next.CastlingRightsMask()&(board.CastlingWhiteK|board.CastlingWhiteQ) != 0 {
		t.Fatalf("white castling rights survived castling: %s", next.ToFEN())
	}
}

func TestApplyEnPassantRemovesCapturedPawn(t *testing.T) {
	b := mustParse(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	m, ok := b.FindMove(board.E5, board.D6, board.PieceTypeNone)
	if !ok {
		t.Fatalf("en passant capture not generated")
	}
	next, err := b.Apply(m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.PieceAt(board.D5) != board.NoPiece {
		t.Fatalf("captured pawn still on d5: %s", next.ToFEN())
	}
	if next.PieceAt(board.D6) != board.WhitePawn {
		t.Fatalf("capturing pawn not on d6: %s", next.ToFEN())
	}
}

func TestApplyPromotionReplacesPawn(t *testing.T) {
	b := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	m, ok := b.FindMove(board.A7, board.B8, board.PieceTypeQueen)
	if !ok {
		t.Fatalf("promotion capture not generated")
	}
	next, err := b.Apply(m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.PieceAt(board.B8) != board.WhiteQueen {
		t.Fatalf("expected queen on b8: %s", next.ToFEN())
	}
	if next.Bitboards(board.White).Pawns != 0 {
		t.Fatalf("pawn bitboard not cleared: %s", next.ToFEN())
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b := mustParse(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	before := b.ToFEN()
	st := b.MakeNullMove()
	if b.SideToMove() != board.Black {
		t.Fatalf("side not toggled")
	}
	if b.EnPassantSquare() != board.NoSquare {
		t.Fatalf("en passant square survived null move")
	}
	b.UnmakeNullMove(st)
	if got := b.ToFEN(); got != before {
		t.Fatalf("null move round trip: got %q want %q", got, before)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	b := mustParse(t, "8/8/8/4k3/8/4K3/8/R7 w - - 99 80")
	if b.IsDrawBy50() {
		t.Fatalf("draw claimed one half-move early")
	}
	m, ok := b.FindMove(board.A1, board.A2, board.PieceTypeNone)
	if !ok {
		t.Fatalf("a1a2 not found")
	}
	next, err := b.Apply(m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !next.IsDrawBy50() {
		t.Fatalf("expected 50-move draw at clock %d", next.HalfmoveClock())
	}
}
