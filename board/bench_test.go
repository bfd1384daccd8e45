package board_test

import (
	"testing"

	"chess-motifs/board"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func benchGenerateMoves(b *testing.B, fen string) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]board.Move, 0, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.GenerateMovesInto(buf)
		buf = buf[:0]
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, board.FENStartPos)
}

func BenchmarkGenerateMoves_Kiwipete(b *testing.B) {
	benchGenerateMoves(b, kiwipeteFEN)
}

func BenchmarkGenerateCaptures_Kiwipete(b *testing.B) {
	pos, err := board.ParseFEN(kiwipeteFEN)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]board.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.GenerateCapturesInto(buf)
		buf = buf[:0]
	}
}

func BenchmarkPerft3_Initial(b *testing.B) {
	pos, err := board.ParseFEN(board.FENStartPos)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if n := board.Perft(pos, 3); n != 8902 {
			b.Fatalf("perft(3) = %d", n)
		}
	}
}

func BenchmarkApply_Kiwipete(b *testing.B) {
	pos, err := board.ParseFEN(kiwipeteFEN)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	moves := pos.GenerateMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		st := pos.MakeMove(m)
		pos.UnmakeMove(m, st)
	}
}
