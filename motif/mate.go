package motif

import (
	"chess-motifs/board"
)

func init() {
	Register("mate-pattern", detectMatePatterns)
}

// detectMatePatterns scans the checking moves of the side to move for
// mates in one matching a named pattern: the back-rank mate (major piece
// delivering mate along the enemy back rank with the king boxed in by
// its own pieces) and the smothered mate (knight mate with every flight
// square occupied by the king's own pieces). A delivered mate is always
// Forced; the mating move is the supporting line. Principal squares:
// mating piece destination, mated king.
func detectMatePatterns(p *Ply) []Instance {
	b := p.Board
	loser := b.SideToMove().Opposite()

	var out []Instance
	for _, m := range p.Moves {
		if !b.GivesCheck(m) {
			continue
		}
		scratch := *b
		scratch.MakeMove(m)
		if !scratch.InCheckmate() {
			continue
		}
		ksq := scratch.KingSquare(loser)
		kind, ok := classifyMate(&scratch, loser, m)
		if !ok {
			continue
		}
		out = append(out, Instance{
			Kind:       kind,
			Ply:        p.Index,
			Squares:    []board.Square{m.To(), ksq},
			Pieces:     []board.Piece{scratch.PieceAt(m.To()), scratch.PieceAt(ksq)},
			Line:       []board.Move{m},
			Confidence: Forced,
		})
	}
	return out
}

func classifyMate(b *board.Board, loser board.Color, m board.Move) (Kind, bool) {
	mater := b.PieceAt(m.To())
	if mater.Type() == board.PieceTypeKnight && isSmothered(b, loser) {
		return KindSmotheredMate, true
	}
	if isBackRank(b, loser, m, mater) {
		return KindBackRankMate, true
	}
	return 0, false
}

// isSmothered: every square adjacent to the mated king holds one of the
// king's own pieces.
func isSmothered(b *board.Board, loser board.Color) bool {
	ksq := b.KingSquare(loser)
	ring := board.KingAttacksFrom(ksq)
	return ring&^b.ColorOccupancy(loser) == 0
}

// isBackRank: a rook or queen checks along the mated king's back rank
// and the king's escape squares off the rank are blocked by its own
// pieces (not merely covered by enemy attacks, which would make it an
// ordinary mate).
func isBackRank(b *board.Board, loser board.Color, m board.Move, mater board.Piece) bool {
	if mater.Type() != board.PieceTypeRook && mater.Type() != board.PieceTypeQueen {
		return false
	}
	backRank := 0
	if loser == board.Black {
		backRank = 7
	}
	ksq := b.KingSquare(loser)
	if ksq.Rank() != backRank || m.To().Rank() != backRank {
		return false
	}
	// Flight squares off the back rank must be self-blocked.
	offRank := board.KingAttacksFrom(ksq) &^ rankMask(backRank)
	return offRank != 0 && offRank&^b.ColorOccupancy(loser) == 0
}

func rankMask(r int) uint64 { return uint64(0xFF) << uint(8*r) }
