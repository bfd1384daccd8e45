package motif

import (
	"math/bits"

	"chess-motifs/board"
)

func init() {
	Register("pin", detectPins)
}

// detectPins finds absolute pins for both colors: an enemy slider whose
// ray to the king is blocked by exactly one piece of the king's color.
// Principal squares are pinned piece, attacker, king, in that order.
// An absolute pin is a fact of the position, so it is always Forced.
func detectPins(p *Ply) []Instance {
	var out []Instance
	for _, side := range []board.Color{board.White, board.Black} {
		out = append(out, pinsAgainst(p, side)...)
	}
	return out
}

func pinsAgainst(p *Ply, side board.Color) []Instance {
	b := p.Board
	ksq := b.KingSquare(side)
	if ksq == board.NoSquare {
		return nil
	}
	occ := b.AllOccupancy()
	enemy := b.Bitboards(side.Opposite())

	snipers := board.RookAttacksFrom(ksq, 0)&(enemy.Rooks|enemy.Queens) |
		board.BishopAttacksFrom(ksq, 0)&(enemy.Bishops|enemy.Queens)

	var out []Instance
	for snipers != 0 {
		ssq := board.Square(bits.TrailingZeros64(snipers))
		snipers &= snipers - 1

		blockers := board.Between(ksq, ssq) & occ
		if bits.OnesCount64(blockers) != 1 {
			continue
		}
		psq := board.Square(bits.TrailingZeros64(blockers))
		pinned := b.PieceAt(psq)
		if pinned.Color() != side {
			continue
		}
		out = append(out, Instance{
			Kind:       KindPin,
			Ply:        p.Index,
			Squares:    []board.Square{psq, ssq, ksq},
			Pieces:     []board.Piece{pinned, b.PieceAt(ssq), b.PieceAt(ksq)},
			Confidence: Forced,
		})
	}
	return out
}
