package motif

import (
	"math/bits"

	"chess-motifs/board"
)

func init() {
	Register("skewer", detectSkewers)
}

// detectSkewers finds slider attacks where the front piece, once it
// steps off the ray, exposes a lesser piece behind it. Pins against the
// king are the pin detector's business and are excluded here. A skewer
// through the king is Forced (the king must move); anything else is
// Possible, since the front piece may have a defense besides moving.
// Principal squares: attacker, front piece, rear piece.
func detectSkewers(p *Ply) []Instance {
	var out []Instance
	for _, side := range []board.Color{board.White, board.Black} {
		out = append(out, skewersBy(p, side)...)
	}
	return out
}

func skewersBy(p *Ply, side board.Color) []Instance {
	b := p.Board
	occ := b.AllOccupancy()
	own := b.Bitboards(side)
	enemyOcc := b.ColorOccupancy(side.Opposite())

	var out []Instance
	sliders := own.Bishops | own.Rooks | own.Queens
	for sliders != 0 {
		ssq := board.Square(bits.TrailingZeros64(sliders))
		sliders &= sliders - 1
		attacker := b.PieceAt(ssq)

		fronts := b.AttacksFrom(ssq, occ) & enemyOcc
		for fronts != 0 {
			fsq := board.Square(bits.TrailingZeros64(fronts))
			fronts &= fronts - 1
			front := b.PieceAt(fsq)

			// The front piece must be worth attacking at all.
			if front.Type() != board.PieceTypeKing && valueOf(front) <= valueOf(attacker) {
				continue
			}

			rsq, ok := pieceBehind(b, ssq, fsq, occ)
			if !ok {
				continue
			}
			rear := b.PieceAt(rsq)
			if rear.Color() == side || rear.Type() == board.PieceTypeKing {
				continue
			}
			if valueOf(rear) >= valueOf(front) {
				continue
			}

			conf := Possible
			if front.Type() == board.PieceTypeKing {
				conf = Forced
			}
			out = append(out, Instance{
				Kind:       KindSkewer,
				Ply:        p.Index,
				Squares:    []board.Square{ssq, fsq, rsq},
				Pieces:     []board.Piece{attacker, front, rear},
				Confidence: conf,
			})
		}
	}
	return out
}

// pieceBehind returns the first occupied square past front on the ray
// from attacker through front.
func pieceBehind(b *board.Board, attacker, front board.Square, occ uint64) (board.Square, bool) {
	ray := board.Line(attacker, front)
	if ray == 0 {
		return board.NoSquare, false
	}
	beyond := b.AttacksFrom(attacker, occ&^(uint64(1)<<uint(front))) & ray
	for beyond != 0 {
		sq := board.Square(bits.TrailingZeros64(beyond))
		beyond &= beyond - 1
		if occ&(uint64(1)<<uint(sq)) == 0 {
			continue
		}
		// Keep only squares with the front piece in between, so we do
		// not pick up a blocker on the attacker's other side.
		if board.Between(attacker, sq)&(uint64(1)<<uint(front)) != 0 {
			return sq, true
		}
	}
	return board.NoSquare, false
}
