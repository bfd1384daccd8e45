package motif

import (
	"math/bits"

	"chess-motifs/board"
)

func init() {
	Register("fork", detectForks)
}

// maxForcingDepth caps the confirmation search in plies. Running out of
// depth never fails a detection, it only degrades the instance from
// Forced to Possible.
const maxForcingDepth = 4

// detectForks examines every legal move of the side to move and reports
// those after which the moved piece attacks two or more fork targets
// from a square it cannot profitably be evicted from. A fork is Forced
// when the bounded search shows no reply saves both targets; otherwise
// it is Possible. Principal squares: fork square first, then the targets
// in ascending square order.
func detectForks(p *Ply) []Instance {
	b := p.Board
	side := b.SideToMove()

	var out []Instance
	for _, m := range p.Moves {
		if m.IsCastle() {
			continue
		}
		scratch := *b
		scratch.MakeMove(m)

		to := m.To()
		forker := scratch.PieceAt(to)
		occ := scratch.AllOccupancy()

		var targets []board.Square
		atk := scratch.AttacksFrom(to, occ) & scratch.ColorOccupancy(side.Opposite())
		for atk != 0 {
			tsq := board.Square(bits.TrailingZeros64(atk))
			atk &= atk - 1
			if isForkTarget(&scratch, side, forker, tsq) {
				targets = append(targets, tsq)
			}
		}
		if len(targets) < 2 {
			continue
		}
		if !forkSquareSafe(&scratch, side, to, forker) {
			continue
		}

		inst := Instance{
			Kind:       KindFork,
			Ply:        p.Index,
			Squares:    append([]board.Square{to}, targets...),
			Pieces:     []board.Piece{forker},
			Line:       []board.Move{m},
			Confidence: Possible,
		}
		for _, tsq := range targets {
			inst.Pieces = append(inst.Pieces, scratch.PieceAt(tsq))
		}
		if confirmFork(&scratch, to, valueOf(forker), targets, maxForcingDepth-1) {
			inst.Confidence = Forced
		}
		out = append(out, inst)
	}
	return out
}

// isForkTarget reports whether the piece on tsq is worth forking: the
// king, a piece worth more than the forker, or an undefended piece.
func isForkTarget(b *board.Board, side board.Color, forker board.Piece, tsq board.Square) bool {
	t := b.PieceAt(tsq)
	if t.Type() == board.PieceTypeKing {
		return true
	}
	if valueOf(t) > valueOf(forker) {
		return true
	}
	return b.AttackersTo(tsq, side.Opposite(), b.AllOccupancy()) == 0
}

// forkSquareSafe reports whether the forker can sit on sq: no cheaper
// enemy piece attacks it, and if attacked at all it is defended.
func forkSquareSafe(b *board.Board, side board.Color, sq board.Square, forker board.Piece) bool {
	occ := b.AllOccupancy()
	att := b.AttackersTo(sq, side.Opposite(), occ)
	if att == 0 {
		return true
	}
	for a := att; a != 0; {
		asq := board.Square(bits.TrailingZeros64(a))
		a &= a - 1
		if valueOf(b.PieceAt(asq)) < valueOf(forker) {
			return false
		}
	}
	return b.AttackersTo(sq, side, occ) != 0
}

// confirmFork verifies that after the fork move every enemy reply still
// lets the forker take one of the targets at a profit. depth counts the
// remaining plies the search may examine; a reply plus the capture
// itself cost two, so exhausting the budget leaves the fork unconfirmed.
func confirmFork(after *board.Board, forkSq board.Square, forkerVal int, targets []board.Square, depth int) bool {
	if depth < 2 {
		return false
	}
	replies := after.GenerateMoves()
	if len(replies) == 0 {
		// Checkmate on the spot confirms; stalemate wins nothing.
		return after.InCheck(after.SideToMove())
	}
	for _, r := range replies {
		if r.To() == forkSq {
			return false
		}
		child := *after
		child.MakeMove(r)
		if !winsTarget(&child, forkSq, forkerVal, targets) {
			return false
		}
	}
	return true
}

// winsTarget looks for a capture by the forker of one of the original
// target squares that comes out ahead on a simple exchange estimate.
func winsTarget(b *board.Board, forkSq board.Square, forkerVal int, targets []board.Square) bool {
	enemy := b.SideToMove().Opposite()
	for _, c := range b.GenerateCaptures() {
		if c.From() != forkSq || !onTargets(c.To(), targets) {
			continue
		}
		gain := valueOf(c.CapturedPiece())
		occAfter := b.AllOccupancy() &^ (uint64(1) << uint(forkSq))
		if b.AttackersTo(c.To(), enemy, occAfter) != 0 {
			gain -= forkerVal
		}
		if gain > 0 {
			return true
		}
	}
	return false
}

func onTargets(sq board.Square, targets []board.Square) bool {
	for _, t := range targets {
		if t == sq {
			return true
		}
	}
	return false
}
