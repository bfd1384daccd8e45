package motif

import (
	"math/bits"

	"chess-motifs/board"
)

func init() {
	Register("discovered-attack", detectDiscoveredAttacks)
}

// detectDiscoveredAttacks finds legal moves that step off a friendly
// slider's ray and thereby open its attack onto an enemy king, queen or
// rook. A discovered check is Forced; otherwise the instance is Possible
// and carries the slider's follow-up capture, when one exists, as the
// supporting line. Principal squares: slider, target, vacated square.
func detectDiscoveredAttacks(p *Ply) []Instance {
	b := p.Board
	side := b.SideToMove()
	own := b.Bitboards(side)
	occ := b.AllOccupancy()
	sliderSet := own.Bishops | own.Rooks | own.Queens

	var out []Instance
	for _, m := range p.Moves {
		if m.IsCastle() {
			continue
		}
		from, to := m.From(), m.To()
		fromBB := uint64(1) << uint(from)
		toBB := uint64(1) << uint(to)

		occAfter := occ&^fromBB | toBB
		enemyAfter := b.ColorOccupancy(side.Opposite()) &^ toBB
		if m.Kind() == board.MoveEnPassant {
			capBB := uint64(1) << uint(enPassantVictim(side, to))
			occAfter &^= capBB
			enemyAfter &^= capBB
		}

		sliders := sliderSet &^ fromBB
		for sliders != 0 {
			ssq := board.Square(bits.TrailingZeros64(sliders))
			sliders &= sliders - 1

			ray := board.Line(ssq, from)
			if ray == 0 || ray&toBB != 0 {
				continue
			}
			opened := b.AttacksFrom(ssq, occAfter) &^ b.AttacksFrom(ssq, occ)
			targets := opened & ray & enemyAfter
			for targets != 0 {
				tsq := board.Square(bits.TrailingZeros64(targets))
				targets &= targets - 1
				target := b.PieceAt(tsq)
				switch target.Type() {
				case board.PieceTypeKing, board.PieceTypeQueen, board.PieceTypeRook:
				default:
					continue
				}
				inst := Instance{
					Kind:       KindDiscoveredAttack,
					Ply:        p.Index,
					Squares:    []board.Square{ssq, tsq, from},
					Pieces:     []board.Piece{b.PieceAt(ssq), target, m.MovedPiece()},
					Line:       []board.Move{m},
					Confidence: Possible,
				}
				if target.Type() == board.PieceTypeKing {
					inst.Confidence = Forced
				} else if followUp, ok := followUpCapture(b, m, ssq, tsq); ok {
					inst.Line = append(inst.Line, followUp)
				}
				out = append(out, inst)
			}
		}
	}
	return out
}

// followUpCapture plays m on a scratch copy, passes the reply back with
// a null move, and looks for the opened slider actually taking the
// target. The capture documents the threat; the opponent of course gets
// a real reply first.
func followUpCapture(b *board.Board, m board.Move, slider, target board.Square) (board.Move, bool) {
	scratch := *b
	scratch.MakeMove(m)
	if scratch.InCheck(scratch.SideToMove()) {
		// Null-moving out of check is meaningless.
		return 0, false
	}
	scratch.MakeNullMove()
	for _, c := range scratch.GenerateCaptures() {
		if c.From() == slider && c.To() == target {
			return c, true
		}
	}
	return 0, false
}

// enPassantVictim is the square of the pawn removed by an en passant
// capture landing on to.
func enPassantVictim(side board.Color, to board.Square) board.Square {
	if side == board.White {
		return to - 8
	}
	return to + 8
}
