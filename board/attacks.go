package board

import (
	"fmt"
	"math/bits"
)

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives the squares a pawn of
// 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

// Precomputed rays for sliders. For each square and direction, the bitboard of
// squares in that ray (excluding the origin square).
// Rook directions: 0=N, 1=S, 2=E, 3=W
var rookRays [64][4]uint64

// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var bishopRays [64][4]uint64

// Union of all rook and bishop rays from each square (for quick king-ray tests)
var kingRaysUnion [64]uint64

// Masks and lookup tables for slider attacks indexed by software pext of
// the relevant occupancy bits (edge squares excluded from the masks).
var rookMask [64]uint64
var bishopMask [64]uint64
var rookAttTable [64][]uint64
var bishopAttTable [64][]uint64

// Squares strictly between two aligned squares, and the full line through
// them; zero when the squares do not share a rank, file or diagonal.
var betweenBB [64][64]uint64
var lineBB [64][64]uint64

func init() {
	initLeaperTables()
	initRays()
	initSliderTables()
	initLineTables()
	if err := verifySliderTables(); err != nil {
		// Every downstream guarantee depends on these tables; refusing to
		// start is the only safe response.
		panic(err)
	}
}

// initLeaperTables precomputes attack bitboards for knights, kings and pawns.
func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		for _, off := range knightOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				knightMoves[sq] |= uint64(1) << (rf*8 + ff)
			}
		}
		for _, off := range kingOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				kingMoves[sq] |= uint64(1) << (rf*8 + ff)
			}
		}

		// White pawns attack upward, black pawns downward.
		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][sq] |= uint64(1) << ((rank+1)*8 + file - 1)
			}
			if file < 7 {
				pawnAttacks[White][sq] |= uint64(1) << ((rank+1)*8 + file + 1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][sq] |= uint64(1) << ((rank-1)*8 + file - 1)
			}
			if file < 7 {
				pawnAttacks[Black][sq] |= uint64(1) << ((rank-1)*8 + file + 1)
			}
		}
	}
}

// initRays precomputes directional rays for rook and bishop moves.
func initRays() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8

		var ray uint64
		for r := rank + 1; r < 8; r++ { // N
			ray |= 1 << uint(r*8+file)
		}
		rookRays[sq][0] = ray

		ray = 0
		for r := rank - 1; r >= 0; r-- { // S
			ray |= 1 << uint(r*8+file)
		}
		rookRays[sq][1] = ray

		ray = 0
		for f := file + 1; f < 8; f++ { // E
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[sq][2] = ray

		ray = 0
		for f := file - 1; f >= 0; f-- { // W
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[sq][3] = ray

		ray = 0
		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 { // NE
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][0] = ray

		ray = 0
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 { // NW
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][1] = ray

		ray = 0
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 { // SE
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][2] = ray

		ray = 0
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 { // SW
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[sq][3] = ray

		kingRaysUnion[sq] =
			rookRays[sq][0] | rookRays[sq][1] | rookRays[sq][2] | rookRays[sq][3] |
				bishopRays[sq][0] | bishopRays[sq][1] | bishopRays[sq][2] | bishopRays[sq][3]
	}
}

// initSliderTables builds per-square relevant-occupancy masks and, for
// every subset of each mask, the ray-traced attack set up to and
// including the first blocker in each direction.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8

		// Rook mask excludes edge squares of each ray.
		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMask[sq] = rm

		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMask[sq] = bm

		rBits := bits.OnesCount64(rm)
		bBits := bits.OnesCount64(bm)
		rookAttTable[sq] = make([]uint64, 1<<rBits)
		bishopAttTable[sq] = make([]uint64, 1<<bBits)

		for idx := 0; idx < (1 << rBits); idx++ {
			occ := pdep(uint64(idx), rm)
			rookAttTable[sq][idx] = rookAttacksSlow(sq, occ)
		}
		for idx := 0; idx < (1 << bBits); idx++ {
			occ := pdep(uint64(idx), bm)
			bishopAttTable[sq][idx] = bishopAttacksSlow(sq, occ)
		}
	}
}

// initLineTables fills betweenBB and lineBB for every aligned square pair.
func initLineTables() {
	dirs := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for a := 0; a < 64; a++ {
		for _, d := range dirs {
			var ray uint64
			r, f := a/8+d[0], a%8+d[1]
			for r >= 0 && r < 8 && f >= 0 && f < 8 {
				sq := r*8 + f
				// The squares walked so far, excluding sq, lie between a and sq.
				betweenBB[a][sq] = ray
				ray |= 1 << uint(sq)
				r += d[0]
				f += d[1]
			}
		}
		for b := 0; b < 64; b++ {
			if a == b {
				continue
			}
			for _, d := range dirs {
				if !onRay(a, b, d) {
					continue
				}
				line := uint64(1)<<uint(a) | uint64(1)<<uint(b)
				for _, dd := range [2][2]int{d, {-d[0], -d[1]}} {
					r, f := a/8+dd[0], a%8+dd[1]
					for r >= 0 && r < 8 && f >= 0 && f < 8 {
						line |= 1 << uint(r*8+f)
						r += dd[0]
						f += dd[1]
					}
				}
				lineBB[a][b] = line
				break
			}
		}
	}
}

// onRay reports whether b is reachable from a by repeated steps of d.
func onRay(a, b int, d [2]int) bool {
	r, f := a/8+d[0], a%8+d[1]
	for r >= 0 && r < 8 && f >= 0 && f < 8 {
		if r*8+f == b {
			return true
		}
		r += d[0]
		f += d[1]
	}
	return false
}

// verifySliderTables cross-checks the subset tables against direct
// ray-tracing for a spread of squares and occupancies.
func verifySliderTables() error {
	occs := []uint64{0, 0xFFFFFFFFFFFFFFFF, 0x00FF00000000FF00, 0x8142241818244281, 0x0000001818000000}
	for sq := 0; sq < 64; sq++ {
		for _, occ := range occs {
			if got, want := rookAttacksLookup(sq, occ), rookAttacksSlow(sq, occ); got != want {
				return fmt.Errorf("attack table generation inconsistent: rook sq=%d occ=%#x got=%#x want=%#x", sq, occ, got, want)
			}
			if got, want := bishopAttacksLookup(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				return fmt.Errorf("attack table generation inconsistent: bishop sq=%d occ=%#x got=%#x want=%#x", sq, occ, got, want)
			}
		}
	}
	return nil
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

func rookAttacksLookup(sq int, occ uint64) uint64 {
	return rookAttTable[sq][pext(occ, rookMask[sq])]
}

func bishopAttacksLookup(sq int, occ uint64) uint64 {
	return bishopAttTable[sq][pext(occ, bishopMask[sq])]
}

// rookAttacksSlow ray-traces rook attacks from sq for the given occupancy.
// Used for table generation and verification only; lookups serve queries.
func rookAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 2 { // N, E increase indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= rookRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// bishopAttacksSlow ray-traces bishop attacks from sq for the given occupancy.
func bishopAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 1 { // NE, NW increase indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= bishopRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// ==========================
// Exported attack queries
// ==========================

// KnightAttacksFrom returns the knight attack bitboard from sq.
func KnightAttacksFrom(sq Square) uint64 { return knightMoves[int(sq)] }

// KingAttacksFrom returns the king attack bitboard from sq.
func KingAttacksFrom(sq Square) uint64 { return kingMoves[int(sq)] }

// PawnAttacksFrom returns the squares a pawn of the given color attacks from sq.
func PawnAttacksFrom(c Color, sq Square) uint64 { return pawnAttacks[c][int(sq)] }

// RookAttacksFrom returns the rook attack bitboard from sq for the given occupancy.
func RookAttacksFrom(sq Square, occ uint64) uint64 { return rookAttacksLookup(int(sq), occ) }

// BishopAttacksFrom returns the bishop attack bitboard from sq for the given occupancy.
func BishopAttacksFrom(sq Square, occ uint64) uint64 { return bishopAttacksLookup(int(sq), occ) }

// QueenAttacksFrom returns the queen attack bitboard from sq for the given occupancy.
func QueenAttacksFrom(sq Square, occ uint64) uint64 {
	return rookAttacksLookup(int(sq), occ) | bishopAttacksLookup(int(sq), occ)
}

// Between returns the squares strictly between a and b when they share a
// rank, file or diagonal, and 0 otherwise.
func Between(a, b Square) uint64 { return betweenBB[int(a)][int(b)] }

// Line returns the full line through a and b (inclusive) when aligned,
// and 0 otherwise.
func Line(a, b Square) uint64 { return lineBB[int(a)][int(b)] }

// Aligned reports whether a and b share a rank, file or diagonal.
func Aligned(a, b Square) bool { return lineBB[int(a)][int(b)] != 0 }

// AttacksFrom returns the attack set of the piece standing on sq, for the
// given total occupancy. An empty square yields an empty bitboard.
func (b *Board) AttacksFrom(sq Square, occ uint64) uint64 {
	p := b.pieces[int(sq)]
	switch p.Type() {
	case PieceTypePawn:
		return pawnAttacks[colorOf(p)][int(sq)]
	case PieceTypeKnight:
		return knightMoves[int(sq)]
	case PieceTypeBishop:
		return bishopAttacksLookup(int(sq), occ)
	case PieceTypeRook:
		return rookAttacksLookup(int(sq), occ)
	case PieceTypeQueen:
		return rookAttacksLookup(int(sq), occ) | bishopAttacksLookup(int(sq), occ)
	case PieceTypeKing:
		return kingMoves[int(sq)]
	}
	return 0
}

// AttackersTo returns the bitboard of pieces of color 'by' attacking sq,
// computed against the supplied occupancy.
func (b *Board) AttackersTo(sq Square, by Color, occ uint64) uint64 {
	s := int(sq)
	bi := int(by)
	var atk uint64
	// Reverse pawn lookup: white pawns attacking s stand on black-pawn
	// attack squares of s, and vice versa.
	atk |= pawnAttacks[by.Opposite()][s] & b.pawns[bi]
	atk |= knightMoves[s] & b.knights[bi]
	atk |= kingMoves[s] & b.kings[bi]
	atk |= rookAttacksLookup(s, occ) & (b.rooks[bi] | b.queens[bi])
	atk |= bishopAttacksLookup(s, occ) & (b.bishops[bi] | b.queens[bi])
	return atk
}
