package board

import "math/bits"

// filter modes for selective generation
const (
	genAll = iota
	genCaptures
	genQuiets
)

// computeCheckAndPins computes check state and pin masks for the side to move.
// Returns:
// - inCheck: whether the king is in check
// - doubleCheck: whether there are two or more checkers
// - checkMask: if single check, the set of squares that non-king moves may move to (block or capture)
// - pinLine: for each square (index), a mask of squares along the pin line the piece is allowed to move to; 0 means not pinned
func (b *Board) computeCheckAndPins(side Color, occ uint64) (inCheck bool, doubleCheck bool, checkMask uint64, pinLine [64]uint64) {
	us := int(side)
	them := 1 - us

	kingBB := b.kings[us]
	if kingBB == 0 {
		return false, false, 0, pinLine
	}
	ksq := bits.TrailingZeros64(kingBB)

	// Checkers: leapers via direct masks, sliders via occupancy-aware attacks.
	var checkers uint64
	checkers |= pawnAttacks[side][ksq] & b.pawns[them]
	checkers |= knightMoves[ksq] & b.knights[them]
	checkers |= bishopAttacksLookup(ksq, occ) & (b.bishops[them] | b.queens[them])
	checkers |= rookAttacksLookup(ksq, occ) & (b.rooks[them] | b.queens[them])

	inCheck = checkers != 0
	doubleCheck = inCheck && (checkers&(checkers-1)) != 0

	if inCheck && !doubleCheck {
		c := bits.TrailingZeros64(checkers)
		// Capturing the checker always helps; for sliders, interposing on
		// any square between king and checker does too.
		checkMask = betweenBB[ksq][c] | checkers
	}

	// Pins: candidate snipers are enemy sliders aligned with the king on an
	// empty board. A sniper with exactly one piece between it and the king
	// pins that piece if it is ours.
	snipers := (rookAttacksLookup(ksq, 0) & (b.rooks[them] | b.queens[them])) |
		(bishopAttacksLookup(ksq, 0) & (b.bishops[them] | b.queens[them]))
	for snipers != 0 {
		s := popLSB(&snipers)
		between := betweenBB[ksq][s] & occ
		if between == 0 || between&(between-1) != 0 {
			continue
		}
		if between&b.occupancy[us] != 0 {
			blocker := bits.TrailingZeros64(between)
			pinLine[blocker] = betweenBB[ksq][s] | uint64(1)<<uint(s)
		}
	}

	return inCheck, doubleCheck, checkMask, pinLine
}

// ==========================
// Attack queries
// ==========================

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isSquareAttackedWithOcc(int(sq), by, b.AllOccupancy())
}

func (b *Board) isSquareAttackedWithOcc(s int, by Color, occ uint64) bool {
	byIdx := int(by)

	// Every attacker set is masked by occ: callers simulate moves by
	// passing an occupancy with squares cleared (en passant removes the
	// captured pawn), and a removed piece must not count as an attacker.
	// Reverse pawn lookup: attackers of 's' stand on the squares a pawn of
	// the opposite color would attack from 's'.
	if pawnAttacks[by.Opposite()][s]&b.pawns[byIdx]&occ != 0 {
		return true
	}
	if knightMoves[s]&b.knights[byIdx]&occ != 0 {
		return true
	}
	if kingMoves[s]&b.kings[byIdx]&occ != 0 {
		return true
	}
	if rookAttacksLookup(s, occ)&(b.rooks[byIdx]|b.queens[byIdx])&occ != 0 {
		return true
	}
	if bishopAttacksLookup(s, occ)&(b.bishops[byIdx]|b.queens[byIdx])&occ != 0 {
		return true
	}
	return false
}

// InCheck reports whether the specified color's king is currently in check.
func (b *Board) InCheck(color Color) bool {
	kingBB := b.kings[int(color)]
	if kingBB == 0 {
		return false
	}
	ks := bits.TrailingZeros64(kingBB)
	return b.IsSquareAttacked(Square(ks), color.Opposite())
}

// ==========================
// Legal move generation
// ==========================

// generateMovesFilteredInto is the core generator. It appends legal moves matching the filter into dst.
func (b *Board) generateMovesFilteredInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	// King square for local safety checks (EP simulation, king moves).
	kingBB := b.kings[us]
	ks := -1
	if kingBB != 0 {
		ks = bits.TrailingZeros64(kingBB)
	}

	inCheck, doubleCheck, checkMask, pinLine := b.computeCheckAndPins(side, allOcc)

	// allowed reports whether a non-king piece on 'from' may land on 'to'
	// given the pin and check constraints.
	allowed := func(pinMask, toBB uint64) bool {
		if doubleCheck {
			return false
		}
		if pinMask != 0 && toBB&pinMask == 0 {
			return false
		}
		if inCheck && toBB&checkMask == 0 {
			return false
		}
		return true
	}

	// Pawns
	pawns := b.pawns[us]
	for pawns != 0 {
		from := popLSB(&pawns)
		fromSq := Square(from)
		movedPiece := b.pieces[from]
		pinMask := pinLine[from]

		var one, two, promoRank, startRank, epCapOff int
		if side == White {
			one, two, promoRank, startRank, epCapOff = from+8, from+16, 7, 1, -8
		} else {
			one, two, promoRank, startRank, epCapOff = from-8, from-16, 0, 6, 8
		}

		if one >= 0 && one < 64 && (allOcc>>uint(one))&1 == 0 {
			toBB := uint64(1) << uint(one)
			if one/8 == promoRank {
				if filter != genCaptures && allowed(pinMask, toBB) {
					for _, pt := range promotionOrder {
						moves = append(moves, NewMove(fromSq, Square(one), movedPiece, NoPiece, PieceFromType(side, pt), FlagNone))
					}
				}
			} else {
				if filter != genCaptures && allowed(pinMask, toBB) {
					moves = append(moves, NewMove(fromSq, Square(one), movedPiece, NoPiece, NoPiece, FlagNone))
				}
				if from/8 == startRank && (allOcc>>uint(two))&1 == 0 {
					toBB2 := uint64(1) << uint(two)
					if filter != genCaptures && allowed(pinMask, toBB2) {
						moves = append(moves, NewMove(fromSq, Square(two), movedPiece, NoPiece, NoPiece, FlagDoublePush))
					}
				}
			}
		}

		caps := pawnAttacks[side][from]
		capTargets := caps & oppOcc
		for capTargets != 0 {
			to := popLSB(&capTargets)
			toBB := uint64(1) << uint(to)
			if filter == genQuiets || !allowed(pinMask, toBB) {
				continue
			}
			capPiece := b.pieces[to]
			if to/8 == promoRank {
				for _, pt := range promotionOrder {
					moves = append(moves, NewMove(fromSq, Square(to), movedPiece, capPiece, PieceFromType(side, pt), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(fromSq, Square(to), movedPiece, capPiece, NoPiece, FlagNone))
			}
		}

		// En passant: the capture removes a piece off the destination
		// square, so pin/check masks cannot be trusted. Simulate the
		// resulting occupancy and test king safety directly.
		if b.enPassantSquare != NoSquare && filter != genQuiets && ks >= 0 {
			ep := int(b.enPassantSquare)
			if caps&(1<<uint(ep)) != 0 && !doubleCheck {
				capSq := ep + epCapOff
				occp := allOcc
				occp &^= uint64(1) << uint(from)
				occp &^= uint64(1) << uint(capSq)
				occp |= uint64(1) << uint(ep)
				if !b.isSquareAttackedWithOcc(ks, Color(them), occp) {
					moves = append(moves, NewMove(fromSq, Square(ep), movedPiece, PieceFromType(side.Opposite(), PieceTypePawn), NoPiece, FlagEnPassant))
				}
			}
		}
	}

	// Knights, bishops, rooks and queens share the same target filtering.
	if !doubleCheck { // only the king can move in double check
		type pieceSet struct {
			bb      uint64
			attacks func(from int) uint64
		}
		sets := [4]pieceSet{
			{b.knights[us], func(from int) uint64 { return knightMoves[from] }},
			{b.bishops[us], func(from int) uint64 { return bishopAttacksLookup(from, allOcc) }},
			{b.rooks[us], func(from int) uint64 { return rookAttacksLookup(from, allOcc) }},
			{b.queens[us], func(from int) uint64 {
				return rookAttacksLookup(from, allOcc) | bishopAttacksLookup(from, allOcc)
			}},
		}
		for _, set := range sets {
			pieces := set.bb
			for pieces != 0 {
				from := popLSB(&pieces)
				fromSq := Square(from)
				movedPiece := b.pieces[from]

				targets := set.attacks(from) &^ ownOcc
				if pin := pinLine[from]; pin != 0 {
					targets &= pin
				}
				if inCheck {
					targets &= checkMask
				}
				if filter == genCaptures {
					targets &= oppOcc
				} else if filter == genQuiets {
					targets &^= oppOcc
				}

				for t := targets; t != 0; {
					to := popLSB(&t)
					var cap Piece = NoPiece
					if (oppOcc>>uint(to))&1 != 0 {
						cap = b.pieces[to]
					}
					moves = append(moves, NewMove(fromSq, Square(to), movedPiece, cap, NoPiece, FlagNone))
				}
			}
		}
	}

	// King moves: simulate occupancy so sliders see through the vacated square.
	if ks >= 0 {
		fromSq := Square(ks)
		movedPiece := b.pieces[ks]
		targets := kingMoves[ks] &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		} else if filter == genQuiets {
			targets &^= oppOcc
		}

		for t := targets; t != 0; {
			to := popLSB(&t)
			occp := allOcc
			occp &^= uint64(1) << uint(ks)
			occp |= uint64(1) << uint(to)
			if b.isSquareAttackedWithOcc(to, Color(them), occp) {
				continue
			}
			var cap Piece = NoPiece
			if (oppOcc>>uint(to))&1 != 0 {
				cap = b.pieces[to]
			}
			moves = append(moves, NewMove(fromSq, Square(to), movedPiece, cap, NoPiece, FlagNone))
		}

		// Castling: rights present, path empty, rook home, and neither the
		// king's square nor the transit squares attacked.
		if !inCheck && filter != genCaptures {
			if side == White {
				if b.castlingRights&CastlingWhiteK != 0 &&
					b.pieces[5] == NoPiece && b.pieces[6] == NoPiece && b.pieces[7] == WhiteRook &&
					!b.isSquareAttackedWithOcc(5, Black, allOcc) && !b.isSquareAttackedWithOcc(6, Black, allOcc) {
					moves = append(moves, NewMove(E1, G1, WhiteKing, NoPiece, NoPiece, FlagCastleKingside))
				}
				if b.castlingRights&CastlingWhiteQ != 0 &&
					b.pieces[1] == NoPiece && b.pieces[2] == NoPiece && b.pieces[3] == NoPiece && b.pieces[0] == WhiteRook &&
					!b.isSquareAttackedWithOcc(3, Black, allOcc) && !b.isSquareAttackedWithOcc(2, Black, allOcc) {
					moves = append(moves, NewMove(E1, C1, WhiteKing, NoPiece, NoPiece, FlagCastleQueenside))
				}
			} else {
				if b.castlingRights&CastlingBlackK != 0 &&
					b.pieces[61] == NoPiece && b.pieces[62] == NoPiece && b.pieces[63] == BlackRook &&
					!b.isSquareAttackedWithOcc(61, White, allOcc) && !b.isSquareAttackedWithOcc(62, White, allOcc) {
					moves = append(moves, NewMove(E8, G8, BlackKing, NoPiece, NoPiece, FlagCastleKingside))
				}
				if b.castlingRights&CastlingBlackQ != 0 &&
					b.pieces[57] == NoPiece && b.pieces[58] == NoPiece && b.pieces[59] == NoPiece && b.pieces[56] == BlackRook &&
					!b.isSquareAttackedWithOcc(59, White, allOcc) && !b.isSquareAttackedWithOcc(58, White, allOcc) {
					moves = append(moves, NewMove(E8, C8, BlackKing, NoPiece, NoPiece, FlagCastleQueenside))
				}
			}
		}
	}

	return moves
}

// promotionOrder is the emission order for promotion moves.
var promotionOrder = [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight}

// GenerateMoves generates all legal moves for the current side to move.
// It allocates a new slice; prefer GenerateMovesInto to reuse buffers in hot paths.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 128)) }

// GenerateMovesInto appends all legal moves for the side to move into dst and returns it.
// The dst slice is truncated (len=0) and reused to avoid allocations when capacity suffices.
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genAll)
}

// GenerateCapturesInto appends all legal captures (including en passant and capture promotions).
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genCaptures)
}

// GenerateQuietsInto appends all legal non-capturing moves (includes non-capturing promotions and castling).
func (b *Board) GenerateQuietsInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genQuiets)
}

// GenerateCaptures returns a newly allocated slice of legal capture moves.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 128)) }

// GenerateQuiets returns a newly allocated slice of legal non-capturing moves.
func (b *Board) GenerateQuiets() []Move { return b.GenerateQuietsInto(make([]Move, 0, 128)) }

// GivesCheck reports whether playing m would put the opponent's king in
// check, without mutating the board. It accounts for direct checks,
// discovered checks, en passant and the rook's post-castle square.
func (b *Board) GivesCheck(m Move) bool {
	us := int(b.sideToMove)
	them := 1 - us
	kbb := b.kings[them]
	if kbb == 0 {
		return false
	}
	ks := bits.TrailingZeros64(kbb)
	kBit := uint64(1) << uint(ks)

	from := int(m.From())
	to := int(m.To())
	occ := b.AllOccupancy()

	// Occupancy after the move.
	occp := occ &^ (uint64(1) << uint(from))
	occp |= uint64(1) << uint(to)
	switch m.Flags() {
	case FlagEnPassant:
		if b.sideToMove == White {
			occp &^= uint64(1) << uint(to-8)
		} else {
			occp &^= uint64(1) << uint(to+8)
		}
	case FlagCastleKingside, FlagCastleQueenside:
		rFrom, rTo := castleRookSquares(Square(to))
		occp &^= uint64(1) << uint(rFrom)
		occp |= uint64(1) << uint(rTo)
		if rookAttacksLookup(int(rTo), occp)&kBit != 0 {
			return true
		}
	}

	// Direct check by the piece landing on 'to'.
	dpiece := m.MovedPiece()
	if p := m.PromotionPiece(); p != NoPiece {
		dpiece = p
	}
	switch dpiece.Type() {
	case PieceTypePawn:
		if pawnAttacks[b.sideToMove][to]&kBit != 0 {
			return true
		}
	case PieceTypeKnight:
		if knightMoves[to]&kBit != 0 {
			return true
		}
	case PieceTypeBishop:
		if bishopAttacksLookup(to, occp)&kBit != 0 {
			return true
		}
	case PieceTypeRook:
		if rookAttacksLookup(to, occp)&kBit != 0 {
			return true
		}
	case PieceTypeQueen:
		if (rookAttacksLookup(to, occp)|bishopAttacksLookup(to, occp))&kBit != 0 {
			return true
		}
	}

	// Discovered check: our sliders seen from the enemy king under the new
	// occupancy, excluding the mover itself.
	rq := (b.rooks[us] | b.queens[us]) &^ (uint64(1) << uint(from))
	bq := (b.bishops[us] | b.queens[us]) &^ (uint64(1) << uint(from))
	if rookAttacksLookup(ks, occp)&rq&occp != 0 {
		return true
	}
	if bishopAttacksLookup(ks, occp)&bq&occp != 0 {
		return true
	}
	return false
}

// ==========================
// Pseudo-legal generation
// ==========================

// GeneratePseudoMovesInto appends all pseudo-legal moves (no king-safety filtering) into dst and returns it.
// Pseudo-legal obeys piece rules and blockers; castling requires rights and an empty path but ignores attacks on the path.
func (b *Board) GeneratePseudoMovesInto(dst []Move) []Move {
	moves := dst[:0]
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	pawns := b.pawns[us]
	for pawns != 0 {
		from := popLSB(&pawns)
		fromSq := Square(from)
		movedPiece := b.pieces[from]

		var one, two, promoRank, startRank int
		if side == White {
			one, two, promoRank, startRank = from+8, from+16, 7, 1
		} else {
			one, two, promoRank, startRank = from-8, from-16, 0, 6
		}

		if one >= 0 && one < 64 && (allOcc>>uint(one))&1 == 0 {
			if one/8 == promoRank {
				for _, pt := range promotionOrder {
					moves = append(moves, NewMove(fromSq, Square(one), movedPiece, NoPiece, PieceFromType(side, pt), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(fromSq, Square(one), movedPiece, NoPiece, NoPiece, FlagNone))
				if from/8 == startRank && (allOcc>>uint(two))&1 == 0 {
					moves = append(moves, NewMove(fromSq, Square(two), movedPiece, NoPiece, NoPiece, FlagDoublePush))
				}
			}
		}

		caps := pawnAttacks[side][from]
		capTargets := caps & oppOcc
		for capTargets != 0 {
			to := popLSB(&capTargets)
			capPiece := b.pieces[to]
			if to/8 == promoRank {
				for _, pt := range promotionOrder {
					moves = append(moves, NewMove(fromSq, Square(to), movedPiece, capPiece, PieceFromType(side, pt), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(fromSq, Square(to), movedPiece, capPiece, NoPiece, FlagNone))
			}
		}
		if b.enPassantSquare != NoSquare {
			ep := int(b.enPassantSquare)
			if caps&(1<<uint(ep)) != 0 {
				moves = append(moves, NewMove(fromSq, Square(ep), movedPiece, PieceFromType(side.Opposite(), PieceTypePawn), NoPiece, FlagEnPassant))
			}
		}
	}

	appendTargets := func(from int, targets uint64) {
		fromSq := Square(from)
		movedPiece := b.pieces[from]
		for t := targets &^ ownOcc; t != 0; {
			to := popLSB(&t)
			var cap Piece = NoPiece
			if (oppOcc>>uint(to))&1 != 0 {
				cap = b.pieces[to]
			}
			moves = append(moves, NewMove(fromSq, Square(to), movedPiece, cap, NoPiece, FlagNone))
		}
	}

	for knights := b.knights[us]; knights != 0; {
		from := popLSB(&knights)
		appendTargets(from, knightMoves[from])
	}
	for bishops := b.bishops[us]; bishops != 0; {
		from := popLSB(&bishops)
		appendTargets(from, bishopAttacksLookup(from, allOcc))
	}
	for rooks := b.rooks[us]; rooks != 0; {
		from := popLSB(&rooks)
		appendTargets(from, rookAttacksLookup(from, allOcc))
	}
	for queens := b.queens[us]; queens != 0; {
		from := popLSB(&queens)
		appendTargets(from, rookAttacksLookup(from, allOcc)|bishopAttacksLookup(from, allOcc))
	}

	if kingBB := b.kings[us]; kingBB != 0 {
		from := bits.TrailingZeros64(kingBB)
		appendTargets(from, kingMoves[from])

		if side == White {
			if b.castlingRights&CastlingWhiteK != 0 &&
				b.pieces[5] == NoPiece && b.pieces[6] == NoPiece && b.pieces[7] == WhiteRook {
				moves = append(moves, NewMove(E1, G1, WhiteKing, NoPiece, NoPiece, FlagCastleKingside))
			}
			if b.castlingRights&CastlingWhiteQ != 0 &&
				b.pieces[1] == NoPiece && b.pieces[2] == NoPiece && b.pieces[3] == NoPiece && b.pieces[0] == WhiteRook {
				moves = append(moves, NewMove(E1, C1, WhiteKing, NoPiece, NoPiece, FlagCastleQueenside))
			}
		} else {
			if b.castlingRights&CastlingBlackK != 0 &&
				b.pieces[61] == NoPiece && b.pieces[62] == NoPiece && b.pieces[63] == BlackRook {
				moves = append(moves, NewMove(E8, G8, BlackKing, NoPiece, NoPiece, FlagCastleKingside))
			}
			if b.castlingRights&CastlingBlackQ != 0 &&
				b.pieces[57] == NoPiece && b.pieces[58] == NoPiece && b.pieces[59] == NoPiece && b.pieces[56] == BlackRook {
				moves = append(moves, NewMove(E8, C8, BlackKing, NoPiece, NoPiece, FlagCastleQueenside))
			}
		}
	}

	return moves
}

// GeneratePseudoMoves returns all pseudo-legal moves (allocates a new slice).
func (b *Board) GeneratePseudoMoves() []Move { return b.GeneratePseudoMovesInto(make([]Move, 0, 128)) }
