package board

import "fmt"

// MoveState holds the minimal state needed to undo a move.
type MoveState struct {
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// NullState stores the minimal information needed to undo a null move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevSide      Color
}

// castleRookSquares maps a castling king destination to the rook's
// source and destination squares.
func castleRookSquares(kingTo Square) (rookFrom, rookTo Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	return NoSquare, NoSquare
}

// Apply returns a new position with the move played. The receiver is not
// modified. The move must be a member of the receiver's legal move set;
// otherwise Apply returns an error wrapping ErrIllegalMove.
func (b *Board) Apply(m Move) (*Board, error) {
	legal := b.GenerateMovesInto(make([]Move, 0, 64))
	found := false
	for _, lm := range legal {
		if lm == m {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s is not legal in %s", ErrIllegalMove, m, b.ToFEN())
	}
	next := *b
	next.MakeMove(m)
	return &next, nil
}

// FindMove searches the legal move set for a move matching the given
// source, destination and promotion type. Returns the zero Move and
// false when no legal move matches.
func (b *Board) FindMove(from, to Square, promo PieceType) (Move, bool) {
	for _, m := range b.GenerateMovesInto(make([]Move, 0, 64)) {
		if m.From() == from && m.To() == to && m.PromotionPieceType() == promo {
			return m, true
		}
	}
	return 0, false
}

// MakeMove applies a legal move in place and returns the state needed to
// undo it. The move must come from the position's legal move set; feeding
// anything else corrupts the board.
func (b *Board) MakeMove(m Move) MoveState {
	st := MoveState{
		captured:      NoPiece,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
	}

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()
	mover := b.sideToMove

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.enPassantSquare = NoSquare

	// Capture first so the destination square is free.
	switch {
	case flag == FlagEnPassant:
		capSq := to - 8
		if mover == Black {
			capSq = to + 8
		}
		st.captured = b.removePiece(capSq)
	case m.CapturedPiece() != NoPiece:
		st.captured = b.removePiece(to)
	}

	b.removePiece(from)
	if promo != NoPiece {
		b.addPiece(to, promo)
	} else {
		b.addPiece(to, moved)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(to)
		b.addPiece(rookTo, b.removePiece(rookFrom))
	}

	// Castling rights: king or rook leaving home, or a rook captured on
	// its home square, removes the corresponding flags.
	newCR := b.castlingRights
	switch moved {
	case WhiteKing:
		newCR &^= CastlingWhiteK | CastlingWhiteQ
	case BlackKing:
		newCR &^= CastlingBlackK | CastlingBlackQ
	case WhiteRook:
		if from == A1 {
			newCR &^= CastlingWhiteQ
		} else if from == H1 {
			newCR &^= CastlingWhiteK
		}
	case BlackRook:
		if from == A8 {
			newCR &^= CastlingBlackQ
		} else if from == H8 {
			newCR &^= CastlingBlackK
		}
	}
	if st.captured != NoPiece && st.captured.Type() == PieceTypeRook {
		switch to {
		case A1:
			newCR &^= CastlingWhiteQ
		case H1:
			newCR &^= CastlingWhiteK
		case A8:
			newCR &^= CastlingBlackQ
		case H8:
			newCR &^= CastlingBlackK
		}
	}
	if newCR != b.castlingRights {
		b.zobristKey ^= zobristCastle[int(b.castlingRights)]
		b.zobristKey ^= zobristCastle[int(newCR)]
		b.castlingRights = newCR
	}

	if flag == FlagDoublePush {
		ep := from + 8
		if mover == Black {
			ep = from - 8
		}
		b.enPassantSquare = ep
		b.zobristKey ^= zobristEnPassant[ep.File()]
	}

	if moved.Type() == PieceTypePawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if mover == Black {
		b.fullmoveNumber++
	}

	b.sideToMove = mover.Opposite()
	b.zobristKey ^= zobristSide
	return st
}

// UnmakeMove undoes a previously made move, restoring board state.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.sideToMove = b.sideToMove.Opposite()
	mover := b.sideToMove

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()

	b.removePiece(to)
	b.addPiece(from, moved)

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(to)
		b.addPiece(rookFrom, b.removePiece(rookTo))
	}

	if st.captured != NoPiece {
		capSq := to
		if m.Flags() == FlagEnPassant {
			capSq = to - 8
			if mover == Black {
				capSq = to + 8
			}
		}
		b.addPiece(capSq, st.captured)
	}

	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	// Exact restoration; cheaper than replaying the incremental updates.
	b.zobristKey = st.prevZobrist
}

// MakeNullMove switches the side to move without moving a piece. Used to
// ask what the mover would threaten if the opponent passed.
func (b *Board) MakeNullMove() NullState {
	st := NullState{
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
		prevSide:      b.sideToMove,
	}
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.enPassantSquare = NoSquare
	b.halfmoveClock++
	if b.sideToMove == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = b.sideToMove.Opposite()
	b.zobristKey ^= zobristSide
	return st
}

// UnmakeNullMove restores the board to the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobrist
}
