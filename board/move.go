package board

// Move encodes a chess move in a 32-bit value.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveFlagShift    = 24 // 3 bits
)

// Move flags. Promotion is indicated by a non-zero promotion piece.
const (
	FlagNone uint8 = iota
	FlagCastleKingside
	FlagCastleQueenside
	FlagEnPassant
	FlagDoublePush
)

// MoveKind classifies a move for consumers that care about its shape
// rather than its encoding.
type MoveKind uint8

const (
	MoveQuiet MoveKind = iota
	MoveCapture
	MoveEnPassant
	MoveCastleKingside
	MoveCastleQueenside
	MoveDoublePush
)

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(flag&0x7) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece code that is moved.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the piece code that was captured (or NoPiece if none).
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// PromotionPiece returns the promotion piece code (or NoPiece if not a promotion).
func (m Move) PromotionPiece() Piece { return Piece((uint32(m) >> movePromoteShift) & 0xF) }

// PromotionPieceType returns the colorless type of the promoted piece (or PieceTypeNone).
func (m Move) PromotionPieceType() PieceType { return m.PromotionPiece().Type() }

// Flags returns the special move flag.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x7) }

// IsCastle reports whether the move is a castling move of either side.
func (m Move) IsCastle() bool {
	f := m.Flags()
	return f == FlagCastleKingside || f == FlagCastleQueenside
}

// Kind classifies the move.
func (m Move) Kind() MoveKind {
	switch m.Flags() {
	case FlagCastleKingside:
		return MoveCastleKingside
	case FlagCastleQueenside:
		return MoveCastleQueenside
	case FlagEnPassant:
		return MoveEnPassant
	case FlagDoublePush:
		return MoveDoublePush
	}
	if m.CapturedPiece() != NoPiece {
		return MoveCapture
	}
	return MoveQuiet
}

// String produces the coordinate representation of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	buf := []byte{
		'a' + byte(m.From()%8), '1' + byte(m.From()/8),
		'a' + byte(m.To()%8), '1' + byte(m.To()/8),
	}
	if promo := m.PromotionPiece(); promo != NoPiece {
		switch promo.Type() {
		case PieceTypeKnight:
			buf = append(buf, 'n')
		case PieceTypeBishop:
			buf = append(buf, 'b')
		case PieceTypeRook:
			buf = append(buf, 'r')
		case PieceTypeQueen:
			buf = append(buf, 'q')
		}
	}
	return string(buf)
}
