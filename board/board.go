// Package board implements the position representation used by the motif
// analysis core: bitboard piece placement, precomputed attack tables and
// full legal move generation.
package board

import "math/bits"

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return colorOf(p) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone || pt > PieceTypeKing {
		return NoPiece
	}
	p := Piece(pt)
	if color == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return 1 - c }

// CastlingRights is a bitmask of the four independent castling flags.
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ
)

// Square represents a board position (0-63), bit index = rank*8 + file.
type Square int

const NoSquare Square = -1

// Named squares, a1 = 0, h8 = 63.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns the square's file in [0..7].
func (s Square) File() int { return int(s) % 8 }

// Rank returns the square's rank in [0..7].
func (s Square) Rank() int { return int(s) / 8 }

// SquareAt builds a square from file and rank, both in [0..7].
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// String returns the algebraic name of the square (e.g. "e4").
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// Bitboards exposes the per-piece bitboards for one side.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Board represents a chess position: piece placement plus game state.
// A Board produced by ParseFEN or Apply always satisfies the placement
// invariants (per-piece bitboards mutually exclusive, occupancy equal to
// their union); Validate checks them.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64

	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	pieces [64]Piece

	sideToMove      Color
	castlingRights  CastlingRights
	enPassantSquare Square // NoSquare unless a double push just happened

	// Halfmove clock (half-moves since last capture or pawn advance)
	halfmoveClock int
	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int

	zobristKey uint64
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	buf := make([]Move, 0, 64)
	return len(b.GenerateMovesInto(buf)) > 0
}

// InCheckmate reports whether the side to move is checkmated: in check
// with an empty legal move set.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated: not in
// check but with an empty legal move set.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// HalfmoveClock returns the half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRightsMask returns the current castling rights bitmask.
func (b *Board) CastlingRightsMask() CastlingRights { return b.castlingRights }

// Hash returns the current Zobrist hash key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// KingSquare returns the king square of the given color, or NoSquare if
// the board has no such king (structurally invalid positions only).
func (b *Board) KingSquare(c Color) Square {
	kbb := b.kings[int(c)]
	if kbb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kbb))
}

// Bitboards returns the per-piece bitboards for the requested side.
func (b *Board) Bitboards(color Color) Bitboards {
	idx := int(color)
	return Bitboards{
		Pawns:   b.pawns[idx],
		Knights: b.knights[idx],
		Bishops: b.bishops[idx],
		Rooks:   b.rooks[idx],
		Queens:  b.queens[idx],
		Kings:   b.kings[idx],
		All:     b.occupancy[idx],
	}
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	x := *mask & -(*mask)
	idx := bits.TrailingZeros64(x)
	*mask &= *mask - 1
	return idx
}

// ==========================
// Board occupancy helpers
// ==========================

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// colorOf returns the color of a piece. NoPiece is treated as White.
func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// typeOf returns the piece type in [1..6] with color stripped.
func typeOf(p Piece) Piece { return p & 7 }

// addPiece places a piece on an empty square and updates bitboards, occupancy and zobrist.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	idx := int(sq)
	b.pieces[idx] = p
	ci := int(colorOf(p))
	b.occupancy[ci] |= bb(sq)
	switch p.Type() {
	case PieceTypePawn:
		b.pawns[ci] |= bb(sq)
	case PieceTypeKnight:
		b.knights[ci] |= bb(sq)
	case PieceTypeBishop:
		b.bishops[ci] |= bb(sq)
	case PieceTypeRook:
		b.rooks[ci] |= bb(sq)
	case PieceTypeQueen:
		b.queens[ci] |= bb(sq)
	case PieceTypeKing:
		b.kings[ci] |= bb(sq)
	}
	b.zobristKey ^= zobristPiece[p][idx]
}

// removePiece removes a piece from a square and updates bitboards, occupancy and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	idx := int(sq)
	p := b.pieces[idx]
	if p == NoPiece {
		return NoPiece
	}
	ci := int(colorOf(p))
	mask := ^bb(sq)
	b.pieces[idx] = NoPiece
	b.occupancy[ci] &= mask
	switch p.Type() {
	case PieceTypePawn:
		b.pawns[ci] &= mask
	case PieceTypeKnight:
		b.knights[ci] &= mask
	case PieceTypeBishop:
		b.bishops[ci] &= mask
	case PieceTypeRook:
		b.rooks[ci] &= mask
	case PieceTypeQueen:
		b.queens[ci] &= mask
	case PieceTypeKing:
		b.kings[ci] &= mask
	}
	b.zobristKey ^= zobristPiece[p][idx]
	return p
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps state in sync.
// Intended for position setup and tests; it does not touch the clocks.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.removePiece(sq)
	b.addPiece(sq, p)
}

// ClearSquare removes any piece from the given square.
func (b *Board) ClearSquare(sq Square) { _ = b.removePiece(sq) }

// Validate checks internal consistency between pieces[], per-piece
// bitboards, occupancy and the Zobrist key.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		ci := int(colorOf(p))
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch p.Type() {
		case PieceTypePawn:
			pawns[ci] |= bit
		case PieceTypeKnight:
			knights[ci] |= bit
		case PieceTypeBishop:
			bishops[ci] |= bit
		case PieceTypeRook:
			rooks[ci] |= bit
		case PieceTypeQueen:
			queens[ci] |= bit
		case PieceTypeKing:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops ||
		rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	if occ[0]&occ[1] != 0 {
		return false
	}
	return b.zobristKey == b.ComputeZobrist()
}
