package board

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	switch p {
	case WhitePawn:
		return 'P'
	case WhiteKnight:
		return 'N'
	case WhiteBishop:
		return 'B'
	case WhiteRook:
		return 'R'
	case WhiteQueen:
		return 'Q'
	case WhiteKing:
		return 'K'
	case BlackPawn:
		return 'p'
	case BlackKnight:
		return 'n'
	case BlackBishop:
		return 'b'
	case BlackRook:
		return 'r'
	case BlackQueen:
		return 'q'
	case BlackKing:
		return 'k'
	default:
		return '?'
	}
}

// ParseFEN parses a FEN string and returns a new Board set up to that
// position. Errors wrap ErrMalformedPosition, for syntax problems as well
// as structurally impossible positions (missing or duplicated kings,
// pawns on the back ranks, side not to move left in check).
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrMalformedPosition, len(fields))
	}

	board := &Board{
		enPassantSquare: NoSquare,
		fullmoveNumber:  1,
	}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrMalformedPosition, len(ranks))
	}
	for i, rankStr := range ranks {
		rankIndex := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return nil, fmt.Errorf("%w: unrecognized piece character %q", ErrMalformedPosition, ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: too many squares in rank %d", ErrMalformedPosition, rankIndex+1)
			}
			board.addPiece(SquareAt(file, rankIndex), piece)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d does not describe 8 files", ErrMalformedPosition, rankIndex+1)
		}
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move must be 'w' or 'b', got %q", ErrMalformedPosition, fields[1])
	}

	// 3. Castling rights
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				board.castlingRights |= CastlingWhiteK
			case 'Q':
				board.castlingRights |= CastlingWhiteQ
			case 'k':
				board.castlingRights |= CastlingBlackK
			case 'q':
				board.castlingRights |= CastlingBlackQ
			default:
				return nil, fmt.Errorf("%w: invalid castling rights character %q", ErrMalformedPosition, ch)
			}
		}
	}

	// 4. En passant target square
	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, fmt.Errorf("%w: invalid en passant square %q", ErrMalformedPosition, fields[3])
		}
		fileChar, rankChar := fields[3][0], fields[3][1]
		if fileChar < 'a' || fileChar > 'h' || (rankChar != '3' && rankChar != '6') {
			return nil, fmt.Errorf("%w: en passant square %q out of range", ErrMalformedPosition, fields[3])
		}
		board.enPassantSquare = SquareAt(int(fileChar-'a'), int(rankChar-'1'))
	}

	// 5. Halfmove clock
	if len(fields) > 4 {
		halfmove, err := strconv.Atoi(fields[4])
		if err != nil || halfmove < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q is not a non-negative number", ErrMalformedPosition, fields[4])
		}
		board.halfmoveClock = halfmove
	}

	// 6. Fullmove number
	if len(fields) > 5 {
		fullmove, err := strconv.Atoi(fields[5])
		if err != nil || fullmove < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q is not a positive number", ErrMalformedPosition, fields[5])
		}
		board.fullmoveNumber = fullmove
	}

	if err := board.checkStructure(); err != nil {
		return nil, err
	}

	board.zobristKey = board.ComputeZobrist()
	return board, nil
}

// checkStructure rejects positions that cannot arise in a chess game and
// would break the move generator's assumptions.
func (b *Board) checkStructure() error {
	for _, c := range [2]Color{White, Black} {
		if n := bits.OnesCount64(b.kings[int(c)]); n != 1 {
			return fmt.Errorf("%w: expected exactly 1 %s king, got %d", ErrMalformedPosition, colorName(c), n)
		}
	}
	const backRanks = 0xFF000000000000FF
	if (b.pawns[0]|b.pawns[1])&backRanks != 0 {
		return fmt.Errorf("%w: pawn on first or last rank", ErrMalformedPosition)
	}
	// The side that just moved may not have left its king in check.
	if b.InCheck(b.sideToMove.Opposite()) {
		return fmt.Errorf("%w: side not to move is in check", ErrMalformedPosition)
	}
	return nil
}

func colorName(c Color) string {
	if c == White {
		return "white"
	}
	return "black"
}

// ToFEN produces the FEN string representation of the board's current state.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte('0' + byte(emptyCount))
				emptyCount = 0
			}
			sb.WriteRune(charFromPiece(p))
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	sb.WriteString(b.enPassantSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}

// StartingPosition returns a board set up for a new game.
func StartingPosition() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return b
}
