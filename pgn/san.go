package pgn

import (
	"strings"

	"chess-motifs/board"
)

// MatchSAN resolves a SAN token against the legal moves of b. Check,
// mate and annotation suffixes are ignored; disambiguation is honored
// when present and unnecessary disambiguation is tolerated.
func MatchSAN(b *board.Board, san string) (board.Move, bool) {
	clean := strings.TrimRight(san, "+#!?")
	if clean == "" {
		return 0, false
	}

	switch clean {
	case "O-O", "0-0":
		return findCastle(b, board.FlagCastleKingside)
	case "O-O-O", "0-0-0":
		return findCastle(b, board.FlagCastleQueenside)
	}

	spec, ok := parseSAN(clean)
	if !ok {
		return 0, false
	}

	var found board.Move
	matches := 0
	for _, m := range b.GenerateMoves() {
		if m.IsCastle() {
			continue
		}
		if m.MovedPiece().Type() != spec.piece || m.To() != spec.to {
			continue
		}
		if m.PromotionPiece().Type() != spec.promotion {
			continue
		}
		if spec.fromFile >= 0 && m.From().File() != spec.fromFile {
			continue
		}
		if spec.fromRank >= 0 && m.From().Rank() != spec.fromRank {
			continue
		}
		found = m
		matches++
	}
	if matches != 1 {
		return 0, false
	}
	return found, true
}

func findCastle(b *board.Board, flag uint8) (board.Move, bool) {
	for _, m := range b.GenerateMoves() {
		if m.Flags() == flag {
			return m, true
		}
	}
	return 0, false
}

type sanSpec struct {
	piece     board.PieceType
	to        board.Square
	promotion board.PieceType
	fromFile  int // -1 when absent
	fromRank  int
}

var sanPieceLetters = map[byte]board.PieceType{
	'K': board.PieceTypeKing,
	'Q': board.PieceTypeQueen,
	'R': board.PieceTypeRook,
	'B': board.PieceTypeBishop,
	'N': board.PieceTypeKnight,
}

// parseSAN decomposes a SAN move body: optional piece letter, optional
// file/rank disambiguation, optional capture marker, destination square,
// optional =Piece promotion.
func parseSAN(s string) (sanSpec, bool) {
	spec := sanSpec{piece: board.PieceTypePawn, fromFile: -1, fromRank: -1}

	if pt, ok := sanPieceLetters[s[0]]; ok {
		spec.piece = pt
		s = s[1:]
	}

	if i := strings.IndexByte(s, '='); i >= 0 {
		if i != len(s)-2 || spec.piece != board.PieceTypePawn {
			return spec, false
		}
		pt, ok := sanPieceLetters[s[len(s)-1]]
		if !ok || pt == board.PieceTypeKing {
			return spec, false
		}
		spec.promotion = pt
		s = s[:i]
	}

	if len(s) < 2 {
		return spec, false
	}
	toFile := int(s[len(s)-2] - 'a')
	toRank := int(s[len(s)-1] - '1')
	if toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return spec, false
	}
	spec.to = board.Square(toRank*8 + toFile)
	s = s[:len(s)-2]

	s = strings.TrimSuffix(s, "x")
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'a' && c <= 'h':
			spec.fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			spec.fromRank = int(c - '1')
		default:
			return spec, false
		}
	}
	return spec, true
}
