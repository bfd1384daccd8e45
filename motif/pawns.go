package motif

import (
	"math/bits"

	"chess-motifs/board"
)

func init() {
	Register("pawn-structure", detectPawnStructure)
	Register("outpost", detectOutposts)
}

// adjacentFileTable[f] masks file f together with its neighbours.
var adjacentFileTable = [8]uint64{
	0x0303030303030303,
	0x0707070707070707,
	0x0e0e0e0e0e0e0e0e,
	0x1c1c1c1c1c1c1c1c,
	0x3838383838383838,
	0x7070707070707070,
	0xe0e0e0e0e0e0e0e0,
	0xc0c0c0c0c0c0c0c0,
}

// ranksFrom[r] covers every square on rank r and above; ranksUpTo[r]
// every square on rank r and below.
var ranksFrom = [8]uint64{
	0xffffffffffffffff, 0xffffffffffffff00, 0xffffffffffff0000, 0xffffffffff000000,
	0xffffffff00000000, 0xffffff0000000000, 0xffff000000000000, 0xff00000000000000,
}

var ranksUpTo = [8]uint64{
	0x00000000000000ff, 0x000000000000ffff, 0x0000000000ffffff, 0x00000000ffffffff,
	0x000000ffffffffff, 0x0000ffffffffffff, 0x00ffffffffffffff, 0xffffffffffffffff,
}

// Outposts only count off the rook files and in the opponent's half.
const (
	whiteOutpostZone uint64 = 0x00007e7e7e000000
	blackOutpostZone uint64 = 0x0000007e7e7e0000
)

func fileMask(f int) uint64 { return 0x0101010101010101 << uint(f) }

// detectPawnStructure reports isolated, doubled and backward pawns for
// both sides. Structural weaknesses are long-term features, not forcing
// lines, so every instance is Possible. Doubled pawns are reported once
// per file with all pawns on it; the other kinds once per pawn.
func detectPawnStructure(p *Ply) []Instance {
	var out []Instance
	for _, side := range []board.Color{board.White, board.Black} {
		out = append(out, pawnWeaknesses(p, side)...)
	}
	return out
}

func pawnWeaknesses(p *Ply, side board.Color) []Instance {
	b := p.Board
	ownPawns := b.Bitboards(side).Pawns
	enemyPawns := b.Bitboards(side.Opposite()).Pawns

	var out []Instance
	for f := 0; f < 8; f++ {
		onFile := ownPawns & fileMask(f)
		if bits.OnesCount64(onFile) < 2 {
			continue
		}
		inst := Instance{Kind: KindDoubledPawn, Ply: p.Index, Confidence: Possible}
		for bb := onFile; bb != 0; bb &= bb - 1 {
			sq := board.Square(bits.TrailingZeros64(bb))
			inst.Squares = append(inst.Squares, sq)
			inst.Pieces = append(inst.Pieces, b.PieceAt(sq))
		}
		out = append(out, inst)
	}

	for bb := ownPawns; bb != 0; bb &= bb - 1 {
		sq := board.Square(bits.TrailingZeros64(bb))
		pawn := b.PieceAt(sq)
		if isolated(sq, ownPawns) {
			out = append(out, Instance{
				Kind:       KindIsolatedPawn,
				Ply:        p.Index,
				Squares:    []board.Square{sq},
				Pieces:     []board.Piece{pawn},
				Confidence: Possible,
			})
			continue
		}
		if backward(side, sq, ownPawns, enemyPawns) {
			out = append(out, Instance{
				Kind:       KindBackwardPawn,
				Ply:        p.Index,
				Squares:    []board.Square{sq},
				Pieces:     []board.Piece{pawn},
				Confidence: Possible,
			})
		}
	}
	return out
}

func isolated(sq board.Square, ownPawns uint64) bool {
	neighbours := adjacentFileTable[sq.File()] &^ fileMask(sq.File())
	return ownPawns&neighbours == 0
}

// backward: no friendly pawn on an adjacent file level with or behind
// this one, and the stop square is controlled by an enemy pawn, so the
// pawn cannot safely advance to rejoin its chain.
func backward(side board.Color, sq board.Square, ownPawns, enemyPawns uint64) bool {
	neighbours := adjacentFileTable[sq.File()] &^ fileMask(sq.File())
	var behind uint64
	var stop board.Square
	if side == board.White {
		behind = ranksUpTo[sq.Rank()]
		stop = sq + 8
	} else {
		behind = ranksFrom[sq.Rank()]
		stop = sq - 8
	}
	if ownPawns&neighbours&behind != 0 {
		return false
	}
	if stop < 0 || stop > 63 {
		return false
	}
	return board.PawnAttacksFrom(side, stop)&enemyPawns != 0
}

// detectOutposts reports minor pieces sitting on outposts: squares in
// the opponent's half, off the rook files, defended by a friendly pawn
// and out of reach of enemy pawns.
func detectOutposts(p *Ply) []Instance {
	var out []Instance
	for _, side := range []board.Color{board.White, board.Black} {
		out = append(out, outpostsFor(p, side)...)
	}
	return out
}

func outpostsFor(p *Ply, side board.Color) []Instance {
	b := p.Board
	own := b.Bitboards(side)
	enemyPawns := b.Bitboards(side.Opposite()).Pawns

	zone := whiteOutpostZone
	if side == board.Black {
		zone = blackOutpostZone
	}

	var out []Instance
	minors := (own.Knights | own.Bishops) & zone
	for minors != 0 {
		sq := board.Square(bits.TrailingZeros64(minors))
		minors &= minors - 1

		// Defended by a friendly pawn: a pawn of the opposite color on
		// this square would attack exactly the defenders' squares.
		if board.PawnAttacksFrom(side.Opposite(), sq)&own.Pawns == 0 {
			continue
		}
		if enemyPawnCanEvict(side, sq, enemyPawns) {
			continue
		}
		out = append(out, Instance{
			Kind:       KindOutpost,
			Ply:        p.Index,
			Squares:    []board.Square{sq},
			Pieces:     []board.Piece{b.PieceAt(sq)},
			Confidence: Possible,
		})
	}
	return out
}

// enemyPawnCanEvict: an enemy pawn on an adjacent file ahead of sq can
// eventually advance and attack it.
func enemyPawnCanEvict(side board.Color, sq board.Square, enemyPawns uint64) bool {
	neighbours := adjacentFileTable[sq.File()] &^ fileMask(sq.File())
	var ahead uint64
	if side == board.White {
		if sq.Rank() == 7 {
			return false
		}
		ahead = ranksFrom[sq.Rank()+1]
	} else {
		if sq.Rank() == 0 {
			return false
		}
		ahead = ranksUpTo[sq.Rank()-1]
	}
	return enemyPawns&neighbours&ahead != 0
}
