package board

import "math/rand"

// Zobrist hashing tables for pieces, castling, en passant, and side to move.
var zobristPiece [15][64]uint64 // indexed by piece code and square
var zobristCastle [16]uint64    // indexed by castling rights state
var zobristEnPassant [8]uint64  // indexed by en passant file
var zobristSide uint64          // xored in when Black is to move

func init() {
	// Fixed seed so hashes are reproducible across runs and in tests.
	rnd := rand.New(rand.NewSource(0xC0DE))

	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist calculates the Zobrist hash of the position from scratch.
// Moves maintain the hash incrementally; this is the reference value.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[int(b.castlingRights)]
	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	return key
}
