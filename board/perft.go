package board

// Perft counts leaf nodes (move sequences) from the position for a given depth.
// Reuses per-depth buffers to avoid allocations.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	pc := perftCtx{bufs: make([][]Move, depth+1)}
	return perftRec(b, depth, &pc)
}

type perftCtx struct {
	bufs [][]Move
}

func (pc *perftCtx) bufFor(depth int) []Move {
	buf := pc.bufs[depth]
	if buf == nil {
		buf = make([]Move, 0, 256)
		pc.bufs[depth] = buf
	}
	return buf[:0]
}

func perftRec(b *Board, depth int, pc *perftCtx) uint64 {
	moves := b.GenerateMovesInto(pc.bufFor(depth))
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		st := b.MakeMove(m)
		nodes += perftRec(b, depth-1, pc)
		b.UnmakeMove(m, st)
	}
	return nodes
}

// PerftDivide returns a map from each legal root move to the number of leaf
// nodes reachable through it at the given depth. Useful for debugging.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.GenerateMoves() {
		st := b.MakeMove(m)
		result[m] = Perft(b, depth-1)
		b.UnmakeMove(m, st)
	}
	return result
}
