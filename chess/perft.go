package chess

// Perft returns the number of leaf nodes at the given depth from p (depth 0 = 1).
// The position is restored before returning.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	pc := perftCtx{bufs: make([][]Move, depth+1)}
	return perftRec(p, depth, &pc)
}

type perftCtx struct {
	bufs [][]Move
}

func (pc *perftCtx) bufFor(depth int) []Move {
	if depth >= len(pc.bufs) {
		pc.bufs = append(pc.bufs, nil)
		depth = len(pc.bufs) - 1
	}
	buf := pc.bufs[depth]
	if buf == nil {
		buf = make([]Move, 0, 256)
		pc.bufs[depth] = buf
	}
	return buf[:0]
}

func perftRec(p *Position, depth int, pc *perftCtx) uint64 {
	moves := p.GenerateLegalMovesInto(pc.bufFor(depth))
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		rm := p.DoMove(m)
		nodes += perftRec(p, depth-1, pc)
		p.UndoMove(rm)
	}
	return nodes
}

// PerftDivide returns the leaf count below each legal root move.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range p.GenerateLegalMoves() {
		rm := p.DoMove(m)
		result[m] = Perft(p, depth-1)
		p.UndoMove(rm)
	}
	return result
}
