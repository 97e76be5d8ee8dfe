package chess

// MoveLegalityChecker answers "is this pseudo-legal move legal?" in constant time
// for everything except king moves and en passant, which are replayed directly.
// Build one per position; it is invalid once the position changes.
type MoveLegalityChecker struct {
	pos *Position

	ksq      Square
	checkers Bitboard
	blockers Bitboard
	// evasions are the squares a non-king move must land on to resolve a single check.
	evasions Bitboard
}

func NewMoveLegalityChecker(p *Position) MoveLegalityChecker {
	c := MoveLegalityChecker{
		pos:      p,
		ksq:      p.KingSquare(p.sideToMove),
		checkers: p.Checkers(),
		blockers: p.BlockersForKing(p.sideToMove),
		evasions: FullBB,
	}
	if c.checkers != 0 && !c.checkers.MoreThanOne() {
		cs := c.checkers.First()
		c.evasions = c.checkers | Between(c.ksq, cs)
	}
	return c
}

// IsPseudoLegalMoveLegal reports whether the pseudo-legal move m keeps the mover's king safe.
func (c *MoveLegalityChecker) IsPseudoLegalMoveLegal(m Move) bool {
	if m.IsNull() {
		return false
	}
	if m.Kind == MoveEnPassant || c.pos.board.pieces[m.From].Type() == PieceTypeKing {
		return !c.pos.leavesKingInCheck(m)
	}
	if c.checkers.MoreThanOne() {
		return false
	}
	if c.checkers != 0 {
		return c.evasions.Has(m.To) && !c.blockers.Has(m.From)
	}
	if c.blockers.Has(m.From) {
		return Line(c.ksq, m.From).Has(m.To)
	}
	return true
}
