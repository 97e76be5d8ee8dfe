package chess

// promotionTypes is the order in which promotions are generated and indexed.
var promotionTypes = [4]PieceType{PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen}

// castleOptions backs the slices returned by CastlingOptions.
var castleOptions = [2]CastleType{CastleLong, CastleShort}

func pawnPush(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

func pawnStartRank(c Color) Rank {
	if c == White {
		return Rank2
	}
	return Rank7
}

// promotionSourceRank is the rank a pawn of color c promotes from.
func promotionSourceRank(c Color) Rank {
	if c == White {
		return Rank7
	}
	return Rank2
}

// PieceDestinations returns the pseudo-legal destination squares of the piece on from.
// Pawns get pushes, double pushes, captures and the en passant target; kings get their
// attacks minus own pieces (castling is reported by CastlingOptions); other pieces get
// their attacks minus own pieces.
func (p *Position) PieceDestinations(from Square) Bitboard {
	pc := p.board.pieces[from]
	us := pc.Color()
	occ := p.board.Occupied()
	switch pc.Type() {
	case PieceTypePawn:
		targets := p.board.colorBB[us.Opposite()]
		if us == p.sideToMove && p.epSquare != NoSquare {
			targets |= SquareBB(p.epSquare)
		}
		dest := pawnAttacks[us][from] & targets
		one := Square(int(from) + pawnPush(us))
		if one.IsOK() && !occ.Has(one) {
			dest |= SquareBB(one)
			if from.Rank() == pawnStartRank(us) {
				if two := Square(int(one) + pawnPush(us)); !occ.Has(two) {
					dest |= SquareBB(two)
				}
			}
		}
		return dest
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen, PieceTypeKing:
		return Attacks(pc, from, occ) &^ p.board.colorBB[us]
	case PieceTypeNone:
		return 0
	}
	return 0
}

// CastlingOptions returns the castle types c still has the right to, long before short.
// Path and attack conditions are not checked.
func (p *Position) CastlingOptions(c Color) []CastleType {
	long := p.castling.Has(castlingRight(c, CastleLong))
	short := p.castling.Has(castlingRight(c, CastleShort))
	switch {
	case long && short:
		return castleOptions[:]
	case long:
		return castleOptions[:1]
	case short:
		return castleOptions[1:]
	}
	return nil
}

// canCastle checks, in order: path between king and rook empty, king not attacked,
// the square the king crosses not attacked, destination not attacked.
func (p *Position) canCastle(c Color, ct CastleType) bool {
	kingFrom, rookFrom := castleKingFrom(c), castleRookFrom(c, ct)
	if p.board.pieces[kingFrom] != PieceOf(PieceTypeKing, c) || p.board.pieces[rookFrom] != PieceOf(PieceTypeRook, c) {
		return false
	}
	if Between(kingFrom, rookFrom)&p.board.Occupied() != 0 {
		return false
	}
	them := c.Opposite()
	if p.IsSquareAttacked(kingFrom, them) {
		return false
	}
	kingTo := castleKingTo(c, ct)
	crossed := Square((int(kingFrom) + int(kingTo)) / 2)
	if p.IsSquareAttacked(crossed, them) {
		return false
	}
	return !p.IsSquareAttacked(kingTo, them)
}

// appendPieceMoves expands a destination set into moves for the piece on from.
func (p *Position) appendPieceMoves(dst []Move, from Square, dest Bitboard) []Move {
	pc := p.board.pieces[from]
	if pc.Type() != PieceTypePawn {
		for dest != 0 {
			dst = append(dst, NormalMove(from, dest.PopFirst()))
		}
		return dst
	}
	promoting := from.Rank() == promotionSourceRank(pc.Color())
	for dest != 0 {
		to := dest.PopFirst()
		switch {
		case promoting:
			for _, pt := range promotionTypes {
				dst = append(dst, PromotionMove(from, to, PieceOf(pt, pc.Color())))
			}
		case to == p.epSquare:
			dst = append(dst, EnPassantMove(from, to))
		default:
			dst = append(dst, NormalMove(from, to))
		}
	}
	return dst
}

// GeneratePseudoLegalMovesInto appends every pseudo-legal move for the side to move
// to dst[:0]. Castling moves are only produced when all castling conditions hold.
func (p *Position) GeneratePseudoLegalMovesInto(dst []Move) []Move {
	dst = dst[:0]
	us := p.sideToMove
	for own := p.board.colorBB[us]; own != 0; {
		from := own.PopFirst()
		dst = p.appendPieceMoves(dst, from, p.PieceDestinations(from))
	}
	for _, ct := range p.CastlingOptions(us) {
		if p.canCastle(us, ct) {
			dst = append(dst, CastleMove(ct, us))
		}
	}
	return dst
}

func (p *Position) GeneratePseudoLegalMoves() []Move {
	return p.GeneratePseudoLegalMovesInto(make([]Move, 0, 128))
}

// GenerateLegalMovesInto appends every legal move for the side to move to dst[:0].
func (p *Position) GenerateLegalMovesInto(dst []Move) []Move {
	dst = p.GeneratePseudoLegalMovesInto(dst)
	checker := NewMoveLegalityChecker(p)
	n := 0
	for _, m := range dst {
		if checker.IsPseudoLegalMoveLegal(m) {
			dst[n] = m
			n++
		}
	}
	return dst[:n]
}

func (p *Position) GenerateLegalMoves() []Move {
	return p.GenerateLegalMovesInto(make([]Move, 0, 128))
}

// IsMoveLegal reports whether m is among the legal moves of the position.
func (p *Position) IsMoveLegal(m Move) bool {
	var buf [256]Move
	for _, lm := range p.GenerateLegalMovesInto(buf[:0]) {
		if lm == m {
			return true
		}
	}
	return false
}

// PieceMoveCount returns the size of the canonical move enumeration for the piece on from:
// one entry per destination, four per destination for a pawn about to promote, plus one
// per held castling right for a king.
func (p *Position) PieceMoveCount(from Square) int {
	pc := p.board.pieces[from]
	n := p.PieceDestinations(from).Count()
	switch pc.Type() {
	case PieceTypePawn:
		if from.Rank() == promotionSourceRank(pc.Color()) {
			return n * 4
		}
	case PieceTypeKing:
		return n + len(p.CastlingOptions(pc.Color()))
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen, PieceTypeNone:
	}
	return n
}

// PieceMoveIndex returns the position of m in the canonical enumeration of its moving piece.
func (p *Position) PieceMoveIndex(m Move) (int, bool) {
	pc := p.board.pieces[m.From]
	dest := p.PieceDestinations(m.From)
	switch pc.Type() {
	case PieceTypePawn:
		if !dest.Has(m.To) {
			return 0, false
		}
		idx := dest.CountBefore(m.To)
		if m.From.Rank() == promotionSourceRank(pc.Color()) {
			pt := m.Promoted.Type()
			if m.Kind != MovePromotion || pt < PieceTypeKnight || pt > PieceTypeQueen {
				return 0, false
			}
			return idx*4 + int(pt-PieceTypeKnight), true
		}
		return idx, true
	case PieceTypeKing:
		if m.Kind == MoveCastle {
			opts := p.CastlingOptions(pc.Color())
			for i, ct := range opts {
				if ct == m.CastleType() {
					return dest.Count() + i, true
				}
			}
			return 0, false
		}
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen:
	case PieceTypeNone:
		return 0, false
	}
	if !dest.Has(m.To) {
		return 0, false
	}
	return dest.CountBefore(m.To), true
}

// PieceMoveAt is the inverse of PieceMoveIndex.
func (p *Position) PieceMoveAt(from Square, idx int) (Move, bool) {
	if idx < 0 {
		return Move{}, false
	}
	pc := p.board.pieces[from]
	dest := p.PieceDestinations(from)
	switch pc.Type() {
	case PieceTypePawn:
		if from.Rank() == promotionSourceRank(pc.Color()) {
			to := dest.Nth(idx / 4)
			if to == NoSquare {
				return Move{}, false
			}
			return PromotionMove(from, to, PieceOf(promotionTypes[idx%4], pc.Color())), true
		}
		to := dest.Nth(idx)
		if to == NoSquare {
			return Move{}, false
		}
		if to == p.epSquare {
			return EnPassantMove(from, to), true
		}
		return NormalMove(from, to), true
	case PieceTypeKing:
		if n := dest.Count(); idx >= n {
			opts := p.CastlingOptions(pc.Color())
			if idx-n >= len(opts) {
				return Move{}, false
			}
			return CastleMove(opts[idx-n], pc.Color()), true
		}
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen:
	case PieceTypeNone:
		return Move{}, false
	}
	to := dest.Nth(idx)
	if to == NoSquare {
		return Move{}, false
	}
	return NormalMove(from, to), true
}
