package chess

// Position is a Board plus the side to move, castling rights, en passant
// target, half-move clock and ply counter.
type Position struct {
	board      Board
	sideToMove Color
	castling   CastlingRights
	epSquare   Square
	rule50     uint16
	ply        uint16
}

// ReverseMove carries everything UndoMove needs to restore the prior state.
type ReverseMove struct {
	Move              Move
	Captured          Piece
	OldEPSquare       Square
	OldCastlingRights CastlingRights
	OldRule50         uint16
}

// NewPosition returns an empty board with white to move and no rights.
func NewPosition() Position {
	return Position{board: NewBoard(), sideToMove: White, epSquare: NoSquare}
}

// StartPosition returns the standard initial position.
func StartPosition() Position { return MustParseFEN(StartFEN) }

func (p *Position) Board() *Board                         { return &p.board }
func (p *Position) PieceAt(sq Square) Piece               { return p.board.pieces[sq] }
func (p *Position) PiecesBB(pc Piece) Bitboard            { return p.board.pieceBB[pc] }
func (p *Position) ColorBB(c Color) Bitboard              { return p.board.colorBB[c] }
func (p *Position) Occupied() Bitboard                    { return p.board.Occupied() }
func (p *Position) KingSquare(c Color) Square             { return p.board.KingSquare(c) }
func (p *Position) SideToMove() Color                     { return p.sideToMove }
func (p *Position) CastlingRights() CastlingRights        { return p.castling }
func (p *Position) EnPassant() Square                     { return p.epSquare }
func (p *Position) Rule50() uint16                        { return p.rule50 }
func (p *Position) Ply() uint16                           { return p.ply }
func (p *Position) FullMove() int                         { return int(p.ply)/2 + 1 }
func (p *Position) SetRule50(n uint16)                    { p.rule50 = n }
func (p *Position) SetPly(n uint16)                       { p.ply = n }
func (p *Position) SetSideToMove(c Color)                 { p.sideToMove = c }
func (p *Position) Place(pc Piece, sq Square)             { p.board.Place(pc, sq) }
func (p *Position) pieces(pt PieceType, c Color) Bitboard { return p.board.pieceBB[PieceOf(pt, c)] }

// SetCastlingRights replaces the rights, dropping any whose king or rook is off its original square.
func (p *Position) SetCastlingRights(cr CastlingRights) {
	p.castling = cr & CastlingAll
	p.sanitizeCastlingRights()
}

// SetEnPassant sets the en passant target; impossible targets are cleared.
func (p *Position) SetEnPassant(sq Square) {
	p.epSquare = sq
	p.sanitizeEnPassant()
}

func (p *Position) sanitizeCastlingRights() {
	for _, c := range [2]Color{White, Black} {
		king := PieceOf(PieceTypeKing, c)
		rook := PieceOf(PieceTypeRook, c)
		for _, ct := range [2]CastleType{CastleShort, CastleLong} {
			if p.board.pieces[castleKingFrom(c)] != king || p.board.pieces[castleRookFrom(c, ct)] != rook {
				p.castling &^= castlingRight(c, ct)
			}
		}
	}
}

// sanitizeEnPassant keeps the target only if a pawn of the side not to move
// could just have double-pushed across it and a pawn of the side to move can
// legally capture onto it.
func (p *Position) sanitizeEnPassant() {
	ep := p.epSquare
	if ep == NoSquare {
		return
	}
	if !ep.IsOK() {
		p.epSquare = NoSquare
		return
	}
	them := p.sideToMove.Opposite()
	dr := 1
	wantRank := Rank6
	if p.sideToMove == Black {
		dr = -1
		wantRank = Rank3
	}
	if ep.Rank() != wantRank {
		p.epSquare = NoSquare
		return
	}
	pawnSq, _ := ep.Offset(0, -dr)
	originSq, _ := ep.Offset(0, dr)
	if p.board.pieces[ep] != NoPiece ||
		p.board.pieces[originSq] != NoPiece ||
		p.board.pieces[pawnSq] != PieceOf(PieceTypePawn, them) {
		p.epSquare = NoSquare
		return
	}
	if !p.canCaptureEnPassant(ep) {
		p.epSquare = NoSquare
	}
}

// canCaptureEnPassant reports whether some pawn of the side to move can take
// on ep without leaving its king attacked.
func (p *Position) canCaptureEnPassant(ep Square) bool {
	us := p.sideToMove
	capturers := pawnAttacks[us.Opposite()][ep] & p.pieces(PieceTypePawn, us)
	for capturers != 0 {
		from := capturers.PopFirst()
		if !p.leavesKingInCheck(EnPassantMove(from, ep)) {
			return true
		}
	}
	return false
}

// castlingLostAt[sq] lists the rights that vanish when a move touches sq.
var castlingLostAt = func() (t [64]CastlingRights) {
	t[E1] = CastlingWhite
	t[A1] = CastlingWhiteQueenSide
	t[H1] = CastlingWhiteKingSide
	t[E8] = CastlingBlack
	t[A8] = CastlingBlackQueenSide
	t[H8] = CastlingBlackKingSide
	return
}()

// DoMove plays m, which must be pseudo-legal, and returns the undo record.
func (p *Position) DoMove(m Move) ReverseMove {
	rm := ReverseMove{
		Move:              m,
		Captured:          NoPiece,
		OldEPSquare:       p.epSquare,
		OldCastlingRights: p.castling,
		OldRule50:         p.rule50,
	}
	p.epSquare = NoSquare
	p.sideToMove = p.sideToMove.Opposite()
	p.ply++
	if m.IsNull() {
		p.rule50++
		return rm
	}

	moved := p.board.pieces[m.From]
	rm.Captured = p.board.DoMove(m)

	if moved.Type() == PieceTypePawn || rm.Captured != NoPiece {
		p.rule50 = 0
	} else {
		p.rule50++
	}
	if moved.Type() == PieceTypePawn && m.Kind == MoveNormal {
		if d := int(m.To) - int(m.From); d == 16 || d == -16 {
			p.epSquare = Square((int(m.From) + int(m.To)) / 2)
			p.sanitizeEnPassant()
		}
	}
	p.castling &^= castlingLostAt[m.From] | castlingLostAt[m.To]
	return rm
}

// UndoMove reverts the move recorded in rm. Calls must mirror DoMove in LIFO order.
func (p *Position) UndoMove(rm ReverseMove) {
	p.board.UndoMove(rm.Move, rm.Captured)
	p.sideToMove = p.sideToMove.Opposite()
	p.ply--
	p.epSquare = rm.OldEPSquare
	p.castling = rm.OldCastlingRights
	p.rule50 = rm.OldRule50
}

// AfterMove returns a copy of the position with m played.
func (p *Position) AfterMove(m Move) Position {
	next := *p
	next.DoMove(m)
	return next
}

// Equal compares placement, side to move, castling rights, en passant target
// and half-move clock. The ply counter is not part of the comparison.
func (p *Position) Equal(q *Position) bool {
	return p.board == q.board &&
		p.sideToMove == q.sideToMove &&
		p.castling == q.castling &&
		p.epSquare == q.epSquare &&
		p.rule50 == q.rule50
}

// Validate checks board consistency and that each side has exactly one king.
func (p *Position) Validate() error {
	if err := p.board.Validate(); err != nil {
		return err
	}
	for _, c := range [2]Color{White, Black} {
		if n := p.pieces(PieceTypeKing, c).Count(); n != 1 {
			return &FENError{FEN: p.FEN(), Field: "placement", Reason: c.String() + " must have exactly one king"}
		}
	}
	return nil
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.isSquareAttackedWithOcc(sq, by, p.board.Occupied())
}

func (p *Position) isSquareAttackedWithOcc(sq Square, by Color, occ Bitboard) bool {
	queens := p.pieces(PieceTypeQueen, by)
	if BishopAttacks(sq, occ)&(p.pieces(PieceTypeBishop, by)|queens) != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.pieces(PieceTypeRook, by)|queens) != 0 {
		return true
	}
	if kingAttacks[sq]&p.pieces(PieceTypeKing, by) != 0 {
		return true
	}
	if knightAttacks[sq]&p.pieces(PieceTypeKnight, by) != 0 {
		return true
	}
	return pawnAttacks[by.Opposite()][sq]&p.pieces(PieceTypePawn, by) != 0
}

// AttackersTo returns every piece of color by attacking sq under occupancy occ.
func (p *Position) AttackersTo(sq Square, by Color, occ Bitboard) Bitboard {
	queens := p.pieces(PieceTypeQueen, by)
	return BishopAttacks(sq, occ)&(p.pieces(PieceTypeBishop, by)|queens) |
		RookAttacks(sq, occ)&(p.pieces(PieceTypeRook, by)|queens) |
		kingAttacks[sq]&p.pieces(PieceTypeKing, by) |
		knightAttacks[sq]&p.pieces(PieceTypeKnight, by) |
		pawnAttacks[by.Opposite()][sq]&p.pieces(PieceTypePawn, by)
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	ksq := p.KingSquare(p.sideToMove)
	if ksq == NoSquare {
		return 0
	}
	return p.AttackersTo(ksq, p.sideToMove.Opposite(), p.board.Occupied())
}

func (p *Position) IsInCheck() bool { return p.Checkers() != 0 }

// BlockersForKing returns c's own pieces that are the only piece between c's king
// and an enemy slider; moving one of them off that line exposes the king.
func (p *Position) BlockersForKing(c Color) Bitboard {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return 0
	}
	them := c.Opposite()
	queens := p.pieces(PieceTypeQueen, them)
	snipers := RookAttacks(ksq, 0)&(p.pieces(PieceTypeRook, them)|queens) |
		BishopAttacks(ksq, 0)&(p.pieces(PieceTypeBishop, them)|queens)
	occ := p.board.Occupied()
	var blockers Bitboard
	for snipers != 0 {
		s := snipers.PopFirst()
		b := Between(ksq, s) & occ
		if b != 0 && !b.MoreThanOne() {
			blockers |= b
		}
	}
	return blockers & p.board.colorBB[c]
}

// leavesKingInCheck plays m on a scratch copy of the board and tests the mover's king.
func (p *Position) leavesKingInCheck(m Move) bool {
	us := p.sideToMove
	next := *p
	next.board.DoMove(m)
	ksq := next.board.KingSquare(us)
	if ksq == NoSquare {
		return false
	}
	return next.IsSquareAttacked(ksq, us.Opposite())
}

func (p *Position) String() string { return p.board.String() + p.FEN() + "\n" }
