package chess

import "encoding/binary"

// MoveKind selects how a move is applied to the board.
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MovePromotion
	MoveCastle
	MoveEnPassant
)

// Move is a single ply. Castling is stored as the king capturing its own rook
// (To is the rook's square). Promoted is NoPiece unless Kind is MovePromotion.
// A move with From == To is the null move.
type Move struct {
	From     Square
	To       Square
	Kind     MoveKind
	Promoted Piece
}

func NormalMove(from, to Square) Move {
	return Move{From: from, To: to, Kind: MoveNormal, Promoted: NoPiece}
}

func PromotionMove(from, to Square, promoted Piece) Move {
	return Move{From: from, To: to, Kind: MovePromotion, Promoted: promoted}
}

func EnPassantMove(from, to Square) Move {
	return Move{From: from, To: to, Kind: MoveEnPassant, Promoted: NoPiece}
}

// CastleMove builds the standard-layout castling move for color c.
func CastleMove(ct CastleType, c Color) Move {
	return Move{From: castleKingFrom(c), To: castleRookFrom(c, ct), Kind: MoveCastle, Promoted: NoPiece}
}

// NullMove passes the turn.
func NullMove() Move { return Move{From: A1, To: A1, Kind: MoveNormal, Promoted: NoPiece} }

func (m Move) IsNull() bool { return m.From == m.To }

// CastleType classifies a castle move by its rook square.
func (m Move) CastleType() CastleType { return castleTypeOf(m.To) }

// UCI returns the move in UCI long algebraic notation. Castling is written with
// the king's destination (e1g1), the null move as "0000".
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	to := m.To
	if m.Kind == MoveCastle {
		to = NewSquare(castleKingTo(White, m.CastleType()).File(), m.From.Rank())
	}
	s := m.From.String() + to.String()
	if m.Kind == MovePromotion {
		s += string(promotionLetter(m.Promoted.Type()))
	}
	return s
}

func (m Move) String() string { return m.UCI() }

func promotionLetter(pt PieceType) byte {
	switch pt {
	case PieceTypeKnight:
		return 'n'
	case PieceTypeBishop:
		return 'b'
	case PieceTypeRook:
		return 'r'
	case PieceTypeQueen:
		return 'q'
	case PieceTypePawn, PieceTypeKing, PieceTypeNone:
		return '?'
	}
	return '?'
}

// CompressedMove packs a move into 16 bits: kind (15-14), from (13-8), to (7-2)
// and promotion type minus knight (1-0). Zero is the null move.
type CompressedMove uint16

// Compress packs m. The promoted piece's color is dropped; Decompress recovers it from the destination rank.
func (m Move) Compress() CompressedMove {
	if m.IsNull() {
		return 0
	}
	v := uint16(m.Kind)<<14 | uint16(m.From)<<8 | uint16(m.To)<<2
	if m.Kind == MovePromotion {
		v |= uint16(m.Promoted.Type()-PieceTypeKnight) & 3
	}
	return CompressedMove(v)
}

// Decompress unpacks the move. A promotion landing on rank 1 is black's.
func (cm CompressedMove) Decompress() Move {
	if cm == 0 {
		return NullMove()
	}
	m := Move{
		Kind:     MoveKind(cm >> 14),
		From:     Square(cm>>8) & 63,
		To:       Square(cm>>2) & 63,
		Promoted: NoPiece,
	}
	if m.Kind == MovePromotion {
		c := White
		if m.To.Rank() == Rank1 {
			c = Black
		}
		m.Promoted = PieceOf(PieceTypeKnight+PieceType(cm&3), c)
	}
	return m
}

// PutBigEndian writes the two bytes of cm, high byte first.
func (cm CompressedMove) PutBigEndian(b []byte) { binary.BigEndian.PutUint16(b, uint16(cm)) }

// CompressedMoveFromBigEndian reads two bytes written by PutBigEndian.
func CompressedMoveFromBigEndian(b []byte) CompressedMove {
	return CompressedMove(binary.BigEndian.Uint16(b))
}
