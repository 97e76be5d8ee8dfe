package chess

import (
	"encoding/binary"
	"fmt"
)

// CompressedPositionSize is the serialized size of a CompressedPosition.
const CompressedPositionSize = 24

// Nibble codes beyond the 12 piece ordinals. Each one folds a bit of state into
// the piece that implies it.
const (
	nibblePawnWithEnPassant = 12
	nibbleWhiteCastlingRook = 13
	nibbleBlackCastlingRook = 14
	nibbleBlackKingToMove   = 15
)

// CompressedPosition stores a position in 24 bytes: an occupancy bitboard and one
// nibble per occupied square in ascending square order, low nibble first.
// The half-move clock and ply are not part of it.
type CompressedPosition struct {
	Occupied Bitboard
	Packed   [16]byte
}

func (cp *CompressedPosition) nibble(i int) uint8 {
	return (cp.Packed[i/2] >> (uint(i&1) * 4)) & 0xF
}

func (cp *CompressedPosition) setNibble(i int, v uint8) {
	cp.Packed[i/2] |= (v & 0xF) << (uint(i&1) * 4)
}

// Compress packs p. The position must hold at most 32 pieces.
func (p *Position) Compress() CompressedPosition {
	cp := CompressedPosition{Occupied: p.board.Occupied()}
	i := 0
	for occ := cp.Occupied; occ != 0 && i < 32; i++ {
		sq := occ.PopFirst()
		pc := p.board.pieces[sq]
		code := uint8(pc)
		switch pc {
		case WhitePawn:
			if p.epSquare != NoSquare && p.epSquare.Rank() == Rank3 && sq == p.epSquare+8 {
				code = nibblePawnWithEnPassant
			}
		case BlackPawn:
			if p.epSquare != NoSquare && p.epSquare.Rank() == Rank6 && sq == p.epSquare-8 {
				code = nibblePawnWithEnPassant
			}
		case WhiteRook:
			if (sq == A1 && p.castling.Has(CastlingWhiteQueenSide)) || (sq == H1 && p.castling.Has(CastlingWhiteKingSide)) {
				code = nibbleWhiteCastlingRook
			}
		case BlackRook:
			if (sq == A8 && p.castling.Has(CastlingBlackQueenSide)) || (sq == H8 && p.castling.Has(CastlingBlackKingSide)) {
				code = nibbleBlackCastlingRook
			}
		case BlackKing:
			if p.sideToMove == Black {
				code = nibbleBlackKingToMove
			}
		}
		cp.setNibble(i, code)
	}
	return cp
}

// Decompress rebuilds the position. The half-move clock and ply come back as zero.
func (cp *CompressedPosition) Decompress() (Position, error) {
	pos := NewPosition()
	if n := cp.Occupied.Count(); n > 32 {
		return Position{}, fmt.Errorf("compressed position: %d occupied squares", n)
	}
	i := 0
	for occ := cp.Occupied; occ != 0; i++ {
		sq := occ.PopFirst()
		code := cp.nibble(i)
		switch code {
		case nibblePawnWithEnPassant:
			switch sq.Rank() {
			case Rank4:
				pos.board.Place(WhitePawn, sq)
				pos.epSquare = sq - 8
			case Rank5:
				pos.board.Place(BlackPawn, sq)
				pos.epSquare = sq + 8
			default:
				return Position{}, fmt.Errorf("compressed position: en passant pawn on %v", sq)
			}
		case nibbleWhiteCastlingRook:
			pos.board.Place(WhiteRook, sq)
			switch sq {
			case A1:
				pos.castling |= CastlingWhiteQueenSide
			case H1:
				pos.castling |= CastlingWhiteKingSide
			default:
				return Position{}, fmt.Errorf("compressed position: castling rook on %v", sq)
			}
		case nibbleBlackCastlingRook:
			pos.board.Place(BlackRook, sq)
			switch sq {
			case A8:
				pos.castling |= CastlingBlackQueenSide
			case H8:
				pos.castling |= CastlingBlackKingSide
			default:
				return Position{}, fmt.Errorf("compressed position: castling rook on %v", sq)
			}
		case nibbleBlackKingToMove:
			pos.board.Place(BlackKing, sq)
			pos.sideToMove = Black
		default:
			if Piece(code).Type() == PieceTypePawn && (sq.Rank() == Rank1 || sq.Rank() == Rank8) {
				return Position{}, fmt.Errorf("compressed position: pawn on %v", sq)
			}
			pos.board.Place(Piece(code), sq)
		}
	}
	for _, c := range [2]Color{White, Black} {
		if n := pos.pieces(PieceTypeKing, c).Count(); n != 1 {
			return Position{}, fmt.Errorf("compressed position: %v has %d kings", c, n)
		}
	}
	return pos, nil
}

// PutBigEndian writes the 24 serialized bytes: occupancy high byte first, then the nibbles.
func (cp *CompressedPosition) PutBigEndian(b []byte) {
	binary.BigEndian.PutUint64(b[0:8], uint64(cp.Occupied))
	copy(b[8:CompressedPositionSize], cp.Packed[:])
}

// CompressedPositionFromBigEndian reads 24 bytes written by PutBigEndian.
func CompressedPositionFromBigEndian(b []byte) CompressedPosition {
	var cp CompressedPosition
	cp.Occupied = Bitboard(binary.BigEndian.Uint64(b[0:8]))
	copy(cp.Packed[:], b[8:CompressedPositionSize])
	return cp
}
