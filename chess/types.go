package chess

import (
	"errors"
	"fmt"
)

// File is a board column, FileA through FileH.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

func (f File) String() string { return string(rune('a' + f)) }

// Rank is a board row, Rank1 through Rank8.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

func (r Rank) String() string { return string(rune('1' + r)) }

// Square is a board square (0-63), a1 = 0, h1 = 7, a8 = 56, h8 = 63.
// NoSquare (64) is the sentinel for "none".
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare
)

// NewSquare combines a file and a rank.
func NewSquare(f File, r Rank) Square { return Square(uint8(r)<<3 | uint8(f)) }

// File returns the column of the square.
func (s Square) File() File { return File(s & 7) }

// Rank returns the row of the square.
func (s Square) Rank() Rank { return Rank(s >> 3) }

// IsOK reports whether s is one of the 64 board squares.
func (s Square) IsOK() bool { return s < NoSquare }

// FlippedHorizontally mirrors the square across the d/e file boundary (e1 -> d1).
func (s Square) FlippedHorizontally() Square { return s ^ 7 }

// FlippedVertically mirrors the square across the 4th/5th rank boundary (e1 -> e8).
func (s Square) FlippedVertically() Square { return s ^ 56 }

// Offset returns the square df files and dr ranks away, or false if it falls off the board.
func (s Square) Offset(df, dr int) (Square, bool) {
	f := int(s.File()) + df
	r := int(s.Rank()) + dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(File(f), Rank(r)), true
}

// String returns the algebraic name of the square ("e4"), or "-" for NoSquare.
func (s Square) String() string {
	if !s.IsOK() {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

var errBadSquare = errors.New("invalid square")

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("%w %q", errBadSquare, str)
	}
	f, r := str[0], str[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, fmt.Errorf("%w %q", errBadSquare, str)
	}
	return NewSquare(File(f-'a'), Rank(r-'1')), nil
}

// Color is the side owning a piece.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless piece kind. The enumeration is closed; PieceTypeNone marks an empty square.
type PieceType uint8

const (
	PieceTypePawn PieceType = iota
	PieceTypeKnight
	PieceTypeBishop
	PieceTypeRook
	PieceTypeQueen
	PieceTypeKing
	PieceTypeNone
)

func (pt PieceType) String() string {
	switch pt {
	case PieceTypePawn:
		return "pawn"
	case PieceTypeKnight:
		return "knight"
	case PieceTypeBishop:
		return "bishop"
	case PieceTypeRook:
		return "rook"
	case PieceTypeQueen:
		return "queen"
	case PieceTypeKing:
		return "king"
	case PieceTypeNone:
		return "none"
	}
	return fmt.Sprintf("PieceType(%d)", uint8(pt))
}

// Piece packs a PieceType and a Color as type<<1 | color.
// Ordinals 0-11 are real pieces; NoPiece (12) is PieceTypeNone paired with White.
type Piece uint8

const (
	WhitePawn Piece = iota
	BlackPawn
	WhiteKnight
	BlackKnight
	WhiteBishop
	BlackBishop
	WhiteRook
	BlackRook
	WhiteQueen
	BlackQueen
	WhiteKing
	BlackKing
	NoPiece
)

// PieceCount is the number of distinct Piece values including NoPiece.
const PieceCount = 13

// PieceOf combines a type and a color. PieceTypeNone always yields NoPiece.
func PieceOf(pt PieceType, c Color) Piece {
	if pt >= PieceTypeNone {
		return NoPiece
	}
	return Piece(uint8(pt)<<1 | uint8(c))
}

// Type returns the colorless kind of the piece.
func (p Piece) Type() PieceType { return PieceType(p >> 1) }

// Color returns the owner of the piece. NoPiece reports White.
func (p Piece) Color() Color { return Color(p & 1) }

const pieceLetters = "PpNnBbRrQqKk"

// Letter returns the FEN letter of the piece, or '.' for NoPiece.
func (p Piece) Letter() byte {
	if p >= NoPiece {
		return '.'
	}
	return pieceLetters[p]
}

func (p Piece) String() string { return string(p.Letter()) }

// PieceFromLetter converts a FEN letter into a piece.
func PieceFromLetter(ch byte) (Piece, bool) {
	for i := 0; i < len(pieceLetters); i++ {
		if pieceLetters[i] == ch {
			return Piece(i), true
		}
	}
	return NoPiece, false
}

// CastlingRights is a bitmask of the four independent castling rights.
type CastlingRights uint8

const (
	CastlingWhiteKingSide CastlingRights = 1 << iota
	CastlingWhiteQueenSide
	CastlingBlackKingSide
	CastlingBlackQueenSide

	CastlingNone  CastlingRights = 0
	CastlingWhite                = CastlingWhiteKingSide | CastlingWhiteQueenSide
	CastlingBlack                = CastlingBlackKingSide | CastlingBlackQueenSide
	CastlingAll                  = CastlingWhite | CastlingBlack
)

// Has reports whether all rights in r are held.
func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r == r }

func (cr CastlingRights) String() string {
	if cr&CastlingAll == 0 {
		return "-"
	}
	out := make([]byte, 0, 4)
	if cr.Has(CastlingWhiteKingSide) {
		out = append(out, 'K')
	}
	if cr.Has(CastlingWhiteQueenSide) {
		out = append(out, 'Q')
	}
	if cr.Has(CastlingBlackKingSide) {
		out = append(out, 'k')
	}
	if cr.Has(CastlingBlackQueenSide) {
		out = append(out, 'q')
	}
	return string(out)
}

// CastleType distinguishes king-side (short) from queen-side (long) castling.
type CastleType uint8

const (
	CastleShort CastleType = iota
	CastleLong
)

// castlingRight returns the single right for a side and castle type.
func castlingRight(c Color, ct CastleType) CastlingRights {
	switch {
	case c == White && ct == CastleShort:
		return CastlingWhiteKingSide
	case c == White:
		return CastlingWhiteQueenSide
	case ct == CastleShort:
		return CastlingBlackKingSide
	default:
		return CastlingBlackQueenSide
	}
}

func backRank(c Color) Rank {
	if c == White {
		return Rank1
	}
	return Rank8
}

// Castling squares for the two standard layouts.
func castleKingFrom(c Color) Square { return NewSquare(FileE, backRank(c)) }

func castleRookFrom(c Color, ct CastleType) Square {
	if ct == CastleShort {
		return NewSquare(FileH, backRank(c))
	}
	return NewSquare(FileA, backRank(c))
}

func castleKingTo(c Color, ct CastleType) Square {
	if ct == CastleShort {
		return NewSquare(FileG, backRank(c))
	}
	return NewSquare(FileC, backRank(c))
}

func castleRookTo(c Color, ct CastleType) Square {
	if ct == CastleShort {
		return NewSquare(FileF, backRank(c))
	}
	return NewSquare(FileD, backRank(c))
}

// castleTypeOf classifies a castle move (king captures own rook) by the rook's file.
func castleTypeOf(rookSq Square) CastleType {
	if rookSq.File() == FileH {
		return CastleShort
	}
	return CastleLong
}
