package chess

import (
	"fmt"
	"strings"
)

// Board is the piece placement: a square-indexed array plus one bitboard per
// piece (NoPiece included, so the 13 boards partition the 64 squares) and
// one per color.
type Board struct {
	pieces  [64]Piece
	pieceBB [PieceCount]Bitboard
	colorBB [2]Bitboard
}

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for i := range b.pieces {
		b.pieces[i] = NoPiece
	}
	b.pieceBB[NoPiece] = FullBB
	return b
}

func (b *Board) PieceAt(sq Square) Piece { return b.pieces[sq] }

func (b *Board) PiecesBB(p Piece) Bitboard { return b.pieceBB[p] }

func (b *Board) ColorBB(c Color) Bitboard { return b.colorBB[c] }

func (b *Board) Occupied() Bitboard { return ^b.pieceBB[NoPiece] }

// KingSquare returns the square of c's king, or NoSquare if there is none.
func (b *Board) KingSquare(c Color) Square { return b.pieceBB[PieceOf(PieceTypeKing, c)].First() }

// Place puts p on sq, replacing whatever stood there. NoPiece clears the square.
func (b *Board) Place(p Piece, sq Square) {
	old := b.pieces[sq]
	bb := SquareBB(sq)
	b.pieceBB[old] ^= bb
	b.pieceBB[p] ^= bb
	if old != NoPiece {
		b.colorBB[old.Color()] ^= bb
	}
	if p != NoPiece {
		b.colorBB[p.Color()] ^= bb
	}
	b.pieces[sq] = p
}

// DoMove applies m to the placement and returns the captured piece (NoPiece if none).
// The move is assumed pseudo-legal for the current placement.
func (b *Board) DoMove(m Move) Piece {
	if m.IsNull() {
		return NoPiece
	}
	fromBB, toBB := SquareBB(m.From), SquareBB(m.To)
	switch m.Kind {
	case MoveNormal:
		moved, captured := b.pieces[m.From], b.pieces[m.To]
		b.pieces[m.To] = moved
		b.pieces[m.From] = NoPiece
		b.toggleTransfer(moved, captured, fromBB, toBB)
		return captured

	case MovePromotion:
		pawn, captured := b.pieces[m.From], b.pieces[m.To]
		b.pieces[m.To] = m.Promoted
		b.pieces[m.From] = NoPiece
		b.togglePromotion(pawn, m.Promoted, captured, fromBB, toBB)
		return captured

	case MoveEnPassant:
		pawn := b.pieces[m.From]
		capSq := NewSquare(m.To.File(), m.From.Rank())
		captured := b.pieces[capSq]
		b.pieces[m.To] = pawn
		b.pieces[m.From] = NoPiece
		b.pieces[capSq] = NoPiece
		b.toggleEnPassant(pawn, captured, fromBB, toBB, SquareBB(capSq))
		return captured

	case MoveCastle:
		king, rook := b.pieces[m.From], b.pieces[m.To]
		c, ct := king.Color(), castleTypeOf(m.To)
		kingTo, rookTo := castleKingTo(c, ct), castleRookTo(c, ct)
		b.pieces[m.From] = NoPiece
		b.pieces[m.To] = NoPiece
		b.pieces[kingTo] = king
		b.pieces[rookTo] = rook
		b.toggleCastle(king, rook, fromBB, toBB, SquareBB(kingTo), SquareBB(rookTo))
		return NoPiece
	}
	return NoPiece
}

// UndoMove reverts DoMove given the piece it returned.
func (b *Board) UndoMove(m Move, captured Piece) {
	if m.IsNull() {
		return
	}
	fromBB, toBB := SquareBB(m.From), SquareBB(m.To)
	switch m.Kind {
	case MoveNormal:
		moved := b.pieces[m.To]
		b.pieces[m.From] = moved
		b.pieces[m.To] = captured
		b.toggleTransfer(moved, captured, fromBB, toBB)

	case MovePromotion:
		promoted := b.pieces[m.To]
		pawn := PieceOf(PieceTypePawn, promoted.Color())
		b.pieces[m.From] = pawn
		b.pieces[m.To] = captured
		b.togglePromotion(pawn, promoted, captured, fromBB, toBB)

	case MoveEnPassant:
		pawn := b.pieces[m.To]
		capSq := NewSquare(m.To.File(), m.From.Rank())
		b.pieces[m.From] = pawn
		b.pieces[m.To] = NoPiece
		b.pieces[capSq] = captured
		b.toggleEnPassant(pawn, captured, fromBB, toBB, SquareBB(capSq))

	case MoveCastle:
		c, ct := White, castleTypeOf(m.To)
		if m.From.Rank() == Rank8 {
			c = Black
		}
		kingTo, rookTo := castleKingTo(c, ct), castleRookTo(c, ct)
		king, rook := b.pieces[kingTo], b.pieces[rookTo]
		b.pieces[kingTo] = NoPiece
		b.pieces[rookTo] = NoPiece
		b.pieces[m.From] = king
		b.pieces[m.To] = rook
		b.toggleCastle(king, rook, fromBB, toBB, SquareBB(kingTo), SquareBB(rookTo))
	}
}

// The toggle helpers are their own inverses, so DoMove and UndoMove share them.

func (b *Board) toggleTransfer(moved, captured Piece, fromBB, toBB Bitboard) {
	b.pieceBB[captured] ^= toBB
	b.pieceBB[NoPiece] ^= fromBB
	b.pieceBB[moved] ^= fromBB | toBB
	b.colorBB[moved.Color()] ^= fromBB | toBB
	if captured != NoPiece {
		b.colorBB[captured.Color()] ^= toBB
	}
}

func (b *Board) togglePromotion(pawn, promoted, captured Piece, fromBB, toBB Bitboard) {
	b.pieceBB[captured] ^= toBB
	b.pieceBB[NoPiece] ^= fromBB
	b.pieceBB[pawn] ^= fromBB
	b.pieceBB[promoted] ^= toBB
	b.colorBB[pawn.Color()] ^= fromBB | toBB
	if captured != NoPiece {
		b.colorBB[captured.Color()] ^= toBB
	}
}

func (b *Board) toggleEnPassant(pawn, captured Piece, fromBB, toBB, capBB Bitboard) {
	b.pieceBB[pawn] ^= fromBB | toBB
	b.pieceBB[captured] ^= capBB
	b.pieceBB[NoPiece] ^= fromBB | toBB | capBB
	b.colorBB[pawn.Color()] ^= fromBB | toBB
	b.colorBB[captured.Color()] ^= capBB
}

func (b *Board) toggleCastle(king, rook Piece, kingFromBB, rookFromBB, kingToBB, rookToBB Bitboard) {
	all := kingFromBB | rookFromBB | kingToBB | rookToBB
	b.pieceBB[king] ^= kingFromBB | kingToBB
	b.pieceBB[rook] ^= rookFromBB | rookToBB
	b.pieceBB[NoPiece] ^= all
	b.colorBB[king.Color()] ^= all
}

// Validate checks that the array and the bitboards describe the same placement.
func (b *Board) Validate() error {
	var union Bitboard
	for p := Piece(0); p < PieceCount; p++ {
		if union&b.pieceBB[p] != 0 {
			return fmt.Errorf("piece bitboard %v overlaps another", p)
		}
		union |= b.pieceBB[p]
	}
	if union != FullBB {
		return fmt.Errorf("piece bitboards do not cover the board")
	}
	for c := White; c <= Black; c++ {
		var want Bitboard
		for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
			want |= b.pieceBB[PieceOf(pt, c)]
		}
		if b.colorBB[c] != want {
			return fmt.Errorf("%v color bitboard mismatch: got %#x want %#x", c, uint64(b.colorBB[c]), uint64(want))
		}
	}
	for sq := A1; sq <= H8; sq++ {
		p := b.pieces[sq]
		if p > NoPiece {
			return fmt.Errorf("invalid piece %d at %v", p, sq)
		}
		if !b.pieceBB[p].Has(sq) {
			return fmt.Errorf("square %v holds %v but its bitboard disagrees", sq, p)
		}
	}
	return nil
}

// String draws the board rank 8 first using FEN letters.
func (b *Board) String() string {
	var sb strings.Builder
	for r := Rank8; ; r-- {
		for f := FileA; f <= FileH; f++ {
			sb.WriteByte(b.pieces[NewSquare(f, r)].Letter())
		}
		sb.WriteByte('\n')
		if r == Rank1 {
			break
		}
	}
	return sb.String()
}
