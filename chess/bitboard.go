package chess

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i set <=> square i is a member.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0
	FullBB  Bitboard = ^Bitboard(0)

	FileABB Bitboard = 0x0101010101010101
	FileHBB Bitboard = FileABB << 7
	Rank1BB Bitboard = 0xFF
	Rank8BB Bitboard = Rank1BB << 56
)

// SquareBB returns the singleton set {s}. NoSquare yields the empty set.
func SquareBB(s Square) Bitboard {
	if !s.IsOK() {
		return 0
	}
	return 1 << s
}

// FileBB returns all squares of a file.
func FileBB(f File) Bitboard { return FileABB << f }

// RankBB returns all squares of a rank.
func RankBB(r Rank) Bitboard { return Rank1BB << (8 * uint(r)) }

// Has reports whether s is a member.
func (b Bitboard) Has(s Square) bool { return b&SquareBB(s) != 0 }

// Count returns the number of members.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

func (b Bitboard) IsEmpty() bool { return b == 0 }

// MoreThanOne reports whether at least two squares are set.
func (b Bitboard) MoreThanOne() bool { return b&(b-1) != 0 }

// First returns the lowest member, or NoSquare for an empty set.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Last returns the highest member, or NoSquare for an empty set.
func (b Bitboard) Last() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopFirst removes and returns the lowest member.
func (b *Bitboard) PopFirst() Square {
	s := b.First()
	*b &= *b - 1
	return s
}

// Nth returns the n-th member (0-based) in ascending order, or NoSquare.
func (b Bitboard) Nth(n int) Square {
	if n < 0 {
		return NoSquare
	}
	for ; n > 0 && b != 0; n-- {
		b &= b - 1
	}
	return b.First()
}

// CountBefore returns the number of members with an index lower than s.
func (b Bitboard) CountBefore(s Square) int {
	return bits.OnesCount64(uint64(b) & (uint64(1)<<uint(s) - 1))
}

// Shift moves every member df files and dr ranks; squares leaving the board are dropped.
func (b Bitboard) Shift(df, dr int) Bitboard {
	for ; df > 0; df-- {
		b = (b &^ FileHBB) << 1
	}
	for ; df < 0; df++ {
		b = (b &^ FileABB) >> 1
	}
	if dr > 0 {
		b <<= uint(8 * dr)
	} else if dr < 0 {
		b >>= uint(-8 * dr)
	}
	return b
}

// Squares lists the members in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		out = append(out, b.PopFirst())
	}
	return out
}

// String draws the set as an 8x8 diagram, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.Has(NewSquare(File(f), Rank(r))) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
