package chess

import "sync"

// Precomputed attack masks for knights and kings from each square.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard

// pawnAttacks[color][sq] gives the squares a pawn of 'color' attacks from 'sq'.
var pawnAttacks [2][64]Bitboard

// Slider directions as (file, rank) steps. 0-3 are rook directions, 4-7 bishop directions;
// d^1 is the opposite of d.
var directions = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {-1, -1}, {-1, 1}, {1, -1},
}

var rookDirections = directions[:4]
var bishopDirections = directions[4:]

// rays[sq][d] holds the empty-board ray from sq in direction d, origin excluded.
var rays [64][8]Bitboard

var betweenBB [64][64]Bitboard
var lineBB [64][64]Bitboard

var initOnce sync.Once

// Init builds every attack table. It must run before any move generation,
// attack query or codec call; repeated calls are no-ops. Tables are read-only afterwards.
func Init() {
	initOnce.Do(func() {
		initLeaperTables()
		initRays()
		initMagics(rookTable[:], &rookMagics, &rookMagicNumbers, rookDirections)
		initMagics(bishopTable[:], &bishopMagics, &bishopMagicNumbers, bishopDirections)
		initLines()
	})
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := A1; sq <= H8; sq++ {
		for _, off := range knightOffsets {
			if to, ok := sq.Offset(off[0], off[1]); ok {
				knightAttacks[sq] |= SquareBB(to)
			}
		}
		for _, off := range kingOffsets {
			if to, ok := sq.Offset(off[0], off[1]); ok {
				kingAttacks[sq] |= SquareBB(to)
			}
		}
		for _, df := range [2]int{-1, 1} {
			if to, ok := sq.Offset(df, 1); ok {
				pawnAttacks[White][sq] |= SquareBB(to)
			}
			if to, ok := sq.Offset(df, -1); ok {
				pawnAttacks[Black][sq] |= SquareBB(to)
			}
		}
	}
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for d, dir := range directions {
			for to, ok := sq.Offset(dir[0], dir[1]); ok; to, ok = to.Offset(dir[0], dir[1]) {
				rays[sq][d] |= SquareBB(to)
			}
		}
	}
}

// initLines fills Between and Line for every aligned pair.
func initLines() {
	for s1 := A1; s1 <= H8; s1++ {
		for d, dir := range directions {
			opposite := d ^ 1
			full := rays[s1][d] | rays[s1][opposite] | SquareBB(s1)
			var walked Bitboard
			for s2, ok := s1.Offset(dir[0], dir[1]); ok; s2, ok = s2.Offset(dir[0], dir[1]) {
				betweenBB[s1][s2] = walked
				lineBB[s1][s2] = full
				walked |= SquareBB(s2)
			}
		}
	}
}

// slowSliderAttacks walks the rays square by square, stopping at the first blocker.
func slowSliderAttacks(sq Square, occupied Bitboard, dirs [][2]int) Bitboard {
	var attacks Bitboard
	for _, dir := range dirs {
		for to, ok := sq.Offset(dir[0], dir[1]); ok; to, ok = to.Offset(dir[0], dir[1]) {
			attacks |= SquareBB(to)
			if occupied.Has(to) {
				break
			}
		}
	}
	return attacks
}

func slowRookAttacks(sq Square, occupied Bitboard) Bitboard {
	return slowSliderAttacks(sq, occupied, rookDirections)
}

func slowBishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return slowSliderAttacks(sq, occupied, bishopDirections)
}

// KnightAttacks returns the knight pseudo-attacks from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king pseudo-attacks from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the two diagonal capture squares of a c-colored pawn on sq.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// Attacks returns the squares attacked by piece p standing on sq given the occupancy.
func Attacks(p Piece, sq Square, occupied Bitboard) Bitboard {
	switch p.Type() {
	case PieceTypePawn:
		return pawnAttacks[p.Color()][sq]
	case PieceTypeKnight:
		return knightAttacks[sq]
	case PieceTypeBishop:
		return BishopAttacks(sq, occupied)
	case PieceTypeRook:
		return RookAttacks(sq, occupied)
	case PieceTypeQueen:
		return QueenAttacks(sq, occupied)
	case PieceTypeKing:
		return kingAttacks[sq]
	case PieceTypeNone:
		return 0
	}
	return 0
}

// Between returns the squares strictly between two aligned squares, or the empty set.
func Between(s1, s2 Square) Bitboard { return betweenBB[s1][s2] }

// Line returns the full board line through two aligned squares (both included), or the empty set.
func Line(s1, s2 Square) Bitboard { return lineBB[s1][s2] }

// Aligned reports whether s3 lies on the line through s1 and s2.
func Aligned(s1, s2, s3 Square) bool { return lineBB[s1][s2].Has(s3) }
