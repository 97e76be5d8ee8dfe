package chess

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the standard initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string. The half-move clock and full-move number are
// optional (defaults 0 and 1). Castling rights whose king or rook are not on
// their original squares are dropped, and an en passant target no pawn could
// have crossed is cleared. Errors wrap ErrInvalidFEN.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fenError(fen, "fields", "want 4 to 6 fields, got %d", len(fields))
	}

	pos := NewPosition()

	// 1. Piece placement
	if err := parsePlacement(&pos.board, fen, fields[0]); err != nil {
		return Position{}, err
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return Position{}, fenError(fen, "side to move", "must be 'w' or 'b', got %q", fields[1])
	}

	// 3. Castling rights
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			var r CastlingRights
			switch fields[2][i] {
			case 'K':
				r = CastlingWhiteKingSide
			case 'Q':
				r = CastlingWhiteQueenSide
			case 'k':
				r = CastlingBlackKingSide
			case 'q':
				r = CastlingBlackQueenSide
			default:
				return Position{}, fenError(fen, "castling", "unexpected character %q", fields[2][i])
			}
			if pos.castling&r != 0 {
				return Position{}, fenError(fen, "castling", "duplicate right %q", fields[2][i])
			}
			pos.castling |= r
		}
		pos.sanitizeCastlingRights()
	}

	// 4. En passant target square
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fenError(fen, "en passant", "%v", err)
		}
		pos.epSquare = sq
		pos.sanitizeEnPassant()
	}

	// 5. Halfmove clock
	if len(fields) > 4 {
		n, err := strconv.ParseUint(fields[4], 10, 16)
		if err != nil {
			return Position{}, fenError(fen, "halfmove clock", "%q is not a number", fields[4])
		}
		pos.rule50 = uint16(n)
	}

	// 6. Fullmove number
	fullmove := uint64(1)
	if len(fields) > 5 {
		n, err := strconv.ParseUint(fields[5], 10, 16)
		if err != nil {
			return Position{}, fenError(fen, "fullmove number", "%q is not a number", fields[5])
		}
		if n > 0 {
			fullmove = n
		}
	}
	ply := 2 * (fullmove - 1)
	if pos.sideToMove == Black {
		ply++
	}
	if ply > 0xFFFF {
		return Position{}, fenError(fen, "fullmove number", "%d is out of range", fullmove)
	}
	pos.ply = uint16(ply)
	return pos, nil
}

// MustParseFEN is ParseFEN that panics on invalid input.
func MustParseFEN(fen string) Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

func parsePlacement(b *Board, fen, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError(fen, "placement", "want 8 ranks, got %d", len(ranks))
	}
	total := 0
	for i, rankStr := range ranks {
		if rankStr == "" {
			return fenError(fen, "placement", "empty rank %d", 8-i)
		}
		r := Rank(7 - i)
		file := 0
		prevDigit := false
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '0' && ch <= '9' {
				if ch == '0' || ch == '9' {
					return fenError(fen, "placement", "skip count %q out of range", ch)
				}
				if prevDigit {
					return fenError(fen, "placement", "consecutive skip counts in rank %d", 8-i)
				}
				prevDigit = true
				file += int(ch - '0')
				if file > 8 {
					return fenError(fen, "placement", "rank %d overflows", 8-i)
				}
				continue
			}
			prevDigit = false
			pc, ok := PieceFromLetter(ch)
			if !ok {
				return fenError(fen, "placement", "unrecognized piece character %q", ch)
			}
			if file >= 8 {
				return fenError(fen, "placement", "rank %d overflows", 8-i)
			}
			if pc.Type() == PieceTypePawn && (r == Rank1 || r == Rank8) {
				return fenError(fen, "placement", "pawn on rank %d", 8-i)
			}
			b.Place(pc, NewSquare(File(file), r))
			file++
			total++
		}
		if file != 8 {
			return fenError(fen, "placement", "rank %d has %d files", 8-i, file)
		}
	}
	if total > 32 {
		return fenError(fen, "placement", "%d pieces, at most 32 allowed", total)
	}
	for _, c := range [2]Color{White, Black} {
		if n := b.pieceBB[PieceOf(PieceTypeKing, c)].Count(); n != 1 {
			return fenError(fen, "placement", "%v has %d kings", c, n)
		}
	}
	return nil
}

// FEN returns the position in Forsyth-Edwards Notation. The full-move number is ply/2 + 1.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board.pieces[NewSquare(f, r)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r == Rank1 {
			break
		}
		sb.WriteByte('/')
	}

	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.rule50)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMove()))
	return sb.String()
}

// ParseUCIMove converts a UCI string (e2e4, e7e8q, e1g1, 0000) into a move for this
// position. Castling may be written as the king's destination or as king takes own
// rook. The result is not checked for legality. Errors wrap ErrInvalidMove.
func (p *Position) ParseUCIMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if s == "0000" {
		return NullMove(), nil
	}
	if len(s) < 4 || len(s) > 5 {
		return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: "want 4 or 5 characters"}
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: err.Error()}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: err.Error()}
	}
	pc := p.board.pieces[from]
	if pc == NoPiece {
		return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: "no piece on " + from.String()}
	}

	if len(s) == 5 {
		var pt PieceType
		switch s[4] {
		case 'n', 'N':
			pt = PieceTypeKnight
		case 'b', 'B':
			pt = PieceTypeBishop
		case 'r', 'R':
			pt = PieceTypeRook
		case 'q', 'Q':
			pt = PieceTypeQueen
		default:
			return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: "bad promotion piece"}
		}
		if pc.Type() != PieceTypePawn {
			return Move{}, &MoveError{Move: s, FEN: p.FEN(), Reason: "only pawns promote"}
		}
		return PromotionMove(from, to, PieceOf(pt, pc.Color())), nil
	}

	switch pc.Type() {
	case PieceTypeKing:
		c := pc.Color()
		if from == castleKingFrom(c) {
			for _, ct := range [2]CastleType{CastleShort, CastleLong} {
				if to == castleKingTo(c, ct) || (to == castleRookFrom(c, ct) && p.board.pieces[to] == PieceOf(PieceTypeRook, c)) {
					return CastleMove(ct, c), nil
				}
			}
		}
	case PieceTypePawn:
		if to == p.epSquare && from.File() != to.File() {
			return EnPassantMove(from, to), nil
		}
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen, PieceTypeNone:
	}
	return NormalMove(from, to), nil
}
