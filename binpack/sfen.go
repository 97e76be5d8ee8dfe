package binpack

import (
	"encoding/binary"
	"fmt"
	"io"

	"chess-binpack/chess"
)

const (
	// PackedSfenSize is the size of the Huffman-coded board.
	PackedSfenSize = 32
	// PackedSfenValueSize is the size of a legacy training record.
	PackedSfenValueSize = 40
)

// PackedSfen is a position in 256 bits. Bits are written least significant
// first within each byte: side to move, both king squares, then every other
// square from rank 8 down to rank 1, files a to h, as a Huffman piece code and
// a color bit, followed by castling rights, en passant, and the clocks.
type PackedSfen [PackedSfenSize]byte

// PackedSfenValue is the 40-byte legacy record. Scalars are little-endian.
type PackedSfenValue struct {
	Sfen       PackedSfen
	Score      int16
	Move       uint16
	GamePly    uint16
	GameResult int8
	Padding    uint8
}

// WriteBinary writes the record to w.
func (v *PackedSfenValue) WriteBinary(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// ReadBinary reads a record from r.
func (v *PackedSfenValue) ReadBinary(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, v)
}

type huffmanCode struct {
	code uint8 // emitted low bit first
	bits int
}

var (
	huffmanEmpty = huffmanCode{0b0, 1}
	huffmanTable = [...]huffmanCode{
		chess.PieceTypePawn:   {0b0001, 4},
		chess.PieceTypeKnight: {0b0011, 4},
		chess.PieceTypeBishop: {0b0101, 4},
		chess.PieceTypeRook:   {0b0111, 4},
		chess.PieceTypeQueen:  {0b1001, 4},
	}
)

// sfenWriter writes bits least significant first.
type sfenWriter struct {
	data   *PackedSfen
	cursor int
}

func (w *sfenWriter) writeBit(b bool) {
	if b {
		w.data[w.cursor/8] |= 1 << uint(w.cursor&7)
	}
	w.cursor++
}

func (w *sfenWriter) writeBits(v uint32, n int) {
	for i := 0; i < n; i++ {
		w.writeBit(v&(1<<uint(i)) != 0)
	}
}

type sfenReader struct {
	data   *PackedSfen
	cursor int
}

func (r *sfenReader) readBit() (bool, error) {
	if r.cursor >= PackedSfenSize*8 {
		return false, fmt.Errorf("packed sfen: read past 256 bits")
	}
	b := r.data[r.cursor/8]&(1<<uint(r.cursor&7)) != 0
	r.cursor++
	return b, nil
}

func (r *sfenReader) readBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		b, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if b {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// readPiece decodes one square: a Huffman code and, for a piece, its color bit.
func (r *sfenReader) readPiece() (chess.Piece, error) {
	var code uint8
	for n := 1; n <= 4; n++ {
		b, err := r.readBit()
		if err != nil {
			return chess.NoPiece, err
		}
		if b {
			code |= 1 << uint(n-1)
		}
		if n == huffmanEmpty.bits && code == huffmanEmpty.code {
			return chess.NoPiece, nil
		}
		for pt, hc := range huffmanTable {
			if hc.bits == n && hc.code == code {
				black, err := r.readBit()
				if err != nil {
					return chess.NoPiece, err
				}
				c := chess.White
				if black {
					c = chess.Black
				}
				return chess.PieceOf(chess.PieceType(pt), c), nil
			}
		}
	}
	return chess.NoPiece, fmt.Errorf("packed sfen: invalid piece code %04b", code)
}

// PackSfen encodes pos. Only the low 7 bits of the half-move clock and 16
// bits of the full-move number are kept. The position may hold at most 32 pieces.
func PackSfen(pos *chess.Position) PackedSfen {
	var ps PackedSfen
	w := sfenWriter{data: &ps}
	w.writeBit(pos.SideToMove() == chess.Black)
	w.writeBits(uint32(pos.KingSquare(chess.White)), 6)
	w.writeBits(uint32(pos.KingSquare(chess.Black)), 6)
	for r := chess.Rank8; ; r-- {
		for f := chess.FileA; f <= chess.FileH; f++ {
			pc := pos.PieceAt(chess.NewSquare(f, r))
			switch pc.Type() {
			case chess.PieceTypeKing:
				continue
			case chess.PieceTypeNone:
				w.writeBits(uint32(huffmanEmpty.code), huffmanEmpty.bits)
			case chess.PieceTypePawn, chess.PieceTypeKnight, chess.PieceTypeBishop, chess.PieceTypeRook, chess.PieceTypeQueen:
				hc := huffmanTable[pc.Type()]
				w.writeBits(uint32(hc.code), hc.bits)
				w.writeBit(pc.Color() == chess.Black)
			}
		}
		if r == chess.Rank1 {
			break
		}
	}
	cr := pos.CastlingRights()
	w.writeBit(cr.Has(chess.CastlingWhiteKingSide))
	w.writeBit(cr.Has(chess.CastlingWhiteQueenSide))
	w.writeBit(cr.Has(chess.CastlingBlackKingSide))
	w.writeBit(cr.Has(chess.CastlingBlackQueenSide))
	if ep := pos.EnPassant(); ep == chess.NoSquare {
		w.writeBit(false)
	} else {
		w.writeBit(true)
		w.writeBits(uint32(ep), 6)
	}
	rule50 := uint32(pos.Rule50())
	fullMove := uint32(pos.FullMove())
	w.writeBits(rule50, 6)
	w.writeBits(fullMove, 8)
	w.writeBits(fullMove>>8, 8)
	w.writeBits(rule50>>6, 1)
	return ps
}

// UnpackSfen decodes a PackedSfen.
func UnpackSfen(ps *PackedSfen) (chess.Position, error) {
	r := sfenReader{data: ps}
	pos := chess.NewPosition()

	black, err := r.readBit()
	if err != nil {
		return chess.Position{}, err
	}
	stm := chess.White
	if black {
		stm = chess.Black
	}
	pos.SetSideToMove(stm)
	var kings [2]chess.Square
	for c := range kings {
		sq, err := r.readBits(6)
		if err != nil {
			return chess.Position{}, err
		}
		kings[c] = chess.Square(sq)
	}
	wk, bk := kings[chess.White], kings[chess.Black]
	if wk == bk {
		return chess.Position{}, fmt.Errorf("packed sfen: both kings on %v", wk)
	}
	pos.Place(chess.WhiteKing, wk)
	pos.Place(chess.BlackKing, bk)
	for rank := chess.Rank8; ; rank-- {
		for f := chess.FileA; f <= chess.FileH; f++ {
			sq := chess.NewSquare(f, rank)
			if sq == wk || sq == bk {
				continue
			}
			pc, err := r.readPiece()
			if err != nil {
				return chess.Position{}, err
			}
			if pc.Type() == chess.PieceTypePawn && (rank == chess.Rank1 || rank == chess.Rank8) {
				return chess.Position{}, fmt.Errorf("packed sfen: pawn on %v", sq)
			}
			if pc != chess.NoPiece {
				pos.Place(pc, sq)
			}
		}
		if rank == chess.Rank1 {
			break
		}
	}

	var cr chess.CastlingRights
	for _, right := range [4]chess.CastlingRights{
		chess.CastlingWhiteKingSide, chess.CastlingWhiteQueenSide,
		chess.CastlingBlackKingSide, chess.CastlingBlackQueenSide,
	} {
		b, err := r.readBit()
		if err != nil {
			return chess.Position{}, err
		}
		if b {
			cr |= right
		}
	}
	pos.SetCastlingRights(cr)

	hasEP, err := r.readBit()
	if err != nil {
		return chess.Position{}, err
	}
	if hasEP {
		ep, err := r.readBits(6)
		if err != nil {
			return chess.Position{}, err
		}
		pos.SetEnPassant(chess.Square(ep))
	}

	rule50Low, err := r.readBits(6)
	if err != nil {
		return chess.Position{}, err
	}
	fullLow, err := r.readBits(8)
	if err != nil {
		return chess.Position{}, err
	}
	fullHigh, err := r.readBits(8)
	if err != nil {
		return chess.Position{}, err
	}
	rule50High, err := r.readBits(1)
	if err != nil {
		return chess.Position{}, err
	}
	pos.SetRule50(uint16(rule50Low | rule50High<<6))
	fullMove := fullLow | fullHigh<<8
	if fullMove == 0 {
		fullMove = 1
	}
	ply := 2 * (fullMove - 1)
	if stm == chess.Black {
		ply++
	}
	pos.SetPly(uint16(ply))
	return pos, nil
}

// Legacy move word: to (bits 0-5), from (6-11), promotion type minus knight
// (12-13) and kind (14-15).
const (
	legacyNormal    = 0
	legacyPromotion = 1
	legacyEnPassant = 2
	legacyCastling  = 3
)

// LegacyMove encodes m in the legacy 16-bit layout.
func LegacyMove(m chess.Move) uint16 {
	v := uint16(m.To) | uint16(m.From)<<6
	switch m.Kind {
	case chess.MoveNormal:
		v |= legacyNormal << 14
	case chess.MovePromotion:
		v |= legacyPromotion<<14 | uint16(m.Promoted.Type()-chess.PieceTypeKnight)<<12
	case chess.MoveEnPassant:
		v |= legacyEnPassant << 14
	case chess.MoveCastle:
		v |= legacyCastling << 14
	}
	return v
}

// MoveFromLegacy decodes a legacy move word. A promotion landing on rank 1 is black's.
func MoveFromLegacy(v uint16) chess.Move {
	from := chess.Square(v >> 6 & 63)
	to := chess.Square(v & 63)
	switch v >> 14 {
	case legacyPromotion:
		c := chess.White
		if to.Rank() == chess.Rank1 {
			c = chess.Black
		}
		return chess.PromotionMove(from, to, chess.PieceOf(chess.PieceTypeKnight+chess.PieceType(v>>12&3), c))
	case legacyEnPassant:
		return chess.EnPassantMove(from, to)
	case legacyCastling:
		return chess.Move{From: from, To: to, Kind: chess.MoveCastle, Promoted: chess.NoPiece}
	}
	return chess.NormalMove(from, to)
}

// ToPackedSfenValue converts e to the legacy record.
func (e *TrainingDataEntry) ToPackedSfenValue() PackedSfenValue {
	return PackedSfenValue{
		Sfen:       PackSfen(&e.Pos),
		Score:      e.Score,
		Move:       LegacyMove(e.Move),
		GamePly:    e.Ply,
		GameResult: int8(e.Result),
	}
}

// Entry converts the legacy record to a TrainingDataEntry.
func (v *PackedSfenValue) Entry() (TrainingDataEntry, error) {
	pos, err := UnpackSfen(&v.Sfen)
	if err != nil {
		return TrainingDataEntry{}, err
	}
	return TrainingDataEntry{
		Pos:    pos,
		Move:   MoveFromLegacy(v.Move),
		Score:  v.Score,
		Ply:    v.GamePly,
		Result: int16(v.GameResult),
	}, nil
}
