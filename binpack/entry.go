// Package binpack reads and writes chess training data: the 32-byte packed
// entry, the chunked binpack container with its delta-coded move/score
// stream, the legacy 40-byte record and a plain text interchange format.
package binpack

import (
	"encoding/binary"
	"fmt"

	"chess-binpack/chess"
)

// EntrySize is the size of a packed training entry.
const EntrySize = 32

// maxEntryPly is the largest ply that fits the 14-bit field.
const maxEntryPly = 0x3FFF

// TrainingDataEntry is one labelled position: the move played from it, the
// search score from the side to move's point of view, the game ply and the
// game result (1 win, 0 draw, -1 loss) for the side to move.
type TrainingDataEntry struct {
	Pos    chess.Position
	Move   chess.Move
	Score  int16
	Ply    uint16
	Result int16
}

// IsValid reports whether the entry's move is legal in its position.
func (e *TrainingDataEntry) IsValid() bool {
	return e.Pos.IsMoveLegal(e.Move)
}

// AfterMove returns the position reached by playing the entry's move.
func (e *TrainingDataEntry) AfterMove() chess.Position {
	return e.Pos.AfterMove(e.Move)
}

// IsContinuation reports whether next is the ply directly following prev in
// the same game: results negate, ply advances by one and prev's move leads
// to next's position.
func IsContinuation(prev, next *TrainingDataEntry) bool {
	if prev.Result != -next.Result || prev.Ply+1 != next.Ply {
		return false
	}
	after := prev.AfterMove()
	return after.Equal(&next.Pos)
}

// check rejects entries that cannot be stored faithfully.
func (e *TrainingDataEntry) check() error {
	if !e.IsValid() {
		return &IllegalMoveError{FEN: e.Pos.FEN(), Move: e.Move.UCI()}
	}
	if e.Result < -1 || e.Result > 1 {
		return fmt.Errorf("binpack: result %d out of range", e.Result)
	}
	if e.Ply > maxEntryPly {
		return fmt.Errorf("binpack: ply %d does not fit 14 bits", e.Ply)
	}
	return nil
}

// SignedToUnsigned folds a signed value so that small magnitudes of either
// sign map to small unsigned values: negative values have their magnitude
// bits inverted, then the word is rotated left by one.
func SignedToUnsigned(a int16) uint16 {
	r := uint16(a)
	if r&0x8000 != 0 {
		r ^= 0x7FFF
	}
	return r<<1 | r>>15
}

// UnsignedToSigned is the exact inverse of SignedToUnsigned.
func UnsignedToSigned(r uint16) int16 {
	r = r<<15 | r>>1
	if r&0x8000 != 0 {
		r ^= 0x7FFF
	}
	return int16(r)
}

// PackedEntry is the 32-byte serialized form of a TrainingDataEntry:
// compressed position (24), compressed move (2), folded score (2),
// ply and folded result (2) and half-move clock (2), multi-byte fields
// high byte first.
type PackedEntry [EntrySize]byte

// PackEntry serializes e. Plies beyond 14 bits are truncated.
func PackEntry(e *TrainingDataEntry) PackedEntry {
	var b PackedEntry
	cp := e.Pos.Compress()
	cp.PutBigEndian(b[0:24])
	e.Move.Compress().PutBigEndian(b[24:26])
	binary.BigEndian.PutUint16(b[26:28], SignedToUnsigned(e.Score))
	pr := e.Ply&maxEntryPly | SignedToUnsigned(e.Result)<<14
	binary.BigEndian.PutUint16(b[28:30], pr)
	binary.BigEndian.PutUint16(b[30:32], e.Pos.Rule50())
	return b
}

// UnpackEntry decodes a packed entry. The position's ply is set to the entry's ply.
func UnpackEntry(b *PackedEntry) (TrainingDataEntry, error) {
	cp := chess.CompressedPositionFromBigEndian(b[0:24])
	pos, err := cp.Decompress()
	if err != nil {
		return TrainingDataEntry{}, err
	}
	pr := binary.BigEndian.Uint16(b[28:30])
	e := TrainingDataEntry{
		Pos:    pos,
		Move:   chess.CompressedMoveFromBigEndian(b[24:26]).Decompress(),
		Score:  UnsignedToSigned(binary.BigEndian.Uint16(b[26:28])),
		Ply:    pr & maxEntryPly,
		Result: UnsignedToSigned(pr >> 14),
	}
	e.Pos.SetRule50(binary.BigEndian.Uint16(b[30:32]))
	e.Pos.SetPly(e.Ply)
	return e, nil
}
