package binpack

import (
	"fmt"

	"chess-binpack/chess"
)

// PackedMoveScoreList is the delta stream following a record's first entry.
// Each ply stores the moving piece as an index among the side to move's
// pieces in ascending square order, the move as an index into that piece's
// canonical move enumeration, and the score as a folded difference to the
// negated previous score.
type PackedMoveScoreList struct {
	NumPlies  uint16
	w         bitWriter
	lastScore int16
}

// Reset starts a new stream after the record entry e.
func (l *PackedMoveScoreList) Reset(e *TrainingDataEntry) {
	l.NumPlies = 0
	l.w.reset()
	l.lastScore = -e.Score
}

// AddMoveScore appends the move m played from pos and its score. The move must
// be pseudo-legal in pos.
func (l *PackedMoveScoreList) AddMoveScore(pos *chess.Position, m chess.Move, score int16) error {
	ours := pos.ColorBB(pos.SideToMove())
	if !ours.Has(m.From) {
		return &IllegalMoveError{FEN: pos.FEN(), Move: m.UCI()}
	}
	moveIdx, ok := pos.PieceMoveIndex(m)
	if !ok {
		return &IllegalMoveError{FEN: pos.FEN(), Move: m.UCI()}
	}
	l.w.writeBits(uint32(ours.CountBefore(m.From)), usedBitsSafe(uint8(ours.Count())))
	l.w.writeBits(uint32(moveIdx), usedBitsSafe(uint8(pos.PieceMoveCount(m.From))))
	writeVLE(&l.w, SignedToUnsigned(score-l.lastScore))
	l.lastScore = -score
	l.NumPlies++
	return nil
}

// Bytes returns the encoded stream, padded to a whole byte.
func (l *PackedMoveScoreList) Bytes() []byte { return l.w.buf }

// PackedMoveScoreListReader replays a delta stream from the record entry it follows.
type PackedMoveScoreListReader struct {
	entry     TrainingDataEntry
	r         bitReader
	numPlies  uint16
	numRead   uint16
	lastScore int16
}

// NewPackedMoveScoreListReader decodes numPlies plies from movetext following first.
func NewPackedMoveScoreListReader(first TrainingDataEntry, movetext []byte, numPlies uint16) *PackedMoveScoreListReader {
	return &PackedMoveScoreListReader{
		entry:     first,
		r:         bitReader{buf: movetext},
		numPlies:  numPlies,
		lastScore: -first.Score,
	}
}

// HasNext reports whether plies remain.
func (r *PackedMoveScoreListReader) HasNext() bool { return r.numRead < r.numPlies }

// NumReadBytes is the number of movetext bytes consumed so far.
func (r *PackedMoveScoreListReader) NumReadBytes() int { return r.r.bytesRead() }

// Next decodes the following ply. Errors wrap ErrCorruptContainer.
func (r *PackedMoveScoreListReader) Next() (TrainingDataEntry, error) {
	if !r.HasNext() {
		return TrainingDataEntry{}, fmt.Errorf("%w: movetext exhausted", ErrCorruptContainer)
	}
	e := &r.entry
	e.Pos.DoMove(e.Move)
	e.Ply++
	e.Result = -e.Result

	pos := &e.Pos
	ours := pos.ColorBB(pos.SideToMove())
	pieceID, ok := readUint[uint8](&r.r, usedBitsSafe(uint8(ours.Count())))
	if !ok {
		return TrainingDataEntry{}, r.corrupt("truncated piece index")
	}
	from := ours.Nth(int(pieceID))
	if from == chess.NoSquare {
		return TrainingDataEntry{}, r.corrupt("piece index %d out of %d", pieceID, ours.Count())
	}
	moveIdx, ok := readUint[uint8](&r.r, usedBitsSafe(uint8(pos.PieceMoveCount(from))))
	if !ok {
		return TrainingDataEntry{}, r.corrupt("truncated move index")
	}
	m, ok := pos.PieceMoveAt(from, int(moveIdx))
	if !ok || !pos.IsMoveLegal(m) {
		return TrainingDataEntry{}, r.corrupt("move index %d from %v does not decode to a legal move", moveIdx, from)
	}
	delta, ok := readVLE[uint16](&r.r)
	if !ok {
		return TrainingDataEntry{}, r.corrupt("truncated score")
	}
	e.Move = m
	e.Score = UnsignedToSigned(delta) + r.lastScore
	r.lastScore = -e.Score
	r.numRead++
	return *e, nil
}

func (r *PackedMoveScoreListReader) corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: ply %d of %d: %s", ErrCorruptContainer, r.numRead+1, r.numPlies, fmt.Sprintf(format, args...))
}
