package binpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	chunkMagic      = "BINP"
	chunkHeaderSize = 8

	// SuggestedChunkSize is the payload size after which the writer starts a new chunk.
	SuggestedChunkSize = 8 << 20
	// MaxChunkSize is the largest payload a reader accepts.
	MaxChunkSize = 100 << 20

	// maxContinuationPlies is the most plies one record's movetext may hold.
	maxContinuationPlies = 0xFFFF
)

// Writer encodes entries into the chunked binpack container. Consecutive
// entries of one game are stored as a single 32-byte record followed by the
// delta stream of the remaining plies. A Writer is not safe for concurrent use.
type Writer struct {
	w        io.Writer
	payload  []byte
	last     TrainingDataEntry
	open     bool // a record has been started and its movetext not yet written
	movelist PackedMoveScoreList
	chunks   int
	err      error
}

// NewWriter returns a Writer emitting chunks to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, payload: make([]byte, 0, 1<<16)}
}

// Write adds e to the stream. Entries with an illegal move are rejected with an
// error wrapping ErrIllegalMove and leave the stream unchanged.
func (w *Writer) Write(e *TrainingDataEntry) error {
	if w.err != nil {
		return w.err
	}
	if err := e.check(); err != nil {
		return err
	}
	if w.open && w.movelist.NumPlies < maxContinuationPlies && IsContinuation(&w.last, e) {
		if err := w.movelist.AddMoveScore(&e.Pos, e.Move, e.Score); err != nil {
			return err
		}
		w.last = *e
		return nil
	}

	w.closeRecord()
	if len(w.payload) >= SuggestedChunkSize {
		if err := w.writeChunk(); err != nil {
			return err
		}
	}
	packed := PackEntry(e)
	w.payload = append(w.payload, packed[:]...)
	w.movelist.Reset(e)
	w.last = *e
	w.open = true
	return nil
}

// closeRecord appends the pending record's ply count and movetext.
func (w *Writer) closeRecord() {
	if !w.open {
		return
	}
	w.payload = binary.BigEndian.AppendUint16(w.payload, w.movelist.NumPlies)
	w.payload = append(w.payload, w.movelist.Bytes()...)
	w.open = false
}

func (w *Writer) writeChunk() error {
	if len(w.payload) == 0 {
		return nil
	}
	var hdr [chunkHeaderSize]byte
	copy(hdr[:4], chunkMagic)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(w.payload)))
	if _, err := w.w.Write(hdr[:]); err != nil {
		w.err = fmt.Errorf("binpack: write chunk %d header: %w", w.chunks, err)
		return w.err
	}
	if _, err := w.w.Write(w.payload); err != nil {
		w.err = fmt.Errorf("binpack: write chunk %d: %w", w.chunks, err)
		return w.err
	}
	w.chunks++
	w.payload = w.payload[:0]
	return nil
}

// Flush ends the current record and writes all buffered data as a chunk.
// The next entry starts a new record even if it continues the same game.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.closeRecord()
	return w.writeChunk()
}

// Close flushes the writer. It does not close the underlying io.Writer.
func (w *Writer) Close() error { return w.Flush() }

// Reader decodes a binpack container. Next returns io.EOF after the last
// entry. A Reader is not safe for concurrent use.
type Reader struct {
	r           io.Reader
	chunk       []byte
	off         int
	chunkIndex  int   // index of the chunk in chunk, -1 before the first
	chunkOffset int64 // stream offset of that chunk's header
	nextOffset  int64
	movelist    *PackedMoveScoreListReader
	err         error
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, chunkIndex: -1}
}

// Next returns the following entry.
func (r *Reader) Next() (TrainingDataEntry, error) {
	if r.err != nil {
		return TrainingDataEntry{}, r.err
	}
	e, err := r.next()
	if err != nil {
		r.err = err
	}
	return e, err
}

func (r *Reader) next() (TrainingDataEntry, error) {
	if r.movelist != nil {
		e, err := r.movelist.Next()
		if err != nil {
			return TrainingDataEntry{}, r.corrupt("record at %d", err, r.off)
		}
		if !r.movelist.HasNext() {
			r.off += r.movelist.NumReadBytes()
			r.movelist = nil
			if r.off > len(r.chunk) {
				return TrainingDataEntry{}, r.corrupt("movetext overruns the chunk", nil)
			}
		}
		return e, nil
	}

	for r.off >= len(r.chunk) {
		if err := r.readChunk(); err != nil {
			return TrainingDataEntry{}, err
		}
	}
	if len(r.chunk)-r.off < EntrySize+2 {
		return TrainingDataEntry{}, r.corrupt("truncated record at %d", nil, r.off)
	}
	var packed PackedEntry
	copy(packed[:], r.chunk[r.off:])
	e, err := UnpackEntry(&packed)
	if err != nil {
		return TrainingDataEntry{}, r.corrupt("record at %d", err, r.off)
	}
	numPlies := binary.BigEndian.Uint16(r.chunk[r.off+EntrySize:])
	r.off += EntrySize + 2
	if numPlies > 0 {
		if !e.IsValid() {
			return TrainingDataEntry{}, r.corrupt("record at %d continues from an illegal move", nil, r.off-EntrySize-2)
		}
		r.movelist = NewPackedMoveScoreListReader(e, r.chunk[r.off:], numPlies)
	}
	return e, nil
}

func (r *Reader) readChunk() error {
	var hdr [chunkHeaderSize]byte
	r.chunkIndex++
	r.chunkOffset = r.nextOffset
	n, err := io.ReadFull(r.r, hdr[:])
	if errors.Is(err, io.EOF) && n == 0 {
		return io.EOF
	}
	if err != nil {
		return r.corrupt("truncated chunk header", err)
	}
	if string(hdr[:4]) != chunkMagic {
		return r.corrupt("bad magic %q", nil, hdr[:4])
	}
	size := binary.LittleEndian.Uint32(hdr[4:])
	if size > MaxChunkSize {
		return r.corrupt("chunk size %d exceeds %d", nil, size, MaxChunkSize)
	}
	if cap(r.chunk) < int(size) {
		r.chunk = make([]byte, size)
	}
	r.chunk = r.chunk[:size]
	if _, err := io.ReadFull(r.r, r.chunk); err != nil {
		return r.corrupt("truncated chunk of %d bytes", err, size)
	}
	r.off = 0
	r.nextOffset += chunkHeaderSize + int64(size)
	return nil
}

func (r *Reader) corrupt(format string, cause error, args ...interface{}) error {
	return &ContainerError{
		Chunk:  r.chunkIndex,
		Offset: r.chunkOffset,
		Reason: fmt.Sprintf(format, args...),
		Err:    cause,
	}
}
