package binpack

import (
	"errors"
	"fmt"
	"io"
)

// BinWriter writes a flat stream of 40-byte legacy records.
type BinWriter struct {
	w     io.Writer
	count int64
}

func NewBinWriter(w io.Writer) *BinWriter { return &BinWriter{w: w} }

// Write appends e. Entries with an illegal move are rejected.
func (w *BinWriter) Write(e *TrainingDataEntry) error {
	if err := e.check(); err != nil {
		return err
	}
	v := e.ToPackedSfenValue()
	if err := v.WriteBinary(w.w); err != nil {
		return fmt.Errorf("bin: write record %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Close is a no-op; the caller owns the underlying writer.
func (w *BinWriter) Close() error { return nil }

// BinReader reads a flat stream of 40-byte legacy records.
type BinReader struct {
	r     io.Reader
	count int64
}

func NewBinReader(r io.Reader) *BinReader { return &BinReader{r: r} }

// Next returns the following entry, or io.EOF at a clean end of stream.
func (r *BinReader) Next() (TrainingDataEntry, error) {
	var v PackedSfenValue
	if err := v.ReadBinary(r.r); err != nil {
		if errors.Is(err, io.EOF) {
			return TrainingDataEntry{}, io.EOF
		}
		return TrainingDataEntry{}, fmt.Errorf("bin: read record %d: %w", r.count, err)
	}
	e, err := v.Entry()
	if err != nil {
		return TrainingDataEntry{}, fmt.Errorf("bin: record %d: %w", r.count, err)
	}
	r.count++
	return e, nil
}
