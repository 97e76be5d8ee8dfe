package binpack

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chess-binpack/chess"
)

// PlainWriter writes the line-oriented text format:
//
//	fen <FEN>
//	move <uci>
//	score <int>
//	ply <int>
//	result <int>
//	e
type PlainWriter struct {
	w *bufio.Writer
}

func NewPlainWriter(w io.Writer) *PlainWriter {
	return &PlainWriter{w: bufio.NewWriter(w)}
}

// Write appends e. Entries with an illegal move are rejected.
func (w *PlainWriter) Write(e *TrainingDataEntry) error {
	if err := e.check(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.w, "fen %s\nmove %s\nscore %d\nply %d\nresult %d\ne\n",
		e.Pos.FEN(), e.Move.UCI(), e.Score, e.Ply, e.Result)
	return err
}

// Close flushes buffered text. It does not close the underlying writer.
func (w *PlainWriter) Close() error { return w.w.Flush() }

// PlainReader parses the text format written by PlainWriter.
type PlainReader struct {
	sc   *bufio.Scanner
	line int
}

func NewPlainReader(r io.Reader) *PlainReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &PlainReader{sc: sc}
}

// Next returns the following entry, or io.EOF when the input ends between entries.
func (r *PlainReader) Next() (TrainingDataEntry, error) {
	var (
		e       TrainingDataEntry
		moveStr string
		haveFEN bool
	)
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" {
			continue
		}
		if text == "e" {
			if !haveFEN || moveStr == "" {
				return TrainingDataEntry{}, r.errorf("entry needs both fen and move")
			}
			m, err := e.Pos.ParseUCIMove(moveStr)
			if err != nil {
				return TrainingDataEntry{}, r.errorf("%w", err)
			}
			e.Move = m
			return e, nil
		}
		key, value, ok := strings.Cut(text, " ")
		if !ok {
			return TrainingDataEntry{}, r.errorf("malformed line %q", text)
		}
		var err error
		switch key {
		case "fen":
			e.Pos, err = chess.ParseFEN(value)
			haveFEN = true
		case "move":
			moveStr = value
		case "score":
			e.Score, err = parseInt16(value)
		case "ply":
			var n uint64
			n, err = strconv.ParseUint(value, 10, 16)
			e.Ply = uint16(n)
		case "result":
			e.Result, err = parseInt16(value)
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return TrainingDataEntry{}, r.errorf("%w", err)
		}
	}
	if err := r.sc.Err(); err != nil {
		return TrainingDataEntry{}, r.errorf("%w", err)
	}
	if haveFEN || moveStr != "" {
		return TrainingDataEntry{}, r.errorf("unterminated entry: %w", io.ErrUnexpectedEOF)
	}
	return TrainingDataEntry{}, io.EOF
}

func parseInt16(s string) (int16, error) {
	n, err := strconv.ParseInt(s, 10, 16)
	return int16(n), err
}

func (r *PlainReader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("plain: line %d: "+format, append([]interface{}{r.line}, args...)...)
}
