package binpack_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chess-binpack/binpack"
	"chess-binpack/chess"
)

func writeContainer(t *testing.T, entries []binpack.TrainingDataEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := binpack.NewWriter(&buf)
	for i := range entries {
		if err := w.Write(&entries[i]); err != nil {
			t.Fatalf("Write entry %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func readContainer(t *testing.T, data []byte) []binpack.TrainingDataEntry {
	t.Helper()
	r := binpack.NewReader(bytes.NewReader(data))
	var out []binpack.TrainingDataEntry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next after %d entries: %v", len(out), err)
		}
		out = append(out, e)
	}
}

func TestSyntheticGameRoundTrip(t *testing.T) {
	entries := gameEntries(t, syntheticFEN, syntheticMoves, syntheticScores, 1)
	for i := 1; i < len(entries); i++ {
		if !binpack.IsContinuation(&entries[i-1], &entries[i]) {
			t.Fatalf("entry %d does not continue entry %d", i, i-1)
		}
	}

	data := writeContainer(t, entries)
	// one chunk holding one record and its movetext
	if string(data[:4]) != "BINP" {
		t.Fatalf("chunk magic: got %q", data[:4])
	}
	if got, want := int(binary.LittleEndian.Uint32(data[4:8])), len(data)-8; got != want {
		t.Fatalf("chunk length: got %d want %d", got, want)
	}
	if got := binary.BigEndian.Uint16(data[8+binpack.EntrySize:]); got != uint16(len(entries)-1) {
		t.Fatalf("continuation plies: got %d want %d", got, len(entries)-1)
	}

	got := readContainer(t, data)
	if diff := cmp.Diff(entries, got, positionsEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestRandomGamesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var entries []binpack.TrainingDataEntry
	for g := 0; g < 30; g++ {
		entries = append(entries, randomGame(rng, 120)...)
	}
	got := readContainer(t, writeContainer(t, entries))
	if diff := cmp.Diff(entries, got, positionsEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestNonContinuationStartsNewRecord(t *testing.T) {
	entries := gameEntries(t, syntheticFEN, syntheticMoves, syntheticScores, 1)
	// Break the chain: same position repeated, and a result that does not flip.
	entries = append(entries, entries[0], entries[1])
	entries[len(entries)-1].Result = entries[len(entries)-2].Result

	data := writeContainer(t, entries)
	got := readContainer(t, data)
	if diff := cmp.Diff(entries, got, positionsEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
	// 3 records of 34 bytes plus the first record's movetext
	if n := len(data) - 8; n < 3*(binpack.EntrySize+2) {
		t.Fatalf("payload of %d bytes cannot hold three records", n)
	}
}

func TestFlushSplitsChunks(t *testing.T) {
	entries := gameEntries(t, syntheticFEN, syntheticMoves, syntheticScores, 0)
	var buf bytes.Buffer
	w := binpack.NewWriter(&buf)
	for i := range entries {
		if err := w.Write(&entries[i]); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if i == 3 {
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := bytes.Count(buf.Bytes(), []byte("BINP")); n != 2 {
		t.Fatalf("chunks: got %d want 2", n)
	}
	if diff := cmp.Diff(entries, readContainer(t, buf.Bytes()), positionsEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestWriterRejectsIllegalMove(t *testing.T) {
	entries := gameEntries(t, syntheticFEN, syntheticMoves, syntheticScores, 1)
	bad := entries[0]
	bad.Move = chess.NormalMove(chess.E1, chess.E3)

	var buf bytes.Buffer
	w := binpack.NewWriter(&buf)
	if err := w.Write(&entries[0]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	err := w.Write(&bad)
	if !errors.Is(err, binpack.ErrIllegalMove) {
		t.Fatalf("illegal move: got %v want ErrIllegalMove", err)
	}
	var ime *binpack.IllegalMoveError
	if !errors.As(err, &ime) || ime.Move != "e1e3" || ime.FEN != bad.Pos.FEN() {
		t.Fatalf("error does not name the move and position: %v", err)
	}
	// The stream stays usable.
	if err := w.Write(&entries[1]); err != nil {
		t.Fatalf("Write after rejection: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if diff := cmp.Diff(entries[:2], readContainer(t, buf.Bytes()), positionsEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestReaderCorruptContainer(t *testing.T) {
	entries := gameEntries(t, syntheticFEN, syntheticMoves, syntheticScores, 1)
	good := writeContainer(t, entries)

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "PNIB")

	oversized := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(oversized[4:8], binpack.MaxChunkSize+1)

	// movetext claims more plies than it holds
	tooManyPlies := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(tooManyPlies[8+binpack.EntrySize:], 0xFFFF)

	shortRecord := []byte("BINP\x05\x00\x00\x00abcde")

	cases := []struct {
		name string
		data []byte
	}{
		{"bad magic", badMagic},
		{"oversized chunk", oversized},
		{"truncated header", good[:5]},
		{"truncated payload", good[:len(good)-3]},
		{"too many plies", tooManyPlies},
		{"short record", shortRecord},
		{"trailing garbage", append(append([]byte(nil), good...), 'B', 'I')},
	}
	for _, tc := range cases {
		r := binpack.NewReader(bytes.NewReader(tc.data))
		var err error
		for err == nil {
			_, err = r.Next()
		}
		if !errors.Is(err, binpack.ErrCorruptContainer) {
			t.Fatalf("%s: got %v want ErrCorruptContainer", tc.name, err)
		}
		var ce *binpack.ContainerError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: %v is not a *ContainerError", tc.name, err)
		}
		// Errors are sticky.
		if _, again := r.Next(); again != err {
			t.Fatalf("%s: second Next returned %v", tc.name, again)
		}
	}
}

func TestReaderEmptyStream(t *testing.T) {
	r := binpack.NewReader(bytes.NewReader(nil))
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("empty stream: got %v want io.EOF", err)
	}
}

func TestDoublePushesWithoutTargetContinue(t *testing.T) {
	// Other tools write "-" after a double push nobody can capture.
	text := `fen rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1
move e2e4
score 20
ply 0
result 0
e
fen rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1
move e7e5
score -25
ply 1
result 0
e
fen rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2
move g1f3
score 30
ply 2
result 0
e
fen rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2
move b8c6
score -30
ply 3
result 0
e
`
	r := binpack.NewPlainReader(bytes.NewReader([]byte(text)))
	var entries []binpack.TrainingDataEntry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("plain Next: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 4 {
		t.Fatalf("entries: got %d want 4", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if !binpack.IsContinuation(&entries[i-1], &entries[i]) {
			t.Fatalf("entry %d (%s) does not continue entry %d", i, entries[i].Pos.FEN(), i-1)
		}
	}

	data := writeContainer(t, entries)
	if plies := binary.BigEndian.Uint16(data[8+binpack.EntrySize:]); plies != 3 {
		t.Fatalf("continuation plies: got %d want 3", plies)
	}
	if len(data) >= 8+2*binpack.EntrySize {
		t.Fatalf("game stored as more than one record: %d bytes", len(data))
	}
	got := readContainer(t, data)
	for i := range entries {
		if got[i].Pos.FEN() != entries[i].Pos.FEN() || got[i].Move != entries[i].Move || got[i].Score != entries[i].Score {
			t.Fatalf("entry %d: got %s %v %d", i, got[i].Pos.FEN(), got[i].Move, got[i].Score)
		}
	}
}
