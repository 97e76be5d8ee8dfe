package binpack_test

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chess-binpack/binpack"
	"chess-binpack/chess"
)

func TestPackedSfenRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for g := 0; g < 10; g++ {
		for _, e := range randomGame(rng, 100) {
			ps := binpack.PackSfen(&e.Pos)
			got, err := binpack.UnpackSfen(&ps)
			if err != nil {
				t.Fatalf("UnpackSfen(%s): %v", e.Pos.FEN(), err)
			}
			if got.FEN() != e.Pos.FEN() {
				t.Fatalf("sfen round trip: got %q want %q", got.FEN(), e.Pos.FEN())
			}
		}
	}
}

func TestPackedSfenStartPosition(t *testing.T) {
	pos := chess.StartPosition()
	ps := binpack.PackSfen(&pos)
	// white to move (0), white king e1 = 4 written low bit first: 0 0010 0...
	if ps[0] != 0x08 {
		t.Fatalf("first byte: got %#02x want 0x08", ps[0])
	}
	got, err := binpack.UnpackSfen(&ps)
	if err != nil {
		t.Fatalf("UnpackSfen: %v", err)
	}
	if got != pos {
		t.Fatalf("start position: got %q", got.FEN())
	}
}

func TestLegacyMoveWord(t *testing.T) {
	cases := []struct {
		m    chess.Move
		want uint16
	}{
		{chess.NormalMove(chess.E2, chess.E4), 12<<6 | 28},
		{chess.PromotionMove(chess.B7, chess.A8, chess.WhiteQueen), 1<<14 | 3<<12 | 49<<6 | 56},
		{chess.PromotionMove(chess.G2, chess.G1, chess.BlackKnight), 1<<14 | 14<<6 | 6},
		{chess.EnPassantMove(chess.E5, chess.D6), 2<<14 | 36<<6 | 43},
		{chess.CastleMove(chess.CastleLong, chess.Black), 3<<14 | 60<<6 | 56},
	}
	for _, tc := range cases {
		if got := binpack.LegacyMove(tc.m); got != tc.want {
			t.Fatalf("LegacyMove(%v): got %#04x want %#04x", tc.m, got, tc.want)
		}
		if got := binpack.MoveFromLegacy(tc.want); got != tc.m {
			t.Fatalf("MoveFromLegacy(%#04x): got %#v want %#v", tc.want, got, tc.m)
		}
	}
}

func TestBinStreamRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	entries := randomGame(rng, 60)
	var buf bytes.Buffer
	w := binpack.NewBinWriter(&buf)
	for i := range entries {
		if err := w.Write(&entries[i]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if buf.Len() != len(entries)*binpack.PackedSfenValueSize {
		t.Fatalf("stream size: got %d want %d", buf.Len(), len(entries)*binpack.PackedSfenValueSize)
	}
	r := binpack.NewBinReader(&buf)
	var got []binpack.TrainingDataEntry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, e)
	}
	if diff := cmp.Diff(entries, got, positionsEqual); diff != "" {
		t.Fatalf("bin round trip (-want +got):\n%s", diff)
	}
}

func TestBinReaderTruncated(t *testing.T) {
	r := binpack.NewBinReader(bytes.NewReader(make([]byte, 17)))
	if _, err := r.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("truncated record: got %v", err)
	}
}
