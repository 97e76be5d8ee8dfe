package main

import (
	"os"
	"testing"

	"chess-binpack/chess"
)

func TestMain(m *testing.M) {
	chess.Init()
	os.Exit(m.Run())
}

func TestVerifyAgreesWithReferences(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
	}
	for _, fen := range fens {
		pos := chess.MustParseFEN(fen)
		extra, missing := verifyRootMoves(fen, &pos)
		if len(extra) != 0 || len(missing) != 0 {
			t.Fatalf("%s: extra %v missing %v", fen, extra, missing)
		}
		diffs, err := verifyDivide(fen, &pos, 2)
		if err != nil {
			t.Fatalf("verifyDivide(%s): %v", fen, err)
		}
		if len(diffs) != 0 {
			t.Fatalf("%s: divide mismatches %+v", fen, diffs)
		}
	}
}

func TestDivideByUCISumsToPerft(t *testing.T) {
	pos := chess.MustParseFEN(chess.StartFEN)
	div := divideByUCI(&pos, 3)
	if len(div) != 20 {
		t.Fatalf("root moves: got %d want 20", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 8902 {
		t.Fatalf("divide sum: got %d want 8902", sum)
	}
	if div["e2e4"] != 600 {
		t.Fatalf("e2e4: got %d want 600", div["e2e4"])
	}
}
