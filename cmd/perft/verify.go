package main

import (
	"fmt"
	"sort"

	goose "github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/dylhunn/dragontoothmg"

	"chess-binpack/chess"
)

// rootCount is one root move with its subtree size from each generator.
// A count of -1 means that generator did not produce the move.
type rootCount struct {
	move      string
	got, want int64
}

// divideByUCI runs PerftDivide and keys the result by UCI text.
func divideByUCI(pos *chess.Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	for m, n := range chess.PerftDivide(pos, depth) {
		out[m.UCI()] = n
	}
	return out
}

// verifyDivide compares our divide against goosemg's and returns every root
// move whose count differs, sorted by move text.
func verifyDivide(fen string, pos *chess.Position, depth int) ([]rootCount, error) {
	ref, err := goose.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("goosemg: %w", err)
	}
	want := make(map[string]uint64)
	for m, n := range goose.PerftDivide(ref, depth) {
		want[m.String()] = n
	}
	got := divideByUCI(pos, depth)

	var diffs []rootCount
	for mv, n := range got {
		w, ok := want[mv]
		switch {
		case !ok:
			diffs = append(diffs, rootCount{move: mv, got: int64(n), want: -1})
		case w != n:
			diffs = append(diffs, rootCount{move: mv, got: int64(n), want: int64(w)})
		}
	}
	for mv, w := range want {
		if _, ok := got[mv]; !ok {
			diffs = append(diffs, rootCount{move: mv, got: -1, want: int64(w)})
		}
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].move < diffs[j].move })
	return diffs, nil
}

// verifyRootMoves compares the root legal move list with dragontoothmg's and
// returns the moves only we generate and the moves only it generates.
func verifyRootMoves(fen string, pos *chess.Position) (extra, missing []string) {
	ref := dragontoothmg.ParseFen(fen)
	theirs := make(map[string]bool)
	for _, m := range ref.GenerateLegalMoves() {
		theirs[m.String()] = true
	}
	ours := make(map[string]bool)
	for _, m := range pos.GenerateLegalMoves() {
		s := m.UCI()
		ours[s] = true
		if !theirs[s] {
			extra = append(extra, s)
		}
	}
	for s := range theirs {
		if !ours[s] {
			missing = append(missing, s)
		}
	}
	sort.Strings(extra)
	sort.Strings(missing)
	return extra, missing
}
