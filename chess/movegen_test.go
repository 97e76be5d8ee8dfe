package chess_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chess-binpack/chess"
)

func uciStrings(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.UCI()
	}
	sort.Strings(out)
	return out
}

func TestPerftKnownCounts(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		nodes []uint64
	}{
		{"initial", chess.StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
		{"pos3", pos3FEN, []uint64{14, 191, 2812, 43238}},
		{"pos4", pos4FEN, []uint64{6, 264, 9467}},
		{"pos5", pos5FEN, []uint64{44, 1486, 62379}},
		{"pos6", pos6FEN, []uint64{46, 2079, 89890}},
		{"en passant", epFEN, []uint64{5, 19}},
		{"promotion", promoFEN, []uint64{11}},
	}
	for _, tc := range cases {
		pos := mustFEN(t, tc.fen)
		for i, want := range tc.nodes {
			if got := chess.Perft(&pos, i+1); got != want {
				t.Fatalf("%s depth%d: got %d want %d", tc.name, i+1, got, want)
			}
		}
	}
}

func TestPerftInitialDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	pos := mustFEN(t, chess.StartFEN)
	if got := chess.Perft(&pos, 5); got != 4865609 {
		t.Fatalf("initial depth5: got %d want %d", got, 4865609)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	pos := mustFEN(t, kiwipeteFEN)
	div := chess.PerftDivide(&pos, 2)
	if len(div) != 48 {
		t.Fatalf("divide root moves: got %d want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want %d", sum, 2039)
	}
}

func TestLegalIsFilteredPseudoLegal(t *testing.T) {
	for _, fen := range testFENs {
		pos := mustFEN(t, fen)
		walk(&pos, 2, func(p *chess.Position) {
			pseudo := p.GeneratePseudoLegalMoves()
			inPseudo := make(map[chess.Move]bool, len(pseudo))
			for _, m := range pseudo {
				if inPseudo[m] {
					t.Fatalf("%s: duplicate pseudo-legal move %v", p.FEN(), m)
				}
				inPseudo[m] = true
			}
			checker := chess.NewMoveLegalityChecker(p)
			var filtered []chess.Move
			for _, m := range pseudo {
				if checker.IsPseudoLegalMoveLegal(m) {
					filtered = append(filtered, m)
				}
			}
			legal := p.GenerateLegalMoves()
			if diff := cmp.Diff(uciStrings(filtered), uciStrings(legal)); diff != "" {
				t.Fatalf("%s: legal != filtered pseudo-legal (-filtered +legal):\n%s", p.FEN(), diff)
			}
			for _, m := range legal {
				if !p.IsMoveLegal(m) {
					t.Fatalf("%s: IsMoveLegal(%v) false for a generated move", p.FEN(), m)
				}
				next := p.AfterMove(m)
				us := p.SideToMove()
				if next.IsSquareAttacked(next.KingSquare(us), us.Opposite()) {
					t.Fatalf("%s: %v leaves the king attacked", p.FEN(), m)
				}
			}
		})
	}
}

func TestPinnedBishop(t *testing.T) {
	// The f2 bishop is pinned to e1 by the h4 bishop.
	pos := mustFEN(t, "4k3/8/8/8/7b/8/5B2/4K3 w - - 0 1")
	checker := chess.NewMoveLegalityChecker(&pos)
	cases := []struct {
		to    chess.Square
		legal bool
	}{
		{chess.G3, true},
		{chess.H4, true},
		{chess.E3, false},
		{chess.D4, false},
		{chess.G1, false},
	}
	for _, tc := range cases {
		m := chess.NormalMove(chess.F2, tc.to)
		if got := checker.IsPseudoLegalMoveLegal(m); got != tc.legal {
			t.Fatalf("f2%v: got legal=%v want %v", tc.to, got, tc.legal)
		}
	}
	var bishopMoves []string
	for _, m := range pos.GenerateLegalMoves() {
		if m.From == chess.F2 {
			bishopMoves = append(bishopMoves, m.UCI())
		}
	}
	sort.Strings(bishopMoves)
	if diff := cmp.Diff([]string{"f2g3", "f2h4"}, bishopMoves); diff != "" {
		t.Fatalf("pinned bishop moves (-want +got):\n%s", diff)
	}
}

func TestEnPassantDiscoveredCheck(t *testing.T) {
	// exd6 leaves the g7-c3 diagonal and exposes the king; cxd6 is fine.
	pos := mustFEN(t, "k7/6K1/8/2PpP3/8/2b5/8/8 w - d6 0 1")
	if pos.EnPassant() != chess.D6 {
		t.Fatalf("ep square: got %v want d6", pos.EnPassant())
	}
	if pos.IsMoveLegal(chess.EnPassantMove(chess.E5, chess.D6)) {
		t.Fatalf("exd6 exposes the king and must be illegal")
	}
	if !pos.IsMoveLegal(chess.EnPassantMove(chess.C5, chess.D6)) {
		t.Fatalf("cxd6 must stay legal")
	}
	if !pos.IsMoveLegal(chess.NormalMove(chess.E5, chess.E6)) {
		t.Fatalf("e6 must stay legal")
	}
}

func TestCastlingThroughAttack(t *testing.T) {
	cases := []struct {
		fen  string
		want []string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1c1", "e1g1"}},
		// f1 attacked by the f8 rook
		{"4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"e1c1"}},
		// b1 may be attacked for long castling
		{"1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"e1c1", "e1g1"}},
		// king in check
		{"4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", nil},
		// path blocked
		{"4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1", nil},
	}
	for _, tc := range cases {
		pos := mustFEN(t, tc.fen)
		var got []string
		for _, m := range pos.GenerateLegalMoves() {
			if m.Kind == chess.MoveCastle {
				got = append(got, m.UCI())
			}
		}
		sort.Strings(got)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s castling (-want +got):\n%s", tc.fen, diff)
		}
	}
}

func TestPieceMoveIndexRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos := mustFEN(t, fen)
		walk(&pos, 2, func(p *chess.Position) {
			for _, m := range p.GenerateLegalMoves() {
				idx, ok := p.PieceMoveIndex(m)
				if !ok {
					t.Fatalf("%s: %v has no index", p.FEN(), m)
				}
				if n := p.PieceMoveCount(m.From); idx >= n {
					t.Fatalf("%s: %v index %d out of %d", p.FEN(), m, idx, n)
				}
				back, ok := p.PieceMoveAt(m.From, idx)
				if !ok || back != m {
					t.Fatalf("%s: index %d of %v decodes to %v", p.FEN(), idx, m, back)
				}
			}
		})
	}
}

func TestCastlingOptionsOrder(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQq - 0 1")
	if diff := cmp.Diff([]chess.CastleType{chess.CastleLong, chess.CastleShort}, pos.CastlingOptions(chess.White)); diff != "" {
		t.Fatalf("white options (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]chess.CastleType{chess.CastleLong}, pos.CastlingOptions(chess.Black)); diff != "" {
		t.Fatalf("black options (-want +got):\n%s", diff)
	}
	// Short castling is the last king move index when both rights are held.
	short := chess.CastleMove(chess.CastleShort, chess.White)
	idx, ok := pos.PieceMoveIndex(short)
	if !ok || idx != pos.PieceMoveCount(chess.E1)-1 {
		t.Fatalf("short castle index: got %d ok=%v", idx, ok)
	}
}
