package chess_test

import (
	"errors"
	"testing"

	"chess-binpack/chess"
)

func TestParseUCIMoveRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos := mustFEN(t, fen)
		walk(&pos, 1, func(p *chess.Position) {
			for _, m := range p.GenerateLegalMoves() {
				got, err := p.ParseUCIMove(m.UCI())
				if err != nil {
					t.Fatalf("%s: ParseUCIMove(%q): %v", p.FEN(), m.UCI(), err)
				}
				if got != m {
					t.Fatalf("%s: ParseUCIMove(%q) = %#v want %#v", p.FEN(), m.UCI(), got, m)
				}
			}
		})
	}
}

func TestParseUCIMoveSpecialForms(t *testing.T) {
	pos := mustFEN(t, kiwipeteFEN)
	cases := []struct {
		in   string
		want chess.Move
	}{
		{"e1g1", chess.CastleMove(chess.CastleShort, chess.White)},
		{"e1h1", chess.CastleMove(chess.CastleShort, chess.White)},
		{"e1a1", chess.CastleMove(chess.CastleLong, chess.White)},
		{"e1c1", chess.CastleMove(chess.CastleLong, chess.White)},
		{"e1d1", chess.NormalMove(chess.E1, chess.D1)},
		{"0000", chess.NullMove()},
	}
	for _, tc := range cases {
		got, err := pos.ParseUCIMove(tc.in)
		if err != nil {
			t.Fatalf("ParseUCIMove(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseUCIMove(%q) = %#v want %#v", tc.in, got, tc.want)
		}
	}
	if got := chess.CastleMove(chess.CastleShort, chess.White); got.UCI() != "e1g1" || got.To != chess.H1 {
		t.Fatalf("castle encoding: %#v prints %q", got, got.UCI())
	}

	ep := mustFEN(t, epFEN)
	if got, err := ep.ParseUCIMove("e5d6"); err != nil || got != chess.EnPassantMove(chess.E5, chess.D6) {
		t.Fatalf("ParseUCIMove(e5d6) = %#v, %v", got, err)
	}
	promo := mustFEN(t, promoFEN)
	if got, err := promo.ParseUCIMove("a7b8n"); err != nil || got != chess.PromotionMove(chess.A7, chess.B8, chess.WhiteKnight) {
		t.Fatalf("ParseUCIMove(a7b8n) = %#v, %v", got, err)
	}
}

func TestParseUCIMoveErrors(t *testing.T) {
	pos := mustFEN(t, chess.StartFEN)
	for _, in := range []string{"", "e2", "e2e4qq", "z2e4", "e2e9", "e4e5", "e2e4k", "g1f3q"} {
		if _, err := pos.ParseUCIMove(in); !errors.Is(err, chess.ErrInvalidMove) {
			t.Fatalf("ParseUCIMove(%q): got %v want ErrInvalidMove", in, err)
		}
	}
}
