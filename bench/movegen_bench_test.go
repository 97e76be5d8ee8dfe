package bench

import (
	"os"
	"testing"

	"chess-binpack/chess"
)

func TestMain(m *testing.M) {
	chess.Init()
	os.Exit(m.Run())
}

const (
	kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6FEN     = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
)

func benchLegalMoves(b *testing.B, fen string) {
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]chess.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.GenerateLegalMovesInto(buf[:0])
	}
}

func BenchmarkLegalMoves_Initial(b *testing.B) {
	benchLegalMoves(b, chess.StartFEN)
}

func BenchmarkLegalMoves_Kiwipete(b *testing.B) {
	benchLegalMoves(b, kiwipeteFEN)
}

func BenchmarkLegalMoves_Pos6(b *testing.B) {
	benchLegalMoves(b, pos6FEN)
}

func BenchmarkPseudoLegalMoves_EP(b *testing.B) {
	pos := chess.MustParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	buf := make([]chess.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.GeneratePseudoLegalMovesInto(buf[:0])
	}
}

func BenchmarkDoUndo_AllMoves_Kiwipete(b *testing.B) {
	pos := chess.MustParseFEN(kiwipeteFEN)
	moves := pos.GenerateLegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			rm := pos.DoMove(m)
			pos.UndoMove(rm)
		}
	}
}

func BenchmarkPieceMoveIndex_Kiwipete(b *testing.B) {
	pos := chess.MustParseFEN(kiwipeteFEN)
	moves := pos.GenerateLegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			idx, ok := pos.PieceMoveIndex(m)
			if !ok {
				b.Fatalf("no index for %v", m)
			}
			if _, ok := pos.PieceMoveAt(m.From, idx); !ok {
				b.Fatalf("no move at %d for %v", idx, m)
			}
		}
	}
}

func BenchmarkCompressPosition_Kiwipete(b *testing.B) {
	pos := chess.MustParseFEN(kiwipeteFEN)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cp := pos.Compress()
		if _, err := cp.Decompress(); err != nil {
			b.Fatalf("Decompress: %v", err)
		}
	}
}
