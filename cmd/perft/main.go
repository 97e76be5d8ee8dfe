package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"chess-binpack/chess"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.Bool("verify", false, "Cross-check root moves against goosemg and dragontoothmg")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	chess.Init()
	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	switch {
	case *verify:
		os.Exit(runVerify(*fen, &pos, *depth))
	case *divide:
		printDivide(&pos, *depth)
	default:
		stop := startProfile(*cpuProf)
		runTimed(&pos, *depth, *repeat, *label)
		stop()
		writeHeapProfile(*memProf)
	}
}

func printDivide(pos *chess.Position, depth int) {
	div := divideByUCI(pos, depth)
	moves := make([]string, 0, len(div))
	var sum uint64
	for mv, n := range div {
		moves = append(moves, mv)
		sum += n
	}
	sort.Strings(moves)
	for _, mv := range moves {
		fmt.Printf("%s: %d\n", mv, div[mv])
	}
	fmt.Printf("Total: %d\n", sum)
}

// runVerify prints every disagreement and returns the process exit code.
func runVerify(fen string, pos *chess.Position, depth int) int {
	code := 0
	extra, missing := verifyRootMoves(fen, pos)
	for _, mv := range extra {
		fmt.Printf("%s: generated here, not by dragontoothmg\n", mv)
		code = 1
	}
	for _, mv := range missing {
		fmt.Printf("%s: generated by dragontoothmg, not here\n", mv)
		code = 1
	}

	diffs, err := verifyDivide(fen, pos, depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 2
	}
	for _, d := range diffs {
		fmt.Printf("%s: got %d goosemg %d\n", d.move, d.got, d.want)
		code = 1
	}
	if code == 0 {
		fmt.Printf("OK depth %d: %d root moves agree\n", depth, len(pos.GenerateLegalMoves()))
	}
	return code
}

func runTimed(pos *chess.Position, depth, repeat int, label string) {
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < repeat; i++ {
		totalNodes += chess.Perft(pos, depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Label Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", label, depth, totalNodes, elapsed, nps)
}

// startProfile begins CPU profiling to path, if set, and returns the stop func.
func startProfile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
		os.Exit(2)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
		os.Exit(2)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}
}

func writeHeapProfile(path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating memprofile: %v\n", err)
		os.Exit(2)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "write heap profile: %v\n", err)
	}
	_ = f.Close()
}
