package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"chess-binpack/binpack"
	"chess-binpack/chess"
)

func main() {
	input := flag.String("in", "", "Input file (.binpack, .bin, .plain/.txt, optionally .zst)")
	output := flag.String("out", "", "Output file; format from extension")
	maxEntries := flag.Int64("max", 0, "Maximum entries to convert (0 = all)")
	progress := flag.Int64("progress", 1000000, "Log progress every N entries (0 = off)")
	validate := flag.Bool("validate", false, "Only read -in and check every move, no output")
	flag.Parse()

	if *input == "" || (*output == "" && !*validate) {
		fmt.Println("Usage: convert -in <input> -out <output>")
		fmt.Println("       convert -validate -in <input>")
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	chess.Init()
	logger := log.New(os.Stderr, "", log.LstdFlags)
	opts := binpack.ConvertOptions{
		MaxEntries:    *maxEntries,
		ProgressEvery: *progress,
		Logger:        logger,
	}

	if *validate {
		if _, err := binpack.Validate(*input, opts); err != nil {
			logger.Printf("Validation failed: %v", err)
			os.Exit(1)
		}
		return
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	if _, err := binpack.Convert(*input, *output, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}
}
