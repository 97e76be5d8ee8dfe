package binpack

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

// ConvertOptions controls Convert and Validate.
type ConvertOptions struct {
	MaxEntries    int64       // stop after this many entries; 0 = all
	ProgressEvery int64       // log progress every N entries; 0 = never
	Logger        *log.Logger // nil discards output
}

func (o *ConvertOptions) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}

// Stats summarizes a conversion or validation run.
type Stats struct {
	Entries int64
	Elapsed time.Duration
}

// Convert streams every entry of inPath into outPath, converting between the
// formats given by the file extensions. An entry with an illegal move is
// logged and aborts the run with an error wrapping ErrIllegalMove.
func Convert(inPath, outPath string, opts ConvertOptions) (Stats, error) {
	lg := opts.logger()
	in, err := Open(inPath)
	if err != nil {
		return Stats{}, err
	}
	defer in.Close()
	out, err := Create(outPath)
	if err != nil {
		return Stats{}, err
	}

	lg.Printf("converting %s (%v) to %s (%v)", inPath, in.Format, outPath, out.Format)
	stats, err := copyEntries(out, in, opts, lg)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", outPath, cerr)
	}
	if err != nil {
		return stats, err
	}
	lg.Printf("converted %d entries in %v", stats.Entries, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

func copyEntries(dst EntryWriter, src EntryReader, opts ConvertOptions, lg *log.Logger) (Stats, error) {
	start := time.Now()
	var stats Stats
	for opts.MaxEntries == 0 || stats.Entries < opts.MaxEntries {
		e, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("entry %d: %w", stats.Entries, err)
		}
		if err := dst.Write(&e); err != nil {
			if errors.Is(err, ErrIllegalMove) {
				lg.Printf("illegal move %s in %s (entry %d)", e.Move.UCI(), e.Pos.FEN(), stats.Entries)
			}
			return stats, fmt.Errorf("entry %d: %w", stats.Entries, err)
		}
		stats.Entries++
		if opts.ProgressEvery > 0 && stats.Entries%opts.ProgressEvery == 0 {
			lg.Printf("  %d entries", stats.Entries)
		}
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// Validate reads path to the end, checking that every entry's move is legal.
func Validate(path string, opts ConvertOptions) (Stats, error) {
	lg := opts.logger()
	in, err := Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer in.Close()

	start := time.Now()
	var stats Stats
	for opts.MaxEntries == 0 || stats.Entries < opts.MaxEntries {
		e, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("entry %d: %w", stats.Entries, err)
		}
		if !e.IsValid() {
			lg.Printf("illegal move %s in %s (entry %d)", e.Move.UCI(), e.Pos.FEN(), stats.Entries)
			return stats, fmt.Errorf("entry %d: %w", stats.Entries, &IllegalMoveError{FEN: e.Pos.FEN(), Move: e.Move.UCI()})
		}
		stats.Entries++
		if opts.ProgressEvery > 0 && stats.Entries%opts.ProgressEvery == 0 {
			lg.Printf("  %d entries", stats.Entries)
		}
	}
	stats.Elapsed = time.Since(start)
	lg.Printf("%s: %d valid entries", path, stats.Entries)
	return stats, nil
}
