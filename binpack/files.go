package binpack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Format identifies an on-disk training data format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPlain
	FormatBin
	FormatBinpack
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatBin:
		return "bin"
	case FormatBinpack:
		return "binpack"
	}
	return "unknown"
}

// DetectFormat infers the format from the file extension. A trailing .zst is
// stripped first and reported through compressed.
func DetectFormat(path string) (f Format, compressed bool) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".zst") {
		compressed = true
		name = strings.TrimSuffix(name, ".zst")
	}
	switch filepath.Ext(name) {
	case ".plain", ".txt":
		return FormatPlain, compressed
	case ".bin":
		return FormatBin, compressed
	case ".binpack":
		return FormatBinpack, compressed
	}
	return FormatUnknown, compressed
}

// EntryReader yields training entries until io.EOF.
type EntryReader interface {
	Next() (TrainingDataEntry, error)
}

// EntryWriter consumes training entries. Close flushes buffered output.
type EntryWriter interface {
	Write(e *TrainingDataEntry) error
	Close() error
}

const fileBufferSize = 1 << 20

// FileReader is an EntryReader over a file opened with Open.
type FileReader struct {
	EntryReader
	Format Format
	close  []func() error
}

// Open opens path for reading in the format given by its extension.
func Open(path string) (*FileReader, error) {
	format, compressed := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("open %s: unrecognized extension", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fr := &FileReader{Format: format, close: []func() error{f.Close}}
	var r io.Reader = bufio.NewReaderSize(f, fileBufferSize)
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: zstd: %w", path, err)
		}
		fr.close = append([]func() error{func() error { dec.Close(); return nil }}, fr.close...)
		r = dec
	}
	switch format {
	case FormatPlain:
		fr.EntryReader = NewPlainReader(r)
	case FormatBin:
		fr.EntryReader = NewBinReader(r)
	case FormatBinpack:
		fr.EntryReader = NewReader(r)
	}
	return fr, nil
}

// Close releases the decoder and the file.
func (fr *FileReader) Close() error {
	var errs []error
	for _, c := range fr.close {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// FileWriter is an EntryWriter over a file created with Create.
type FileWriter struct {
	entries EntryWriter
	Format  Format
	close   []func() error
}

// Create creates path for writing in the format given by its extension.
func Create(path string) (*FileWriter, error) {
	format, compressed := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("create %s: unrecognized extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriterSize(f, fileBufferSize)
	fw := &FileWriter{Format: format, close: []func() error{bw.Flush, f.Close}}
	var w io.Writer = bw
	if compressed {
		enc, err := zstd.NewWriter(bw)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create %s: zstd: %w", path, err)
		}
		fw.close = append([]func() error{enc.Close}, fw.close...)
		w = enc
	}
	switch format {
	case FormatPlain:
		fw.entries = NewPlainWriter(w)
	case FormatBin:
		fw.entries = NewBinWriter(w)
	case FormatBinpack:
		fw.entries = NewWriter(w)
	}
	return fw, nil
}

// Write adds e to the file.
func (fw *FileWriter) Write(e *TrainingDataEntry) error { return fw.entries.Write(e) }

// Close flushes every layer and closes the file.
func (fw *FileWriter) Close() error {
	errs := []error{fw.entries.Close()}
	for _, c := range fw.close {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
