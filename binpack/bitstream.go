package binpack

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// vleBlockSize is the payload width of one variable-length block.
const vleBlockSize = 4

// usedBits returns the number of bits needed to represent n.
func usedBits[T constraints.Unsigned](n T) int {
	return bits.Len64(uint64(n))
}

// usedBitsSafe returns the width of an index into a set of n choices:
// the bit length of n-1, zero when there is at most one choice.
func usedBitsSafe[T constraints.Unsigned](n T) int {
	if n <= 1 {
		return 0
	}
	return usedBits(n - 1)
}

// bitWriter appends values most significant bit first.
type bitWriter struct {
	buf      []byte
	bitsLeft int // free low bits in the last byte
}

func (w *bitWriter) reset() {
	w.buf = w.buf[:0]
	w.bitsLeft = 0
}

// writeBits appends the low n bits of v, n <= 32.
func (w *bitWriter) writeBits(v uint32, n int) {
	for n > 0 {
		if w.bitsLeft == 0 {
			w.buf = append(w.buf, 0)
			w.bitsLeft = 8
		}
		take := n
		if take > w.bitsLeft {
			take = w.bitsLeft
		}
		chunk := (v >> uint(n-take)) & (1<<uint(take) - 1)
		w.buf[len(w.buf)-1] |= byte(chunk << uint(w.bitsLeft-take))
		w.bitsLeft -= take
		n -= take
	}
}

// writeVLE writes v in blocks of vleBlockSize bits, low block first, each
// followed by a continuation bit.
func writeVLE[T constraints.Unsigned](w *bitWriter, v T) {
	const mask = 1<<vleBlockSize - 1
	for {
		block := uint32(v & mask)
		v >>= vleBlockSize
		if v != 0 {
			block |= 1 << vleBlockSize
		}
		w.writeBits(block, vleBlockSize+1)
		if v == 0 {
			return
		}
	}
}

// bitReader consumes a bitWriter's output.
type bitReader struct {
	buf []byte
	pos int // bits consumed
}

// readBits returns the next n bits, n <= 32. ok is false if the buffer runs out.
func (r *bitReader) readBits(n int) (v uint32, ok bool) {
	if r.pos+n > len(r.buf)*8 {
		return 0, false
	}
	for n > 0 {
		avail := 8 - r.pos&7
		take := n
		if take > avail {
			take = avail
		}
		b := uint32(r.buf[r.pos>>3]) >> uint(avail-take) & (1<<uint(take) - 1)
		v = v<<uint(take) | b
		r.pos += take
		n -= take
	}
	return v, true
}

// bitSize is the width of T in bits.
func bitSize[T constraints.Unsigned]() int {
	return bits.Len64(uint64(^T(0)))
}

// readUint reads an n-bit field into a T. It fails when the field is wider
// than T or the buffer runs out.
func readUint[T constraints.Unsigned](r *bitReader, n int) (T, bool) {
	if n > bitSize[T]() {
		return 0, false
	}
	v, ok := r.readBits(n)
	return T(v), ok
}

// readVLE reads a value written by writeVLE. A value needing more blocks
// than fit in T is rejected.
func readVLE[T constraints.Unsigned](r *bitReader) (T, bool) {
	const mask = 1<<vleBlockSize - 1
	var v uint64
	for shift := 0; shift < bitSize[T](); shift += vleBlockSize {
		block, ok := r.readBits(vleBlockSize + 1)
		if !ok {
			return 0, false
		}
		v |= uint64(block&mask) << uint(shift)
		if block>>vleBlockSize == 0 {
			return T(v), true
		}
	}
	return 0, false
}

// bytesRead is the number of bytes touched so far, counting a partial byte.
func (r *bitReader) bytesRead() int {
	return (r.pos + 7) / 8
}
