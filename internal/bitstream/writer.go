// Package bitstream implements the MSB-first bit packer and unpacker used to
// lay out MLAC blocks.
//
// Neither side does framing or capacity accounting: writer and reader must
// agree on the width and order of every field, and the writer's caller must
// keep the total within the buffer.
package bitstream

import "github.com/thesyncim/mlac/internal/expgolomb"

// Writer packs bit fields into a caller-supplied buffer.
type Writer struct {
	buf []byte // Output buffer (pre-allocated)
	n   int    // Bits written
}

// Init resets the writer to the start of buf.
// Bytes are overwritten as they are reached, so buf need not be cleared.
func (w *Writer) Init(buf []byte) {
	w.buf = buf
	w.n = 0
}

// Write appends the low n bits of bits, most significant first.
// n must be in 1..32.
func (w *Writer) Write(bits uint32, n int) {
	bits <<= uint(32 - n)
	for {
		pos := w.n >> 3
		used := w.n & 7
		if used == 0 {
			w.buf[pos] = byte(bits >> 24)
		} else {
			w.buf[pos] |= byte(bits >> uint(24+used))
		}
		free := 8 - used
		if n <= free {
			w.n += n
			return
		}
		w.n += free
		n -= free
		bits <<= uint(free)
	}
}

// WriteSigned writes v with the Exp-Golomb-like code of parameter k.
func (w *Writer) WriteSigned(v int16, k int) {
	code, n := expgolomb.Encode(v, k, expgolomb.MaxDepth)
	w.Write(code, n)
}

// WriteParameter writes a residual code parameter.
func (w *Writer) WriteParameter(k int) {
	code, n := expgolomb.EncodeParameter(k)
	w.Write(code, n)
}

// ZeroTail clears every byte after the last one written to.
func (w *Writer) ZeroTail() {
	clear(w.buf[(w.n+7)>>3:])
}

// Tell returns the number of bits written.
func (w *Writer) Tell() int {
	return w.n
}
