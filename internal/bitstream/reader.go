package bitstream

import "github.com/thesyncim/mlac/internal/expgolomb"

// Reader unpacks bit fields written by Writer.
//
// Reading past the end of the buffer yields zero bits and never touches
// memory outside it, so a corrupt block decodes to garbage instead of
// faulting.
type Reader struct {
	buf []byte
	n   int // Bits consumed
}

// Init resets the reader to the start of buf.
func (r *Reader) Init(buf []byte) {
	r.buf = buf
	r.n = 0
}

// Peek32 returns the next 32 bits, MSB-aligned, without consuming them.
func (r *Reader) Peek32() uint32 {
	pos := r.n >> 3
	var window uint64
	for i := pos; i < pos+5; i++ {
		window <<= 8
		if i < len(r.buf) {
			window |= uint64(r.buf[i])
		}
	}
	return uint32(window << uint(r.n&7) >> 8)
}

// Read consumes n bits (1..32) and returns them right-aligned.
func (r *Reader) Read(n int) uint32 {
	v := r.Peek32() >> uint(32-n)
	r.n += n
	return v
}

// ReadSigned reads a value coded with the Exp-Golomb-like code of
// parameter k.
func (r *Reader) ReadSigned(k int) int16 {
	v, n := expgolomb.Decode(r.Peek32(), k, expgolomb.MaxDepth)
	r.n += n
	return v
}

// ReadParameter reads a residual code parameter.
func (r *Reader) ReadParameter() int {
	k, n := expgolomb.DecodeParameter(r.Peek32())
	r.n += n
	return k
}

// Tell returns the number of bits consumed.
func (r *Reader) Tell() int {
	return r.n
}
