// stream.go implements sequential block encoding and decoding over io streams.

package mlac

import (
	"errors"
	"fmt"
	"io"
)

// Streaming API
//
// A block stream is the plain concatenation of Profile.BlockBytes blocks
// with no container around it. BlockWriter cuts interleaved PCM into
// blocks, advancing by however many tuples each block carried; BlockReader
// decodes such a stream block by block.
//
//	bw, err := mlac.NewBlockWriter(file, enc, minTuples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := bw.EncodeAll(pcm); err != nil {
//	    log.Fatal(err)
//	}
//
//	br, err := mlac.NewBlockReader(file, dec)
//	pcm, err := br.DecodeAll()
//
// A stream whose length is not a multiple of the tuples carried per block
// ends in a block padded with silence; the padding decodes as trailing
// samples.

// BlockWriter encodes interleaved PCM into a stream of blocks.
type BlockWriter struct {
	enc       *Encoder
	w         io.Writer
	minTuples int

	block []byte
	pad   []int16 // Zero-padded copy of a short final chunk

	// Stats accumulates the results of every block written.
	Stats Stats
}

// NewBlockWriter creates a BlockWriter that encodes with enc using the given
// minimum tuple count and writes blocks to w.
func NewBlockWriter(w io.Writer, enc *Encoder, minTuples int) (*BlockWriter, error) {
	if w == nil || enc == nil {
		return nil, ErrInvalidArgument
	}
	p := enc.Profile()
	if minTuples < p.MinTuples || minTuples > p.MaxTuples {
		return nil, ErrInvalidMinTuples
	}
	return &BlockWriter{
		enc:       enc,
		w:         w,
		minTuples: minTuples,
		block:     make([]byte, p.BlockBytes),
		pad:       make([]int16, 2*p.MaxTuples),
	}, nil
}

// WriteBlock encodes one block from the start of pcm and writes it.
// It returns the number of tuples of pcm consumed, which is Result.Tuples
// unless pcm ran out first, and the block's result.
func (bw *BlockWriter) WriteBlock(pcm []int16) (int, Result, error) {
	avail := len(pcm) / 2
	if avail == 0 {
		return 0, Result{}, ErrInvalidFrameSize
	}
	src := pcm
	if len(pcm) < len(bw.pad) {
		n := copy(bw.pad, pcm[:2*avail])
		clear(bw.pad[n:])
		src = bw.pad
	}
	res, err := bw.enc.Encode(src, bw.block, bw.minTuples)
	if err != nil {
		return 0, Result{}, err
	}
	if _, err := bw.w.Write(bw.block); err != nil {
		return 0, Result{}, fmt.Errorf("mlac: write block: %w", err)
	}
	bw.Stats.Add(res)
	return min(res.Tuples, avail), res, nil
}

// EncodeAll encodes every tuple of pcm and returns the number of blocks
// written.
func (bw *BlockWriter) EncodeAll(pcm []int16) (int, error) {
	blocks := 0
	for off := 0; off+1 < len(pcm); {
		n, _, err := bw.WriteBlock(pcm[off:])
		if err != nil {
			return blocks, err
		}
		off += 2 * n
		blocks++
	}
	return blocks, nil
}

// BlockReader decodes a stream of blocks.
type BlockReader struct {
	dec *Decoder
	r   io.Reader

	block []byte
	pcm   []int16

	// Stats accumulates the results of every block read.
	Stats Stats
}

// NewBlockReader creates a BlockReader that reads blocks from r and decodes
// them with dec.
func NewBlockReader(r io.Reader, dec *Decoder) (*BlockReader, error) {
	if r == nil || dec == nil {
		return nil, ErrInvalidArgument
	}
	p := dec.Profile()
	return &BlockReader{
		dec:   dec,
		r:     r,
		block: make([]byte, p.BlockBytes),
		pcm:   make([]int16, 2*p.MaxTuples),
	}, nil
}

// ReadBlock reads and decodes the next block. The returned samples alias an
// internal buffer that is overwritten by the next call. At the end of the
// stream it returns io.EOF; a stream ending mid-block yields
// ErrTruncatedBlock.
func (br *BlockReader) ReadBlock() ([]int16, Result, error) {
	if _, err := io.ReadFull(br.r, br.block); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, Result{}, ErrTruncatedBlock
		}
		if err == io.EOF {
			return nil, Result{}, io.EOF
		}
		return nil, Result{}, fmt.Errorf("mlac: read block: %w", err)
	}
	res, err := br.dec.Decode(br.block, br.pcm)
	if err != nil {
		return nil, Result{}, err
	}
	br.Stats.Add(res)
	return br.pcm[:2*res.Tuples], res, nil
}

// DecodeAll decodes blocks until the end of the stream and returns the
// concatenated samples.
func (br *BlockReader) DecodeAll() ([]int16, error) {
	var out []int16
	for {
		pcm, _, err := br.ReadBlock()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, pcm...)
	}
}
