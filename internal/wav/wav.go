// Package wav reads and writes 16-bit PCM RIFF/WAVE files.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FormatPCM is the WAVE format tag of integer PCM.
const FormatPCM = 1

// Chunk identifiers, read big-endian.
const (
	riffHeader   = 0x52494646 // "RIFF"
	waveFormat   = 0x57415645 // "WAVE"
	formatHeader = 0x666d7420 // "fmt "
	dataHeader   = 0x64617461 // "data"
)

// Errors returned by Read.
var (
	ErrNotWave           = errors.New("wav: not a RIFF/WAVE file")
	ErrUnsupportedFormat = errors.New("wav: only 16-bit integer PCM is supported")
	ErrMissingChunk      = errors.New("wav: missing fmt or data chunk")
)

// Header is the body of the fmt chunk.
type Header struct {
	Format        uint16
	NChannels     uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// File is a decoded 16-bit PCM wave file.
type File struct {
	SampleRate int
	Channels   int
	Samples    []int16 // Interleaved
}

// Frames returns the number of sample frames.
func (f *File) Frames() int {
	if f.Channels == 0 {
		return 0
	}
	return len(f.Samples) / f.Channels
}

// Read parses a wave file. Chunks other than fmt and data are skipped.
func Read(r io.Reader) (*File, error) {
	var id, size uint32
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}
	if id != riffHeader {
		return nil, ErrNotWave
	}
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}
	if id != waveFormat {
		return nil, ErrNotWave
	}

	var (
		header    Header
		hasHeader bool
		data      []byte
		hasData   bool
	)
	for !hasHeader || !hasData {
		if err := binary.Read(r, binary.BigEndian, &id); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrMissingChunk
			}
			return nil, fmt.Errorf("wav: read chunk: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("wav: read chunk: %w", err)
		}
		// Chunks are padded to an even length.
		pad := int64(size & 1)

		switch id {
		case formatHeader:
			if size < 16 {
				return nil, fmt.Errorf("wav: fmt chunk of %d bytes", size)
			}
			if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
				return nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			if _, err := io.CopyN(io.Discard, r, int64(size)-16+pad); err != nil {
				return nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			hasHeader = true
		case dataHeader:
			data = make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("wav: read data chunk: %w", err)
			}
			// The pad byte after a final data chunk is often missing, so
			// it is only required when more chunks must follow.
			if pad != 0 && !hasHeader {
				if _, err := io.CopyN(io.Discard, r, pad); err != nil {
					return nil, fmt.Errorf("wav: read data chunk: %w", err)
				}
			}
			hasData = true
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)+pad); err != nil {
				return nil, fmt.Errorf("wav: skip chunk: %w", err)
			}
		}
	}

	if header.Format != FormatPCM || header.BitsPerSample != 16 || header.NChannels == 0 {
		return nil, ErrUnsupportedFormat
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	channels := int(header.NChannels)
	samples = samples[:len(samples)/channels*channels]
	return &File{SampleRate: int(header.SampleRate), Channels: channels, Samples: samples}, nil
}

// Write serializes f as a canonical 44-byte-header wave file.
func (f *File) Write(w io.Writer) error {
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return fmt.Errorf("wav: invalid format: %d channels at %d Hz", f.Channels, f.SampleRate)
	}
	dataLen := uint32(2 * len(f.Samples))
	header := Header{
		Format:        FormatPCM,
		NChannels:     uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate * f.Channels * 2),
		BlockAlign:    uint16(f.Channels * 2),
		BitsPerSample: 16,
	}

	buf := make([]byte, 0, 44+dataLen)
	buf = binary.BigEndian.AppendUint32(buf, riffHeader)
	buf = binary.LittleEndian.AppendUint32(buf, 36+dataLen)
	buf = binary.BigEndian.AppendUint32(buf, waveFormat)
	buf = binary.BigEndian.AppendUint32(buf, formatHeader)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf, _ = binary.Append(buf, binary.LittleEndian, &header)
	buf = binary.BigEndian.AppendUint32(buf, dataHeader)
	buf = binary.LittleEndian.AppendUint32(buf, dataLen)
	for _, s := range f.Samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}
	return nil
}

// Stereo returns the samples as interleaved stereo. Mono is duplicated to
// both channels; files with more than two channels keep the first two.
func (f *File) Stereo() []int16 {
	switch f.Channels {
	case 2:
		return f.Samples
	case 1:
		out := make([]int16, 2*len(f.Samples))
		for i, s := range f.Samples {
			out[2*i], out[2*i+1] = s, s
		}
		return out
	}
	frames := f.Frames()
	out := make([]int16, 2*frames)
	for i := 0; i < frames; i++ {
		out[2*i] = f.Samples[i*f.Channels]
		out[2*i+1] = f.Samples[i*f.Channels+1]
	}
	return out
}
