package commands

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/mlac"
	"github.com/thesyncim/mlac/internal/report"
	"github.com/thesyncim/mlac/internal/wav"
)

// encodeFlags are shared by the commands that run the encoder.
type encodeFlags struct {
	bitrate   float64
	minTuples int
	latency   int
	rate      int
}

func (f *encodeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.bitrate, "bitrate", "b", 0, "target bitrate in kbit/s (default from MLAC_BITRATE_KBPS)")
	fs.IntVar(&f.minTuples, "min-tuples", 0, "minimum tuples per block; overrides --bitrate")
	fs.IntVar(&f.latency, "latency", -1, "receiver buffer in ms for the peak rate (default from MLAC_LATENCY_MS)")
	fs.IntVar(&f.rate, "rate", 0, "resample the input to this rate first")
}

// encodeResult is what an encoding run reports.
type encodeResult struct {
	report report.Report
	rate   int // Sample rate the codec ran at
	pcm    []int16
}

// encodeWAV reads a WAV file and encodes it to w.
func encodeWAV(path string, w io.Writer, f *encodeFlags) (*encodeResult, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	file, err := wav.Read(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if file.Channels != 2 {
		slog.Info("converting to stereo", "file", path, "channels", file.Channels)
	}
	pcm := file.Stereo()
	rate := file.SampleRate
	if f.rate > 0 && f.rate != rate {
		slog.Info("resampling", "from", rate, "to", f.rate)
		if pcm, err = wav.Resample(pcm, 2, rate, f.rate); err != nil {
			return nil, err
		}
		rate = f.rate
	}

	r, err := encodePCM(pcm, rate, w, f)
	if err != nil {
		return nil, err
	}
	return &encodeResult{report: r, rate: rate, pcm: pcm}, nil
}

// encodePCM encodes interleaved stereo pcm to w block by block.
func encodePCM(pcm []int16, rate int, w io.Writer, f *encodeFlags) (report.Report, error) {
	p := profile()
	enc, err := newEncoder()
	if err != nil {
		return report.Report{}, err
	}

	bitrate := cfg.BitrateKbps
	if f.bitrate > 0 {
		bitrate = f.bitrate
	}
	latency := cfg.LatencyMs
	if f.latency >= 0 {
		latency = f.latency
	}
	minTuples := p.MinTuples
	switch {
	case f.minTuples > 0:
		minTuples = f.minTuples
		bitrate = 0
	case bitrate > 0:
		if minTuples, err = mlac.MinTuplesForBitrate(p, rate, bitrate); err != nil {
			return report.Report{}, err
		}
	}
	slog.Debug("encoding", "profile", p.Name, "rate", rate, "min_tuples", minTuples, "iterations", enc.Iterations())

	bw, err := mlac.NewBlockWriter(w, enc, minTuples)
	if err != nil {
		return report.Report{}, err
	}
	meter := mlac.NewRateMeter(p, rate, latency)
	for off := 0; off+1 < len(pcm); {
		n, res, err := bw.WriteBlock(pcm[off:])
		if err != nil {
			return report.Report{}, err
		}
		if !res.Lossless() {
			slog.Debug("lossy block",
				"offset", off/2,
				"resolution", res.Resolution,
				"tuples", res.Tuples,
			)
		}
		meter.Add(res.Tuples)
		off += 2 * n
	}

	r := report.New(p, rate, bw.Stats)
	r.MinTuples = minTuples
	r.TargetKbps = bitrate
	r.PeakKbps = meter.Peak()
	return r, nil
}

var encodeFlagsVar encodeFlags

var encodeCmd = &cobra.Command{
	Use:   "encode <input.wav> <output.mlac>",
	Short: "Encode a WAV file into a block stream",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf bytes.Buffer
		res, err := encodeWAV(args[0], &buf, &encodeFlagsVar)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		slog.Info("encoded", "blocks", res.report.Blocks, "output", args[1])
		return printReport(cmd, res.report)
	},
}

func init() {
	encodeFlagsVar.register(encodeCmd)
}
