package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/mlac"
	"github.com/thesyncim/mlac/internal/report"
	"github.com/thesyncim/mlac/internal/wav"
)

var decodeSampleRate int

var decodeCmd = &cobra.Command{
	Use:   "decode <input.mlac> <output.wav>",
	Short: "Decode a block stream into a WAV file",
	Long: `Decode a block stream into a stereo WAV file.

A block stream does not record its sample rate; pass the rate it was
encoded at with --sample-rate or MLAC_SAMPLE_RATE.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate := cfg.SampleRate
		if decodeSampleRate > 0 {
			rate = decodeSampleRate
		}
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		dec, err := mlac.NewDecoder(profile())
		if err != nil {
			return err
		}
		br, err := mlac.NewBlockReader(bufio.NewReader(in), dec)
		if err != nil {
			return err
		}
		pcm, err := br.DecodeAll()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if err := writeWAV(args[1], rate, pcm); err != nil {
			return err
		}
		slog.Info("decoded", "blocks", br.Stats.Blocks, "output", args[1])
		return printReport(cmd, report.New(profile(), rate, br.Stats))
	},
}

func init() {
	decodeCmd.Flags().IntVarP(&decodeSampleRate, "sample-rate", "r", 0, "sample rate of the stream (default from MLAC_SAMPLE_RATE)")
}

func writeWAV(path string, rate int, pcm []int16) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(out)
	f := &wav.File{SampleRate: rate, Channels: 2, Samples: pcm}
	if err := f.Write(w); err != nil {
		return err
	}
	return w.Flush()
}
