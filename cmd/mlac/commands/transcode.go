package commands

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thesyncim/mlac"
)

var transcodeFlags encodeFlags

var transcodeCmd = &cobra.Command{
	Use:   "transcode <input.wav> <output.wav>",
	Short: "Run a WAV file through the encoder and decoder",
	Long: `Encode a WAV file and decode it again, writing what a receiver would
hear. Use --bitrate to hear the effect of lossy blocks.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var stream bytes.Buffer
		res, err := encodeWAV(args[0], &stream, &transcodeFlags)
		if err != nil {
			return err
		}
		dec, err := mlac.NewDecoder(profile())
		if err != nil {
			return err
		}
		br, err := mlac.NewBlockReader(&stream, dec)
		if err != nil {
			return err
		}
		pcm, err := br.DecodeAll()
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		// Drop the silence that pads the last block.
		pcm = pcm[:min(len(pcm), len(res.pcm))]
		if err := writeWAV(args[1], res.rate, pcm); err != nil {
			return err
		}
		slog.Info("transcoded", "lossy_blocks", res.report.LossyBlocks, "output", args[1])
		return printReport(cmd, res.report)
	},
}

func init() {
	transcodeFlags.register(transcodeCmd)
}
