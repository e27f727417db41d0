package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/mlac"
	"github.com/thesyncim/mlac/cmd/mlac/internal/config"
	"github.com/thesyncim/mlac/internal/report"
)

var (
	// Global flags
	verbose     bool
	profileName string
	format      string
	iterations  int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mlac",
	Short: "Fixed-size-block stereo audio codec",
	Long: `mlac - encode 16-bit stereo audio into fixed 244-byte blocks.

Each block carries between 60 and 121 stereo sample tuples. Blocks are
lossless unless the target bitrate forces a raw, reduced-resolution
fallback.

Defaults come from the environment (or a .env file):
  MLAC_PROFILE       codec profile (mlac, molo)
  MLAC_BITRATE_KBPS  target bitrate; 0 keeps every block lossless
  MLAC_LATENCY_MS    receiver buffer used for the peak rate
  MLAC_ITERATIONS    predictor refinement passes (1-8)
  MLAC_SAMPLE_RATE   sample rate assumed for raw block streams
  MLAC_FORMAT        report format (yaml, table)

Examples:
  mlac encode song.wav song.mlac --bitrate 1000
  mlac decode song.mlac out.wav --sample-rate 44100
  mlac stats song.wav --bitrate 900 --latency 50 -o table`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every lossy block")
	pf.StringVarP(&profileName, "profile", "p", "", "codec profile (default from MLAC_PROFILE)")
	pf.StringVarP(&format, "output", "o", "", "report format: yaml or table (default from MLAC_FORMAT)")
	pf.IntVar(&iterations, "iterations", 0, "predictor refinement passes (default from MLAC_ITERATIONS)")

	rootCmd.AddCommand(encodeCmd, decodeCmd, transcodeCmd, statsCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.LoadEnv(); err != nil {
		if !config.IsNotExist(err) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, continuing without it")
	}
	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if profileName != "" {
		c.Profile = profileName
	}
	if format != "" {
		c.Format = format
	}
	if iterations != 0 {
		c.Iterations = iterations
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func profile() mlac.Profile {
	p, _ := mlac.ProfileByName(cfg.Profile)
	return p
}

func newEncoder() (*mlac.Encoder, error) {
	enc, err := mlac.NewEncoder(profile())
	if err != nil {
		return nil, err
	}
	if err := enc.SetIterations(cfg.Iterations); err != nil {
		return nil, err
	}
	return enc, nil
}

func printReport(cmd *cobra.Command, r report.Report) error {
	return r.Write(cmd.OutOrStdout(), report.Format(cfg.Format))
}
