package commands

import (
	"io"

	"github.com/spf13/cobra"
)

var statsFlags encodeFlags

var statsCmd = &cobra.Command{
	Use:   "stats <input.wav>",
	Short: "Report block statistics without writing output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := encodeWAV(args[0], io.Discard, &statsFlags)
		if err != nil {
			return err
		}
		return printReport(cmd, res.report)
	},
}

func init() {
	statsFlags.register(statsCmd)
}
