// Command mlac encodes, decodes and analyzes MLAC block streams.
//
// Usage:
//
//	mlac [flags] <command> [args]
//
// Commands:
//
//	encode     - WAV file to block stream
//	decode     - block stream to WAV file
//	transcode  - WAV through the codec and back, for listening tests
//	stats      - block statistics for a WAV file at a target bitrate
package main

import (
	"fmt"
	"os"

	"github.com/thesyncim/mlac/cmd/mlac/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
