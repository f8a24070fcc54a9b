// Command gridbot runs the grid robot simulation in a terminal or serves
// runs over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

var rootCmd = &cobra.Command{
	Use:   "gridbot",
	Short: "A robot that sweeps a grid for markers and carries them home",
	Long: `gridbot drives a single robot around a square grid. It searches for
markers, picks each one up and retraces its path home to deliver it,
drawing the grid after every step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gridbot:", err)
		os.Exit(exitFailure)
	}
	os.Exit(exitSuccess)
}
