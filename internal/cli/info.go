package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tubeserve/tubeserve/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show video metadata without downloading",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInfo(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(url string) error {
	cfg := config.LoadOrDefault()

	ext, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	info, err := probeWithSpinner(ext, url)
	if err != nil {
		return err
	}

	printInfo(info)
	return nil
}
