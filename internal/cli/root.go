// Package cli wires the cobra command tree: a default download command plus
// serve, config and upgrade subcommands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tubeserve/tubeserve/internal/config"
	"github.com/tubeserve/tubeserve/internal/downloader"
	"github.com/tubeserve/tubeserve/internal/extractor"
	"github.com/tubeserve/tubeserve/internal/media"
	"github.com/tubeserve/tubeserve/internal/version"
)

var (
	output   string
	quality  string
	infoOnly bool
	backend  string
)

var rootCmd = &cobra.Command{
	Use:     "tubeserve [url]",
	Short:   "Video metadata and download service with a command-line front end",
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		if err := runDownload(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	rootCmd.Flags().StringVarP(&quality, "quality", "q", "", "quality token (best, worst, 720, audio)")
	rootCmd.Flags().BoolVar(&infoOnly, "info", false, "show video info without downloading")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "extraction backend (native, ytdlp, scrape)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newExtractor builds the configured backend, letting --backend win over the
// config file.
func newExtractor(cfg *config.Config) (extractor.Extractor, error) {
	name := cfg.Backend
	if backend != "" {
		name = backend
	}
	return extractor.New(name, extractor.Options{
		YtdlpPath: cfg.YtdlpPath,
		Timeout:   cfg.Timeout(),
	})
}

func runDownload(url string) error {
	cfg := config.LoadOrDefault()

	if !config.Exists() {
		fmt.Fprintf(os.Stderr, "%s\n", color.YellowString("No config file found, using defaults. Run 'tubeserve config set' to create one."))
	}

	ext, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	info, err := probeWithSpinner(ext, url)
	if err != nil {
		return err
	}

	if infoOnly {
		printInfo(info)
		return nil
	}

	q := quality
	if q == "" {
		q = cfg.Quality
	}
	sel := media.ParseQuality(q)

	destDir := output
	if destDir == "" {
		destDir = cfg.OutputDir
	}

	dl := downloader.New(ext)
	path, err := dl.SaveTo(context.Background(), url, sel, destDir)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", color.GreenString("Saved:"), path)
	return nil
}

func printInfo(info *media.VideoInfo) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Printf("Title:    ")
	fmt.Println(info.Title)
	if info.Uploader != "" {
		bold.Printf("Uploader: ")
		fmt.Println(info.Uploader)
	}
	bold.Printf("Duration: ")
	fmt.Printf("%ds\n", info.Duration)
	if info.ViewCount > 0 {
		bold.Printf("Views:    ")
		fmt.Println(info.ViewCount)
	}

	formats := media.NormalizeFormats(info.Formats, media.InfoFormatCap)
	if len(formats) == 0 {
		fmt.Println("\nNo video formats reported.")
		return
	}

	fmt.Println()
	bold.Println("Formats:")
	for i, f := range formats {
		cyan.Printf("  [%d]", i)
		fmt.Printf(" %s (%s)", f.Quality, f.Ext)
		if f.Filesize > 0 {
			fmt.Printf("  %.1f MB", float64(f.Filesize)/(1024*1024))
		}
		fmt.Println()
	}
}
