package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tubeserve/tubeserve/internal/config"
	"github.com/tubeserve/tubeserve/internal/extractor"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tubeserve configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()

		fmt.Println("Current configuration:")
		fmt.Printf("  Port:      %d\n", cfg.Port)
		fmt.Printf("  Backend:   %s (available: %v)\n", cfg.Backend, extractor.Backends())
		fmt.Printf("  YtdlpPath: %s\n", orDefault(cfg.YtdlpPath, "(yt-dlp on $PATH)"))
		fmt.Printf("  Timeout:   %s\n", cfg.Timeout())
		fmt.Printf("  OutputDir: %s\n", cfg.OutputDir)
		fmt.Printf("  Quality:   %s\n", cfg.Quality)
		fmt.Printf("  LogJSON:   %v\n", cfg.LogJSON)
		fmt.Printf("  Config:    %s\n", config.SavePath())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.SavePath())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Keys:
  port, backend, ytdlp_path, timeout_seconds, output_dir, quality, log_json

Examples:
  tubeserve config set backend ytdlp
  tubeserve config set port 9000
  tubeserve config set quality 720`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()

		if err := setConfigKey(cfg, args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Saved %s to %s\n", args[0], config.SavePath())
	},
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		cfg.Port = port
	case "backend":
		if _, err := extractor.New(value, extractor.Options{}); err != nil {
			return err
		}
		cfg.Backend = value
	case "ytdlp_path":
		cfg.YtdlpPath = value
	case "timeout_seconds":
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 1 {
			return fmt.Errorf("invalid timeout %q", value)
		}
		cfg.TimeoutSeconds = secs
	case "output_dir":
		cfg.OutputDir = value
	case "quality":
		cfg.Quality = value
	case "log_json":
		cfg.LogJSON = value == "true" || value == "1"
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
