package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tubeserve/tubeserve/internal/version"
)

const releaseSlug = "tubeserve/tubeserve"

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade tubeserve to the latest release",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runUpgrade(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseSlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		fmt.Println("No release found for this platform.")
		return nil
	}

	if version.Version == "dev" {
		fmt.Printf("Running a dev build; latest release is %s. Not upgrading.\n", latest.Version())
		return nil
	}
	if latest.LessOrEqual(version.Version) {
		fmt.Printf("%s tubeserve %s is up to date.\n", color.GreenString("✓"), version.Version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	fmt.Printf("Upgrading %s -> %s ...\n", version.Version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("upgrade failed: %w", err)
	}

	fmt.Printf("%s Upgraded to %s\n", color.GreenString("✓"), latest.Version())
	return nil
}
