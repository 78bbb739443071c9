// Package cli implements the clawmon command line interface.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/clawmon/clawmon/internal/cli.version=1.2.3"
	version = "0.4.1"
	logo    = "\n" +
		"        _\n" +
		"   ___| | __ ___      ___ __ ___   ___  _ __\n" +
		"  / __| |/ _` \\ \\ /\\ / / '_ ` _ \\ / _ \\| '_ \\\n" +
		" | (__| | (_| |\\ V  V /| | | | | | (_) | | | |\n" +
		"  \\___|_|\\__,_| \\_/\\_/ |_| |_| |_|\\___/|_| |_|\n"
)

var rootCmd = &cobra.Command{
	Use:   "clawmon",
	Short: "clawmon - personal assistant bot with an admin console",
	Long:  color.CyanString(logo) + "\nA lightweight personal assistant daemon with a built-in operator console.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
