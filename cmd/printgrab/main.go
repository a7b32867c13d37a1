package main

import (
	"fmt"
	"os"

	"printgrab/internal/cli"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "printgrab",
		Short: "Printables model crawler and downloader",
		Long: `printgrab crawls the Printables model listing, scrapes each model's
details, downloads its files and gallery images through a headless browser,
and stores everything in a category-based directory layout with JSON and
Parquet exports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.NewCollectCommand())
	rootCmd.AddCommand(cli.NewProcessCommand())
	rootCmd.AddCommand(cli.NewRunCommand())

	return rootCmd.Execute()
}
