package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sr-murthy/plistkit/plist"
	"github.com/sr-murthy/plistkit/plist/printer"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <plist>",
		Short: "Decode a plist and report basic metadata",
		Long: `The info command decodes a property list file and displays basic
metadata including size, encoding, object count, and content fingerprint.

Example:
  plistctl info com.example.agent.plist
  plistctl info com.example.agent.plist --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Decoding plist: %s\n", path)

	info, err := plist.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to get plist info: %w", err)
	}

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(os.Stdout, opts).PrintFileInfo(info)
}
