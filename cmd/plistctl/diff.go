package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sr-murthy/plistkit/plist"
	"github.com/sr-murthy/plistkit/plist/printer"
)

var diffExitCode bool

func init() {
	cmd := newDiffCmd()
	cmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 when the plists differ")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <plist1> <plist2>",
		Short: "Compare two plists and show differences",
		Long: `The diff command structurally compares two property lists and lists
every discrepancy with the path where it was found. The two files may use
different encodings; a binary plist and its XML conversion compare equal.

Example:
  plistctl diff baseline.plist collected.plist
  plistctl diff baseline.plist collected.plist --json
  plistctl diff baseline.plist collected.plist --exit-code`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args)
		},
	}
	return cmd
}

func runDiff(args []string) error {
	left, leftFormat, err := plist.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	right, rightFormat, err := plist.Load(args[1])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[1], err)
	}
	printVerbose("Comparing %s (%s) and %s (%s)...\n", args[0], leftFormat, args[1], rightFormat)

	report := plist.Compare(left, right)

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if err := printer.New(os.Stdout, opts).PrintReport(report); err != nil {
		return err
	}

	if diffExitCode && !report.Equal() {
		os.Exit(1)
	}
	return nil
}
