package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sr-murthy/plistkit/plist"
)

var (
	findBrokenOnly bool
	findNoRecurse  bool
)

func init() {
	cmd := newFindCmd()
	cmd.Flags().BoolVar(&findBrokenOnly, "broken", false, "List only plists that fail to decode")
	cmd.Flags().BoolVar(&findNoRecurse, "no-recurse", false, "Do not descend into subdirectories")
	rootCmd.AddCommand(cmd)
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <dir>",
		Short: "Scan a directory tree for plist files",
		Long: `The find command walks a directory tree and reports every .plist file,
including files that refuse to decode. A malformed plist in a persistence
directory is worth a second look.

Example:
  plistctl find ~/Library/LaunchAgents
  plistctl find /Library --broken
  plistctl find /Library/LaunchDaemons --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args)
		},
	}
	return cmd
}

type findEntry struct {
	Path        string `json:"path"`
	Format      string `json:"format,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runFind(args []string) error {
	results, err := plist.Find(args[0], plist.FindOptions{Recursive: !findNoRecurse})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", args[0], err)
	}

	var entries []findEntry
	for _, r := range results {
		if findBrokenOnly && r.Err == nil {
			continue
		}
		e := findEntry{Path: r.Path}
		if r.Err != nil {
			e.Error = r.Err.Error()
		} else {
			e.Format = r.Info.Format.String()
			e.Fingerprint = fmt.Sprintf("%x", r.Info.Fingerprint)
		}
		entries = append(entries, e)
	}

	if jsonOut {
		return printJSON(entries)
	}
	for _, e := range entries {
		if e.Error != "" {
			printInfo("%s  INVALID: %s\n", e.Path, e.Error)
			continue
		}
		printInfo("%s  %s  %s\n", e.Path, e.Format, e.Fingerprint)
	}
	printVerbose("%d plist file(s)\n", len(entries))
	return nil
}
