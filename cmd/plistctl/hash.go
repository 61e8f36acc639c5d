package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sr-murthy/plistkit/plist"
)

func init() {
	rootCmd.AddCommand(newHashCmd())
}

func newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <plist>...",
		Short: "Print the content fingerprint of plists",
		Long: `The hash command prints a BLAKE2b fingerprint of each plist's decoded
content. The fingerprint is independent of encoding and of dictionary key
order, so a binary plist and its XML conversion hash identically. Use it to
spot tampered files whose byte-level checksums no longer match a baseline.

Example:
  plistctl hash com.example.agent.plist
  plistctl hash /Library/LaunchAgents/*.plist`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(args)
		},
	}
	return cmd
}

func runHash(args []string) error {
	for _, path := range args {
		root, _, err := plist.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		printInfo("%x  %s\n", plist.Fingerprint(root), path)
	}
	return nil
}
