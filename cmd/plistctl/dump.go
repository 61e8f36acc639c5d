package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sr-murthy/plistkit/plist"
	"github.com/sr-murthy/plistkit/plist/printer"
	"gopkg.in/yaml.v3"
)

var (
	dumpFormat   string
	dumpDepth    int
	dumpMaxBytes int
	dumpNoKinds  bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpFormat, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().IntVar(&dumpMaxBytes, "max-bytes", printer.DefaultMaxDataBytes, "Bytes of data values to show (0 = all)")
	cmd.Flags().BoolVar(&dumpNoKinds, "no-kinds", false, "Hide value kind annotations in text output")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <plist>",
		Short: "Human-readable dump of plist contents",
		Long: `The dump command renders the full decoded tree of a property list.

Example:
  plistctl dump com.example.agent.plist
  plistctl dump com.example.agent.plist --format json
  plistctl dump com.example.agent.plist --depth 2 --max-bytes 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	path := args[0]

	root, format, err := plist.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load plist: %w", err)
	}
	printVerbose("Loaded %s plist: %s\n", format, path)

	if jsonOut && dumpFormat == "text" {
		dumpFormat = "json"
	}

	switch dumpFormat {
	case "text", "json":
		opts := printer.DefaultOptions()
		if dumpFormat == "json" {
			opts.Format = printer.FormatJSON
		}
		opts.MaxDepth = dumpDepth
		opts.MaxDataBytes = dumpMaxBytes
		opts.ShowKinds = !dumpNoKinds
		return printer.New(os.Stdout, opts).PrintValue(root)

	case "yaml":
		out, err := yaml.Marshal(plainValue(root))
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err

	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", dumpFormat)
	}
}

// plainValue lowers a plist value into plain Go types for yaml rendering.
func plainValue(v *plist.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case plist.KindNull:
		return nil
	case plist.KindBool:
		return v.Bool()
	case plist.KindInteger:
		return v.Int()
	case plist.KindReal:
		return v.Float()
	case plist.KindDate:
		return v.Time().UTC().Format(time.RFC3339)
	case plist.KindData:
		return base64.StdEncoding.EncodeToString(v.Bytes())
	case plist.KindString:
		return v.Text()
	case plist.KindUID:
		return map[string]uint64{"uid": v.UID()}
	case plist.KindArray:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, plainValue(v.At(i)))
		}
		return out
	case plist.KindDictionary:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out[k] = plainValue(val)
		}
		return out
	default:
		return nil
	}
}
