package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDumpCommand(t *testing.T) {
	path := writeAgentPlist(t, t.TempDir(), "agent.plist", true)

	t.Run("text", func(t *testing.T) {
		dumpFormat = "text"
		jsonOut = false
		out, err := captureOutput(t, func() error { return runDump([]string{path}) })
		if err != nil {
			t.Fatalf("runDump: %v", err)
		}
		for _, want := range []string{"Label", "com.example.agent", "/bin/sh"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		dumpFormat = "json"
		out, err := captureOutput(t, func() error { return runDump([]string{path}) })
		if err != nil {
			t.Fatalf("runDump: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if decoded["Label"] != "com.example.agent" {
			t.Errorf("unexpected Label: %v", decoded["Label"])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		dumpFormat = "yaml"
		out, err := captureOutput(t, func() error { return runDump([]string{path}) })
		if err != nil {
			t.Fatalf("runDump: %v", err)
		}
		if !strings.Contains(out, "Label: com.example.agent") {
			t.Errorf("unexpected yaml output:\n%s", out)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		dumpFormat = "toml"
		if _, err := captureOutput(t, func() error { return runDump([]string{path}) }); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		dumpFormat = "text"
		if _, err := captureOutput(t, func() error { return runDump([]string{"no-such.plist"}) }); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
