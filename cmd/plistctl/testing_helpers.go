package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sr-murthy/plistkit/plist"
)

// writeAgentPlist encodes a sample launchd job into dir and returns its path.
func writeAgentPlist(t *testing.T, dir, name string, runAtLoad bool) string {
	t.Helper()

	d := plist.Dict()
	d.Set("Label", plist.String("com.example.agent"))
	d.Set("RunAtLoad", plist.Bool(runAtLoad))
	d.Set("ProgramArguments", plist.Array(
		plist.String("/bin/sh"),
		plist.String("-c"),
		plist.String("id"),
	))

	data, err := plist.EncodeBinary(d)
	if err != nil {
		t.Fatalf("failed to encode sample plist: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write sample plist: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}
