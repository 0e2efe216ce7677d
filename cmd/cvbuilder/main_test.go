package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/snapshot"
)

var envKeys = []string{
	"PORT", "DATABASE_URL", "FRONTEND_URL", "SNAPSHOT_DIR", "SNAPSHOT_REDIS_URL",
	"AUTOSAVE_DELAY", "EXPORT_TIMEOUT", "CHROME_PATH", "API_BASE_URL", "VERBOSE",
}

// workspace points the CLI at a fresh snapshot directory and returns it.
func workspace(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("SNAPSHOT_DIR", dir)
	// Long enough that only the flush on exit writes.
	t.Setenv("AUTOSAVE_DELAY", "1h")
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI in-process with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const janeCommands = `[
	{"type": "UPDATE_PERSONAL_INFO", "payload": {"fullName": "Jane Doe", "email": "jane@x.com"}},
	{"type": "UPDATE_SUMMARY", "payload": "Backend engineer"},
	{"type": "ADD_ENTRY", "payload": {"collection": "skills", "entry": {"skills": ["Go", "SQL"], "displayLayout": "badges"}}}
]`

func readClientID(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, snapshot.ClientIDFile))
	return strings.TrimSpace(string(data)), err
}
