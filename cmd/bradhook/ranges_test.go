package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rangesTestConfig = `trusted:
  gitlab:
    - 34.74.90.64/28
projects:
  - name: site
`

// runCLI executes the root command against a temporary config file
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bradhook.yaml")
	if err := os.WriteFile(path, []byte(rangesTestConfig), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	prevConfig, prevMeta := configFile, githubMeta
	githubMeta = false
	t.Cleanup(func() {
		configFile, githubMeta = prevConfig, prevMeta
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--config", path))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRangesCommand(t *testing.T) {
	out, err := runCLI(t, "ranges")
	if err != nil {
		t.Fatalf("ranges error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("ranges printed %d lines, want header plus 4 providers:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "PROVIDER") {
		t.Errorf("first line = %q, want header", lines[0])
	}

	for _, want := range []string{"loopback", "::1, 127.0.0.1", "bitbucket", "192.30.252.0/22", "gitlab", "34.74.90.64/28"} {
		if !strings.Contains(out, want) {
			t.Errorf("ranges output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(lines[4], "gitlab") {
		t.Errorf("configured provider should follow the built-in ones, got %q", lines[4])
	}
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
		wantErr bool
	}{
		{"loopback", "127.0.0.1", "127.0.0.1: allowed (loopback)", false},
		{"built-in provider", "104.192.143.7", "104.192.143.7: allowed (bitbucket)", false},
		{"configured provider", "34.74.90.70", "34.74.90.70: allowed (gitlab)", false},
		{"untrusted address", "8.8.8.8", "8.8.8.8: forbidden", true},
		{"not an address", "example.com", "example.com: forbidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "check", tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("check %s error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("check %s output = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}
