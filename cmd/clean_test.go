package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"lowercase yes", "yes\n", true},
		{"uppercase YES", "YES\n", true},
		{"mixed case Yes", "Yes\n", true},
		{"lowercase n", "n\n", false},
		{"lowercase no", "no\n", false},
		{"empty input", "\n", false},
		{"random text", "maybe\n", false},
		{"y with spaces", "  y  \n", true},
		{"yes with spaces", "  yes  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.input)
			result := confirm(reader, io.Discard, "Test?")
			if result != tt.expected {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConfirm_EOF(t *testing.T) {
	reader := strings.NewReader("")
	if confirm(reader, io.Discard, "Test?") {
		t.Error("confirm(EOF) = true, want false")
	}
}

func TestConfirm_ErrorReader(t *testing.T) {
	if confirm(&errorReader{}, io.Discard, "Test?") {
		t.Error("confirm(error) = true, want false")
	}
}

func writeLogs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("log"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		yes      bool
		wantLeft int
		wantOut  string
	}{
		{"confirmed", "y\n", false, 0, "Removed 2 log file(s)."},
		{"declined", "n\n", false, 2, "Aborted."},
		{"skip confirm", "", true, 0, "Removed 2 log file(s)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := skipConfirm
			defer func() { skipConfirm = orig }()
			skipConfirm = tt.yes

			dir := t.TempDir()
			writeLogs(t, dir, "simplechat-debug.log", "simplechat-devserver.log", "other.log")

			var out bytes.Buffer
			if err := runCleanWithReader(strings.NewReader(tt.input), &out, dir); err != nil {
				t.Fatalf("runCleanWithReader: %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.wantOut)
			}

			left, _ := filepath.Glob(filepath.Join(dir, "simplechat-*.log"))
			if len(left) != tt.wantLeft {
				t.Errorf("left %d log files, want %d", len(left), tt.wantLeft)
			}
			if _, err := os.Stat(filepath.Join(dir, "other.log")); err != nil {
				t.Errorf("unrelated file removed: %v", err)
			}
		})
	}
}

func TestRunClean_NothingToClean(t *testing.T) {
	var out bytes.Buffer
	if err := runCleanWithReader(strings.NewReader(""), &out, t.TempDir()); err != nil {
		t.Fatalf("runCleanWithReader: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to clean.") {
		t.Errorf("output = %q", out.String())
	}
}

// errorReader is a reader that always returns an error
type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}
