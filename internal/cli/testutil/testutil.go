// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/vsrg-tools/qualint/internal/cli/output"
)

// cleanMap uses every column and has no duplicate timing or velocity
// points, so a check reports nothing actionable.
const cleanMap = `AudioFile: audio.mp3
SongPreviewTime: 4000
BackgroundFile: bg.jpg
MapId: -1
MapSetId: -1
Mode: Keys4
Title: Clean Song
Artist: Test Artist
Creator: tester
DifficultyName: Normal
BPMDoesNotAffectScrollVelocity: true
InitialScrollVelocity: 1
TimingPoints:
- StartTime: 0
  Bpm: 120
SliderVelocities:
- StartTime: 4000
  Multiplier: 1.2
HitObjects:
- StartTime: 0
  Lane: 1
- StartTime: 500
  Lane: 2
- StartTime: 1000
  Lane: 3
- StartTime: 1500
  Lane: 4
  EndTime: 2000
`

// flaggedMap carries a short long note and leaves columns 3 and 4
// empty.
const flaggedMap = `AudioFile: audio.mp3
Mode: Keys4
Title: Flagged Song
Artist: Test Artist
Creator: tester
DifficultyName: Hard
TimingPoints:
- StartTime: 0
  Bpm: 175
HitObjects:
- StartTime: 0
  Lane: 1
- StartTime: 500
  Lane: 2
  EndTime: 520
`

// brokenMap does not parse as YAML.
const brokenMap = "AudioFile: audio.mp3\nMode: [unclosed\n"

// SetupTestMaps creates a temporary maps directory with one clean map,
// one map with issues, and a clean map in a nested subdirectory.
// Returns the directory path.
func SetupTestMaps(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	files := map[string]string{
		filepath.Join(tmpDir, "clean.qua"):             cleanMap,
		filepath.Join(tmpDir, "flagged.qua"):           flaggedMap,
		filepath.Join(tmpDir, "nested", "another.qua"): cleanMap,
	}

	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	return tmpDir
}

// WriteMap writes a map file with the given content under dir and
// returns its path.
func WriteMap(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	return path
}

// CleanMap returns the contents of a map that checks clean.
func CleanMap() string { return cleanMap }

// FlaggedMap returns the contents of a map with known issues.
func FlaggedMap() string { return flaggedMap }

// BrokenMap returns contents that fail YAML parsing.
func BrokenMap() string { return brokenMap }

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
