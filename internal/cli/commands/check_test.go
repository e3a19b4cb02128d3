package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/internal/cli/testutil"
	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

func TestDiscoverMaps(t *testing.T) {
	dir := testutil.SetupTestMaps(t)

	t.Run("directory is scanned recursively", func(t *testing.T) {
		files, err := discoverMaps([]string{dir})
		require.NoError(t, err)

		expected := []string{
			filepath.Join(dir, "clean.qua"),
			filepath.Join(dir, "flagged.qua"),
			filepath.Join(dir, "nested", "another.qua"),
		}
		assert.Equal(t, expected, files)
	})

	t.Run("single file", func(t *testing.T) {
		path := filepath.Join(dir, "clean.qua")
		files, err := discoverMaps([]string{path})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("duplicate paths are deduplicated", func(t *testing.T) {
		files, err := discoverMaps([]string{dir, filepath.Join(dir, "clean.qua")})
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("hidden directories are skipped", func(t *testing.T) {
		hidden := testutil.SetupTestMaps(t)
		testutil.WriteMap(t, hidden, "visible.qua", testutil.CleanMap())
		hiddenDir := filepath.Join(hidden, ".backup")
		require.NoError(t, os.MkdirAll(hiddenDir, 0755))
		testutil.WriteMap(t, hiddenDir, "stale.qua", testutil.CleanMap())

		files, err := discoverMaps([]string{hidden})
		require.NoError(t, err)
		for _, f := range files {
			assert.NotContains(t, f, ".backup")
		}
		assert.Len(t, files, 4)
	})

	t.Run("non-map file is rejected", func(t *testing.T) {
		path := testutil.WriteMap(t, t.TempDir(), "notes.txt", "not a map")
		_, err := discoverMaps([]string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a map file")
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, err := discoverMaps([]string{filepath.Join(dir, "does-not-exist")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read path")
	})
}

func TestCheckMap(t *testing.T) {
	dir := testutil.SetupTestMaps(t)

	t.Run("clean map has no actionable issues", func(t *testing.T) {
		res := checkMap(filepath.Join(dir, "clean.qua"))
		require.NoError(t, res.Err)

		assert.Equal(t, "Test Artist - Clean Song [Normal]", res.Title)
		assert.Equal(t, "Keys4", res.Mode)
		assert.Empty(t, actionableIssues(res.Issues))
	})

	t.Run("flagged map reports short long note and empty columns", func(t *testing.T) {
		res := checkMap(filepath.Join(dir, "flagged.qua"))
		require.NoError(t, res.Err)

		issues := actionableIssues(res.Issues)
		require.Len(t, issues, 2)
		assert.Equal(t, automod.KindShortLongNote, issues[0].Kind())
		assert.Equal(t, automod.KindObjectMissingInColumns, issues[1].Kind())
		assert.Equal(t, "long note at 500ms in lane 2 lasts only 20ms", issues[0].Message())
		assert.Equal(t, "no objects in column(s) 3, 4", issues[1].Message())
	})

	t.Run("unparseable map carries the error", func(t *testing.T) {
		path := testutil.WriteMap(t, t.TempDir(), "broken.qua", testutil.BrokenMap())
		res := checkMap(path)
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "failed to parse map")
	})
}

func TestMapTitle(t *testing.T) {
	m := &qua.Qua{Artist: "Artist", Title: "Song", DifficultyName: "Hard"}
	assert.Equal(t, "Artist - Song [Hard]", mapTitle(m))

	m.DifficultyName = ""
	assert.Equal(t, "Artist - Song", mapTitle(m))
}

func TestActionableIssues(t *testing.T) {
	issues := []automod.Issue{
		&automod.ObjectMissingInColumns{},
		&automod.ShortLongNote{Object: &qua.HitObject{StartTime: 100, Lane: 1, EndTime: 110}},
		&automod.ObjectMissingInColumns{Columns: []int{3}},
	}

	actionable := actionableIssues(issues)
	require.Len(t, actionable, 2)
	assert.Equal(t, automod.KindShortLongNote, actionable[0].Kind())
	assert.Equal(t, automod.KindObjectMissingInColumns, actionable[1].Kind())
}

func TestFilterBySeverity(t *testing.T) {
	results := []checkFileResult{{
		Path: "map.qua",
		Issues: []automod.Issue{
			&automod.ObjectBeforeStart{Object: &qua.HitObject{StartTime: -5, Lane: 1}},
			&automod.ShortLongNote{Object: &qua.HitObject{StartTime: 100, Lane: 1, EndTime: 110}},
			&automod.ObjectMissingInColumns{Columns: []int{4}},
		},
	}}

	tests := []struct {
		severity string
		want     int
	}{
		{"error", 1},
		{"warning", 2},
		{"info", 3},
		{"bogus", 3}, // invalid thresholds fall back to info
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			filtered := filterBySeverity(results, tt.severity)
			require.Len(t, filtered, 1, "filtering never drops files")
			assert.Len(t, filtered[0].Issues, tt.want)
		})
	}
}

func TestRenderCheckResults(t *testing.T) {
	flagged := checkFileResult{
		Path:  "maps/flagged.qua",
		Title: "Test Artist - Flagged Song [Hard]",
		Mode:  "Keys4",
		Issues: []automod.Issue{
			&automod.ShortLongNote{Object: &qua.HitObject{StartTime: 500, Lane: 2, EndTime: 520}},
			&automod.ObjectMissingInColumns{Columns: []int{3, 4}},
		},
	}
	clean := checkFileResult{Path: "maps/clean.qua", Title: "Test Artist - Clean Song [Normal]", Mode: "Keys4"}

	t.Run("clean results render a success line", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		hasIssues := renderCheckResults(tr.Renderer, []checkFileResult{clean}, 1)
		assert.False(t, hasIssues)
		testutil.AssertContains(t, tr.Output(), "No issues found in 1 maps")
	})

	t.Run("issues render per file with a summary", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		hasIssues := renderCheckResults(tr.Renderer, []checkFileResult{flagged, clean}, 2)
		assert.True(t, hasIssues)

		out := tr.Output()
		testutil.AssertContains(t, out, "maps/flagged.qua")
		testutil.AssertContains(t, out, "HO01")
		testutil.AssertContains(t, out, "long note at 500ms in lane 2 lasts only 20ms")
		testutil.AssertContains(t, out, "Summary: 2 issues, 1 warnings, 1 info in 2 maps")
		testutil.AssertNotContains(t, out, "maps/clean.qua")
	})

	t.Run("markdown output has no ANSI codes", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		renderCheckResults(tr.Renderer, []checkFileResult{flagged}, 1)
		testutil.AssertNoANSI(t, tr.Output())
	})

	t.Run("failed maps count toward issues", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		failed := checkFileResult{Path: "maps/broken.qua", Err: assert.AnError}
		hasIssues := renderCheckResults(tr.Renderer, []checkFileResult{failed}, 1)
		assert.True(t, hasIssues)
		testutil.AssertContains(t, tr.Output(), "1 maps failed")
	})

	t.Run("json lists only flagged files", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		hasIssues := renderCheckResults(tr.Renderer, []checkFileResult{flagged, clean}, 2)
		assert.True(t, hasIssues)

		var result output.CheckOutput
		require.NoError(t, json.Unmarshal([]byte(tr.Output()), &result))

		assert.Equal(t, 2, result.Summary.MapsChecked)
		assert.Equal(t, 2, result.Summary.TotalIssues)
		assert.Equal(t, 1, result.Summary.Warnings)
		assert.Equal(t, 1, result.Summary.Info)
		require.Len(t, result.Files, 1)
		assert.Equal(t, "maps/flagged.qua", result.Files[0].Path)
		require.Len(t, result.Files[0].Issues, 2)
		assert.Equal(t, "HO01", result.Files[0].Issues[0].RuleID)
		assert.Equal(t, "short-long-note", result.Files[0].Issues[0].Kind)
		assert.Equal(t, "warning", result.Files[0].Issues[0].Severity)
	})
}

func TestCheckCommand_FindsIssues(t *testing.T) {
	t.Setenv("QUALINT_NO_HISTORY", "true")
	dir := testutil.SetupTestMaps(t)

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check found issues")
	testutil.AssertContains(t, out.String(), "HO01")
}

func TestCheckCommand_CleanMap(t *testing.T) {
	t.Setenv("QUALINT_NO_HISTORY", "true")
	dir := testutil.SetupTestMaps(t)

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{filepath.Join(dir, "clean.qua")})

	require.NoError(t, cmd.Execute())
	testutil.AssertContains(t, out.String(), "No issues found in 1 maps")
}

func TestCheckCommand_SeverityFilter(t *testing.T) {
	t.Setenv("QUALINT_NO_HISTORY", "true")
	dir := testutil.SetupTestMaps(t)

	// The flagged map only carries a warning and an info finding, so an
	// error threshold leaves nothing to report and the check passes.
	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{filepath.Join(dir, "flagged.qua"), "--severity", "error"})

	require.NoError(t, cmd.Execute())
	testutil.AssertContains(t, out.String(), "No issues found in 1 maps")
}

func TestCheckCommand_JSON(t *testing.T) {
	t.Setenv("QUALINT_NO_HISTORY", "true")
	dir := testutil.SetupTestMaps(t)

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{dir, "--format", "json"})

	err := cmd.Execute()
	require.Error(t, err)

	var result output.CheckOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3, result.Summary.MapsChecked)
	assert.Equal(t, 2, result.Summary.TotalIssues)
	require.Len(t, result.Files, 1)
	assert.Contains(t, result.Files[0].Path, "flagged.qua")
}

func TestCheckCommand_EmptyDirectory(t *testing.T) {
	t.Setenv("QUALINT_NO_HISTORY", "true")

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{t.TempDir()})

	require.NoError(t, cmd.Execute())
	testutil.AssertContains(t, errOut.String(), "No map files found")
}
