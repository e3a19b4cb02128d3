package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/internal/state"
	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Paths    []string // Files or directories to check
	Format   string   // Output format: text, json
	Severity string   // Minimum severity: error, warning, info
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Run AutoMod checks on map files",
		Long: `Analyze .qua map files for playability issues.

Runs every AutoMod rule against the given maps and reports what it
finds: long notes too short to hold, objects before the track starts,
overlapping notes, unused columns, and duplicated timing or scroll
velocity points. Directories are scanned recursively for .qua files.

Results are recorded in the check history unless --no-history is set.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check every map under the maps directory
  qualint check

  # Check one map
  qualint check songs/artist-title/hard.qua

  # Check two mapsets
  qualint check songs/set-one songs/set-two

  # Output as JSON
  qualint check --format json

  # Only report errors
  qualint check --severity error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity: error, warning, info")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{cfg.MapsDir}
	}

	files, err := discoverMaps(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warning("No map files found")
		return nil
	}

	results := checkMaps(cmd.Context(), files, cfg.Jobs)
	for i := range results {
		results[i].Issues = actionableIssues(results[i].Issues)
	}

	// History records the full result; --severity only shapes the report.
	if !cfg.NoHistory {
		store, err := openStore(cfg, cmdCtx.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		recordResults(r, store, results)
	}

	displayed := filterBySeverity(results, opts.Severity)

	if renderCheckResults(r, displayed, len(results)) {
		return fmt.Errorf("check found issues")
	}
	return nil
}

// checkFileResult holds the outcome of analyzing a single map file.
type checkFileResult struct {
	Path   string
	Title  string
	Mode   string
	Err    error
	Issues []automod.Issue
}

// discoverMaps expands the given files and directories into a sorted,
// de-duplicated list of .qua files. Hidden directories are skipped.
func discoverMaps(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read path: %w", err)
		}

		if !info.IsDir() {
			if filepath.Ext(p) != ".qua" {
				return nil, fmt.Errorf("not a map file: %s", p)
			}
			add(p)
			continue
		}

		err = filepath.Walk(p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if name := info.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".qua" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// checkMaps analyzes the given files with bounded concurrency. Each map
// gets its own AutoMod instance, so no state is shared between workers.
func checkMaps(ctx context.Context, files []string, jobs int) []checkFileResult {
	results := make([]checkFileResult, len(files))
	if jobs < 1 {
		jobs = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkMap(path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func checkMap(path string) checkFileResult {
	res := checkFileResult{Path: path}

	m, err := qua.DecodeFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Title = mapTitle(m)
	res.Mode = string(m.Mode)

	mod := automod.New(m)
	if err := mod.Run(); err != nil {
		res.Err = err
		return res
	}
	res.Issues = mod.Issues()
	return res
}

func mapTitle(m *qua.Qua) string {
	title := fmt.Sprintf("%s - %s", m.Artist, m.Title)
	if m.DifficultyName != "" {
		title = fmt.Sprintf("%s [%s]", title, m.DifficultyName)
	}
	return title
}

// actionableIssues drops the always-emitted missing-columns report when
// it names no columns; an empty report is a state, not a problem.
func actionableIssues(issues []automod.Issue) []automod.Issue {
	var out []automod.Issue
	for _, iss := range issues {
		if mc, ok := iss.(*automod.ObjectMissingInColumns); ok && len(mc.Columns) == 0 {
			continue
		}
		out = append(out, iss)
	}
	return out
}

func filterBySeverity(results []checkFileResult, severityThreshold string) []checkFileResult {
	threshold, ok := automod.ParseSeverity(severityThreshold)
	if !ok {
		threshold = automod.SeverityInfo
	}

	filtered := make([]checkFileResult, len(results))
	for i, res := range results {
		filtered[i] = res
		var issues []automod.Issue
		for _, iss := range res.Issues {
			if iss.Kind().Severity() <= threshold {
				issues = append(issues, iss)
			}
		}
		filtered[i].Issues = issues
	}
	return filtered
}

// recordResults writes one history row per checked map. Recording
// failures degrade to warnings so a broken history database never
// blocks a check.
func recordResults(r *output.Renderer, store state.Store, results []checkFileResult) {
	for _, res := range results {
		run := &state.CheckRun{
			Path:   res.Path,
			Title:  res.Title,
			Mode:   res.Mode,
			Status: state.CheckStatusCompleted,
		}

		var issues []state.CheckIssue
		if res.Err != nil {
			run.Status = state.CheckStatusFailed
			run.Error = res.Err.Error()
		} else {
			run.TotalIssues = len(res.Issues)
			for _, iss := range res.Issues {
				k := iss.Kind()
				switch k.Severity() {
				case automod.SeverityError:
					run.Errors++
				case automod.SeverityWarning:
					run.Warnings++
				case automod.SeverityInfo:
					run.Info++
				}
				issues = append(issues, state.CheckIssue{
					RuleID:   k.ID(),
					Severity: k.Severity().String(),
					Message:  iss.Message(),
				})
			}
		}

		if err := store.RecordCheck(run, issues); err != nil {
			r.Warning(fmt.Sprintf("failed to record history for %s: %v", res.Path, err))
		}
	}
}

// renderCheckResults writes the report and returns true when anything
// actionable was found.
func renderCheckResults(r *output.Renderer, results []checkFileResult, mapsChecked int) bool {
	summary := output.CheckSummary{MapsChecked: mapsChecked}
	for _, res := range results {
		if res.Err != nil {
			summary.MapsFailed++
			continue
		}
		summary.TotalIssues += len(res.Issues)
		for _, iss := range res.Issues {
			switch iss.Kind().Severity() {
			case automod.SeverityError:
				summary.Errors++
			case automod.SeverityWarning:
				summary.Warnings++
			case automod.SeverityInfo:
				summary.Info++
			}
		}
	}

	hasIssues := summary.TotalIssues > 0 || summary.MapsFailed > 0

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.CheckOutput{Summary: summary}
		for _, res := range results {
			if res.Err == nil && len(res.Issues) == 0 {
				continue
			}
			fileResult := output.CheckFileResult{Path: res.Path}
			if res.Err != nil {
				fileResult.Error = res.Err.Error()
			}
			for _, iss := range res.Issues {
				k := iss.Kind()
				fileResult.Issues = append(fileResult.Issues, output.CheckIssue{
					RuleID:   k.ID(),
					Kind:     k.String(),
					Severity: k.Severity().String(),
					Message:  iss.Message(),
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return hasIssues
	}

	if !hasIssues {
		r.Success(fmt.Sprintf("No issues found in %d maps", mapsChecked))
		return false
	}

	// Text/Markdown output
	for _, res := range results {
		if res.Err == nil && len(res.Issues) == 0 {
			continue
		}
		r.Println(r.Styles().MapPath.Render(res.Path))
		if res.Err != nil {
			r.Printf("  %s  %s\n", severityStyle(r, automod.SeverityError), res.Err.Error())
		}
		for _, iss := range res.Issues {
			k := iss.Kind()
			r.Printf("  %s  %s  %s\n",
				severityStyle(r, k.Severity()),
				r.Styles().Bold.Render(k.ID()),
				iss.Message(),
			)
		}
		r.Println("")
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.MapsFailed > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d maps failed", summary.MapsFailed))
	}
	r.Printf("Summary: %s in %d maps\n", strings.Join(summaryParts, ", "), summary.MapsChecked)

	return true
}

func severityStyle(r *output.Renderer, sev automod.Severity) string {
	switch sev {
	case automod.SeverityError:
		return r.Styles().Error.Render("error  ")
	case automod.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case automod.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
