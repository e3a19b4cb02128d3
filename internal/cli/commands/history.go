package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/internal/state"
	"github.com/vsrg-tools/qualint/pkg/automod"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int    // Maximum number of runs to show
	Format string // Output format: text, json
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recorded check results",
		Long: `Show check runs recorded by previous invocations of check.

Without arguments, lists the most recent runs across all maps. With a
map path, shows the latest recorded run for that file including every
issue it found.

Output adapts to environment:
  - Terminal: Styled table output
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Show the most recent check runs
  qualint history

  # Show the last 50 runs
  qualint history --limit 50

  # Show the latest run for one map
  qualint history songs/artist-title/hard.qua

  # Output as JSON
  qualint history --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runHistoryForPath(cmd, args[0], opts)
			}
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	runs, err := cmdCtx.Store.ListChecks(opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		historyOutput := output.HistoryOutput{Runs: make([]output.HistoryEntry, 0, len(runs))}
		for _, run := range runs {
			historyOutput.Runs = append(historyOutput.Runs, historyEntry(run))
		}
		return r.JSON(historyOutput)
	}

	renderHistoryTable(r, runs)
	return nil
}

func runHistoryForPath(cmd *cobra.Command, path string, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	run, err := cmdCtx.Store.LatestCheckForPath(path)
	if err != nil {
		return err
	}
	if run == nil {
		r.Warning(fmt.Sprintf("No recorded checks for %s", path))
		return nil
	}

	issues, err := cmdCtx.Store.ListCheckIssues(run.ID)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		entry := historyEntry(run)
		for _, iss := range issues {
			entry.Issues = append(entry.Issues, output.CheckIssue{
				RuleID:   iss.RuleID,
				Kind:     kindNameForRuleID(iss.RuleID),
				Severity: iss.Severity,
				Message:  iss.Message,
			})
		}
		return r.JSON(entry)
	}

	renderLatestCheck(r, run, issues)
	return nil
}

// renderHistoryTable writes runs as a table, newest first.
func renderHistoryTable(r *output.Renderer, runs []*state.CheckRun) {
	if len(runs) == 0 {
		r.Println("(0 runs)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Checked At", "Map", "Status", "Issues", "Errors", "Warnings"})

	for _, run := range runs {
		t.AppendRow(table.Row{
			run.CheckedAt.Local().Format("2006-01-02 15:04:05"),
			historyMapLabel(run),
			string(run.Status),
			run.TotalIssues,
			run.Errors,
			run.Warnings,
		})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	r.Printf("(%d runs)\n", len(runs))
}

// historyMapLabel prefers the map title over its path; failed runs have
// no title because the file never parsed.
func historyMapLabel(run *state.CheckRun) string {
	if run.Title != "" {
		return run.Title
	}
	return run.Path
}

func renderLatestCheck(r *output.Renderer, run *state.CheckRun, issues []state.CheckIssue) {
	styles := r.Styles()

	r.Println(styles.MapPath.Render(run.Path))
	if run.Title != "" {
		r.StatusLine("Map", run.Title)
	}
	if run.Mode != "" {
		r.StatusLine("Mode", run.Mode)
	}
	r.StatusLine("Checked", run.CheckedAt.Local().Format("2006-01-02 15:04:05"))
	r.StatusLine("Status", string(run.Status))
	if run.Error != "" {
		r.StatusLine("Error", run.Error)
	}
	r.StatusLine("Issues", fmt.Sprintf("%d (%d errors, %d warnings, %d info)",
		run.TotalIssues, run.Errors, run.Warnings, run.Info))

	if len(issues) == 0 {
		return
	}

	r.Println("")
	for _, iss := range issues {
		sev, _ := automod.ParseSeverity(iss.Severity)
		r.Printf("  %s  %s  %s\n",
			severityStyle(r, sev),
			styles.Bold.Render(iss.RuleID),
			iss.Message,
		)
	}
}

func historyEntry(run *state.CheckRun) output.HistoryEntry {
	return output.HistoryEntry{
		ID:          run.ID,
		Path:        run.Path,
		Title:       run.Title,
		Mode:        run.Mode,
		Status:      string(run.Status),
		TotalIssues: run.TotalIssues,
		Errors:      run.Errors,
		Warnings:    run.Warnings,
		Info:        run.Info,
		Error:       run.Error,
		CheckedAt:   run.CheckedAt,
	}
}

// kindNameForRuleID recovers the kind name behind a stored rule ID.
// History rows persist only the ID.
func kindNameForRuleID(id string) string {
	for _, k := range automod.Kinds() {
		if k.ID() == id {
			return k.String()
		}
	}
	return ""
}
