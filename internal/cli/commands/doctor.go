package commands

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor <map>",
		Short: "Run a comprehensive health check on one map",
		Long: `Analyze a single .qua map for upload readiness.

The doctor command runs every AutoMod rule plus metadata validation
and produces a comprehensive report including:
- Map summary (title, mode, object and timing point counts, length)
- Health checks grouped by category
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check on a map
  qualint doctor songs/artist-title/hard.qua

  # Output as JSON
  qualint doctor songs/artist-title/hard.qua --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Map             MapSummary    `json:"map"`
	HealthChecks    []HealthCheck `json:"health_checks"`
	Score           int           `json:"score"`
	Recommendations []string      `json:"recommendations"`
	IssueCount      int           `json:"issue_count"`
}

// MapSummary contains map-level statistics.
type MapSummary struct {
	Path             string `json:"path"`
	Title            string `json:"title"`
	Mode             string `json:"mode"`
	Objects          int    `json:"objects"`
	LongNotes        int    `json:"long_notes"`
	TimingPoints     int    `json:"timing_points"`
	ScrollVelocities int    `json:"scroll_velocities"`
	LengthMillis     int    `json:"length_ms"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, path string, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	m, err := qua.DecodeFile(path)
	if err != nil {
		return err
	}

	mod := automod.New(m)
	if err := mod.Run(); err != nil {
		return err
	}

	doctorOutput := buildDoctorOutput(path, m, actionableIssues(mod.Issues()))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(path string, m *qua.Qua, issues []automod.Issue) *DoctorOutput {
	summary := MapSummary{
		Path:             path,
		Title:            mapTitle(m),
		Mode:             string(m.Mode),
		Objects:          len(m.HitObjects),
		LongNotes:        m.LongNoteCount(),
		TimingPoints:     len(m.TimingPoints),
		ScrollVelocities: len(m.SliderVelocities),
		LengthMillis:     m.Length(),
	}

	// Group issues by rule
	issuesByKind := make(map[automod.Kind][]automod.Issue)
	for _, iss := range issues {
		issuesByKind[iss.Kind()] = append(issuesByKind[iss.Kind()], iss)
	}

	// One health check per AutoMod rule, plus metadata validation
	kinds := automod.Kinds()
	healthChecks := make([]HealthCheck, 0, len(kinds)+1)

	for _, k := range kinds {
		kindIssues := issuesByKind[k]
		status := "pass"
		if len(kindIssues) > 0 {
			if k.Severity() == automod.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}

		details := make([]string, 0, len(kindIssues))
		for _, iss := range kindIssues {
			details = append(details, iss.Message())
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     k.ID(),
			Name:       k.Title(),
			Group:      k.Category(),
			Status:     status,
			IssueCount: len(kindIssues),
			Details:    details,
		})
	}

	healthChecks = append(healthChecks, metadataCheck(m))

	issueCount := len(issues)
	for _, check := range healthChecks {
		if check.RuleID == metadataRuleID {
			issueCount += check.IssueCount
		}
	}

	return &DoctorOutput{
		Map:             summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks, summary.Objects),
		Recommendations: buildRecommendations(healthChecks),
		IssueCount:      issueCount,
	}
}

// metadataRuleID tags the metadata health check, which has no AutoMod
// kind behind it.
const metadataRuleID = "META"

func metadataCheck(m *qua.Qua) HealthCheck {
	check := HealthCheck{
		RuleID: metadataRuleID,
		Name:   "Map metadata",
		Group:  "metadata",
		Status: "pass",
	}

	if err := m.Validate(); err != nil {
		check.Status = "warn"
		check.IssueCount = 1
		check.Details = []string{err.Error()}
	}
	return check
}

// calculateHealthScore computes a health score from 0-100.
// Issues on denser maps weigh less, and errors count double.
func calculateHealthScore(checks []HealthCheck, objectCount int) int {
	score := 100.0

	basePenalty := 5.0
	if objectCount > 100 {
		basePenalty = 3.0
	}
	if objectCount > 500 {
		basePenalty = 2.0
	}
	if objectCount > 1000 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

// buildRecommendations creates actionable recommendations based on findings.
func buildRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "HO01":
		return "Lengthen or replace long notes that are too short to hold"
	case "HO02":
		return "Move objects so nothing starts or ends before 0ms"
	case "HO03":
		return "Separate notes stacked in the same lane"
	case "HO04":
		return "Place at least one object in every column"
	case "TP01":
		return "Remove duplicate timing points"
	case "SV01":
		return "Remove duplicate scroll velocity points"
	case metadataRuleID:
		return "Fill in the missing metadata fields before upload"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render("Map Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.StatusLine("Map", out.Map.Title)
	r.StatusLine("Mode", out.Map.Mode)
	r.StatusLine("Objects", fmt.Sprintf("%d (%d long notes)", out.Map.Objects, out.Map.LongNotes))
	r.StatusLine("Timing", fmt.Sprintf("%d points, %d scroll velocities", out.Map.TimingPoints, out.Map.ScrollVelocities))
	r.StatusLine("Length", formatMapLength(out.Map.LengthMillis))
	r.Println("")

	r.Println(styles.Header.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Map Health Report")
	r.Println("")

	r.Println("## Map")
	r.Println("")
	r.Printf("- **Title**: %s\n", out.Map.Title)
	r.Printf("- **Mode**: %s\n", out.Map.Mode)
	r.Printf("- **Objects**: %d (%d long notes)\n", out.Map.Objects, out.Map.LongNotes)
	r.Printf("- **Timing Points**: %d\n", out.Map.TimingPoints)
	r.Printf("- **Scroll Velocities**: %d\n", out.Map.ScrollVelocities)
	r.Printf("- **Length**: %s\n", formatMapLength(out.Map.LengthMillis))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

// formatMapLength renders a millisecond length as m:ss.
func formatMapLength(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
