package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsrg-tools/qualint/internal/cli/output"
	"github.com/vsrg-tools/qualint/pkg/automod"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Severity string // Filter by severity
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available AutoMod rules",
		Long: `List every AutoMod rule with its documentation.

Rules are grouped by the part of the map they scan (hit objects,
timing points, scroll velocities).

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  qualint rules

  # Show details for a specific rule
  qualint rules HO01

  # List only errors
  qualint rules --severity error

  # Output as JSON
  qualint rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Filter by severity: error, warning, info")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rules := filterRulesBySeverity(automod.Rules(), opts.Severity)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules)
	default:
		return listRulesText(r, rules)
	}
}

func filterRulesBySeverity(rules []automod.RuleInfo, severity string) []automod.RuleInfo {
	if severity == "" {
		return rules
	}
	want, ok := automod.ParseSeverity(severity)
	if !ok {
		return rules
	}

	var filtered []automod.RuleInfo
	for _, rule := range rules {
		if rule.Severity == want {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rule, ok := findRule(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, rule)
	default:
		return showRuleText(r, rule)
	}
}

func findRule(ruleID string) (automod.RuleInfo, bool) {
	for _, rule := range automod.Rules() {
		if rule.ID == ruleID {
			return rule, true
		}
	}
	return automod.RuleInfo{}, false
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []automod.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render(fmt.Sprintf("AutoMod Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)

	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + titleCaser.String(currentGroup)))
		}

		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Title,
			ruleSeverityStyle(r, rule.Severity),
		)
		r.Println(styles.Muted.Render("        " + rule.Description))
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'qualint rules <rule-id>' for details"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []automod.RuleInfo) error {
	r.Println("# AutoMod Rules")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)

	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Title, rule.Severity.String())
		r.Println("  " + rule.Description)
	}

	r.Println("")
	return nil
}

// RulesJSONOutput is the JSON output structure for the rules listing.
type RulesJSONOutput struct {
	Rules []automod.RuleInfo `json:"rules"`
	Count int                `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []automod.RuleInfo) error {
	return r.JSON(RulesJSONOutput{
		Rules: rules,
		Count: len(rules),
	})
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule automod.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Title)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Name"), rule.Name)
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.Severity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule automod.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Title)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.Severity.String())
	r.Println(rule.Description)
	r.Println("")
	return nil
}

func ruleSeverityStyle(r *output.Renderer, sev automod.Severity) string {
	switch sev {
	case automod.SeverityError:
		return r.Styles().Error.Render(sev.String())
	case automod.SeverityWarning:
		return r.Styles().Warning.Render(sev.String())
	default:
		return r.Styles().Info.Render(sev.String())
	}
}
