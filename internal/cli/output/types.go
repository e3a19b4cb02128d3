package output

import "time"

// CheckOutput is the JSON document produced by the check command.
type CheckOutput struct {
	Summary CheckSummary      `json:"summary"`
	Files   []CheckFileResult `json:"files"`
}

// CheckSummary aggregates issue counts across all checked maps.
type CheckSummary struct {
	MapsChecked int `json:"maps_checked"`
	MapsFailed  int `json:"maps_failed"`
	TotalIssues int `json:"total_issues"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
}

// CheckFileResult holds the issues found in one map file. Error is set
// when the file could not be analyzed at all (unreadable, unparseable,
// or structurally invalid).
type CheckFileResult struct {
	Path   string       `json:"path"`
	Error  string       `json:"error,omitempty"`
	Issues []CheckIssue `json:"issues,omitempty"`
}

// CheckIssue is one detected issue in wire form.
type CheckIssue struct {
	RuleID   string `json:"rule_id"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// HistoryOutput is the JSON document produced by the history command.
type HistoryOutput struct {
	Runs []HistoryEntry `json:"runs"`
}

// HistoryEntry is one recorded check run in wire form.
type HistoryEntry struct {
	ID          string       `json:"id"`
	Path        string       `json:"path"`
	Title       string       `json:"title,omitempty"`
	Mode        string       `json:"mode,omitempty"`
	Status      string       `json:"status"`
	TotalIssues int          `json:"total_issues"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Info        int          `json:"info"`
	Error       string       `json:"error,omitempty"`
	CheckedAt   time.Time    `json:"checked_at"`
	Issues      []CheckIssue `json:"issues,omitempty"`
}
