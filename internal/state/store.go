// Package state persists check history for qualint using SQLite.
// Every analyzed map produces one check run record plus a row per issue,
// so results can be compared across editing sessions.
package state

import "time"

// CheckStatus describes how a recorded check ended.
type CheckStatus string

// Check statuses.
const (
	// CheckStatusCompleted means the map was analyzed; issues may exist.
	CheckStatusCompleted CheckStatus = "completed"
	// CheckStatusFailed means the map could not be analyzed at all.
	CheckStatusFailed CheckStatus = "failed"
)

// CheckRun is one recorded analysis of one map file.
type CheckRun struct {
	ID          string
	Path        string
	Title       string
	Mode        string
	Status      CheckStatus
	TotalIssues int
	Errors      int
	Warnings    int
	Info        int
	Error       string
	CheckedAt   time.Time
}

// CheckIssue is one persisted issue belonging to a check run.
type CheckIssue struct {
	ID       string
	RunID    string
	RuleID   string
	Severity string
	Message  string
}

// Store defines persistence for check history.
type Store interface {
	// Open connects to the database at path; ":memory:" is in-memory.
	Open(path string) error
	// Close releases the connection.
	Close() error
	// Migrate brings the schema up to date.
	Migrate() error

	// RecordCheck stores a run and its issues atomically, assigning the
	// run's ID and timestamp.
	RecordCheck(run *CheckRun, issues []CheckIssue) error
	// GetCheck retrieves a run by ID.
	GetCheck(id string) (*CheckRun, error)
	// ListChecks retrieves the most recent runs up to the given limit.
	ListChecks(limit int) ([]*CheckRun, error)
	// ListCheckIssues retrieves the issues of a run in recorded order.
	ListCheckIssues(runID string) ([]CheckIssue, error)
	// LatestCheckForPath retrieves the most recent run for a map file,
	// or nil when the file was never checked.
	LatestCheckForPath(path string) (*CheckRun, error)
}
