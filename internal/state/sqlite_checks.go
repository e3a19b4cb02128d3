package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RecordCheck stores a run and its issues in one transaction, assigning
// the run's ID and timestamp.
func (s *SQLiteStore) RecordCheck(run *CheckRun, issues []CheckIssue) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	run.ID = generateID()
	run.CheckedAt = time.Now().UTC()

	s.logger.Debug("recording check",
		slog.String("id", run.ID),
		slog.String("path", run.Path),
		slog.Int("issues", len(issues)))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errMsg sql.NullString
	if run.Error != "" {
		errMsg = sql.NullString{String: run.Error, Valid: true}
	}

	_, err = tx.Exec(
		`INSERT INTO check_runs (id, path, title, mode, status, total_issues, errors, warnings, info, error, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Path, run.Title, run.Mode, string(run.Status),
		run.TotalIssues, run.Errors, run.Warnings, run.Info, errMsg, run.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}

	for i := range issues {
		issues[i].ID = generateID()
		issues[i].RunID = run.ID
		_, err = tx.Exec(
			`INSERT INTO check_issues (id, run_id, rule_id, severity, message) VALUES (?, ?, ?, ?, ?)`,
			issues[i].ID, issues[i].RunID, issues[i].RuleID, issues[i].Severity, issues[i].Message,
		)
		if err != nil {
			return fmt.Errorf("failed to record issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit check: %w", err)
	}
	return nil
}

// GetCheck retrieves a check run by ID.
func (s *SQLiteStore) GetCheck(id string) (*CheckRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, path, title, mode, status, total_issues, errors, warnings, info, error, checked_at
		 FROM check_runs WHERE id = ?`, id)

	run, err := scanCheckRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check: %w", err)
	}
	return run, nil
}

// ListChecks retrieves the most recent check runs up to the given limit.
func (s *SQLiteStore) ListChecks(limit int) ([]*CheckRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, path, title, mode, status, total_issues, errors, warnings, info, error, checked_at
		 FROM check_runs ORDER BY checked_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var runs []*CheckRun
	for rows.Next() {
		run, err := scanCheckRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	return runs, nil
}

// ListCheckIssues retrieves the issues of a check run in recorded order.
func (s *SQLiteStore) ListCheckIssues(runID string) ([]CheckIssue, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, rule_id, severity, message FROM check_issues WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []CheckIssue
	for rows.Next() {
		var iss CheckIssue
		if err := rows.Scan(&iss.ID, &iss.RunID, &iss.RuleID, &iss.Severity, &iss.Message); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// LatestCheckForPath retrieves the most recent check run for a map file.
func (s *SQLiteStore) LatestCheckForPath(path string) (*CheckRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, path, title, mode, status, total_issues, errors, warnings, info, error, checked_at
		 FROM check_runs WHERE path = ? ORDER BY checked_at DESC, id LIMIT 1`, path)

	run, err := scanCheckRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Never checked, return nil without error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest check: %w", err)
	}
	return run, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCheckRun(sc scanner) (*CheckRun, error) {
	run := &CheckRun{}
	var status string
	var errMsg sql.NullString

	err := sc.Scan(&run.ID, &run.Path, &run.Title, &run.Mode, &status,
		&run.TotalIssues, &run.Errors, &run.Warnings, &run.Info, &errMsg, &run.CheckedAt)
	if err != nil {
		return nil, err
	}

	run.Status = CheckStatus(status)
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
