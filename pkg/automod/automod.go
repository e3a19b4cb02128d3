package automod

import (
	"fmt"

	"github.com/vsrg-tools/qualint/pkg/qua"
)

// AutoMod analyzes one parsed map for chart quality issues.
//
// The zero value is not usable; construct with New. An instance is not safe
// for concurrent use: Run replaces the issue list in place, so callers must
// serialize Run and Issues on one instance. Independent instances share
// nothing and may run in parallel.
type AutoMod struct {
	m      *qua.Qua
	issues []Issue
}

// New returns an AutoMod for m. The map is stored by reference and is never
// mutated or copied; it is not validated until Run.
func New(m *qua.Qua) *AutoMod {
	return &AutoMod{m: m}
}

// Issues returns the issues found by the most recent Run, in detection
// order. It is empty before the first Run and after a Run that failed.
func (a *AutoMod) Issues() []Issue {
	return a.issues
}

// Run discards any previous results and analyzes the map, scanning hit
// objects, then timing points, then scroll velocities. Results are read
// via Issues.
//
// Run fails only when the map itself is malformed: a hit object with a
// lane outside 1..KeyCount stops the run before any scanning, returning an
// *InvalidLaneError. Everything else, including empty entity lists and a
// zero key count, is a recognized data state.
func (a *AutoMod) Run() error {
	a.issues = nil

	if err := a.validateLanes(); err != nil {
		return err
	}

	a.scanHitObjects()
	a.scanTimingPoints()
	a.scanScrollVelocities()
	return nil
}

// validateLanes rejects maps whose hit objects reference lanes outside the
// playfield, so the scan can index per-lane state without bounds checks.
func (a *AutoMod) validateLanes() error {
	keyCount := a.m.KeyCount()
	for i := range a.m.HitObjects {
		lane := a.m.HitObjects[i].Lane
		if lane < 1 || lane > keyCount {
			return &InvalidLaneError{Index: i, Lane: lane, KeyCount: keyCount}
		}
	}
	return nil
}

// InvalidLaneError reports a hit object whose lane lies outside the
// playfield implied by the map's mode.
type InvalidLaneError struct {
	// Index is the position of the offending object in the hit object list.
	Index int
	// Lane is the out-of-range lane value.
	Lane int
	// KeyCount is the lane count of the map's mode.
	KeyCount int
}

func (e *InvalidLaneError) Error() string {
	return fmt.Sprintf("hit object %d references lane %d outside 1..%d", e.Index, e.Lane, e.KeyCount)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
