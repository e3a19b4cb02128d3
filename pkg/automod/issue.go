package automod

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsrg-tools/qualint/pkg/qua"
)

// =============================================================================
// Kind
// =============================================================================

// Kind tags an issue variant. The set is closed: every issue produced by a
// run is one of the kinds below.
type Kind int

// Issue kinds, in the order their passes run.
const (
	KindShortLongNote Kind = iota
	KindObjectBeforeStart
	KindOverlappingObjects
	KindObjectMissingInColumns
	KindTimingPointOverlap
	KindScrollVelocityOverlap
)

// Kinds returns every issue kind in pass order.
func Kinds() []Kind {
	return []Kind{
		KindShortLongNote,
		KindObjectBeforeStart,
		KindOverlappingObjects,
		KindObjectMissingInColumns,
		KindTimingPointOverlap,
		KindScrollVelocityOverlap,
	}
}

// String returns the stable machine name of the kind.
func (k Kind) String() string {
	switch k {
	case KindShortLongNote:
		return "short-long-note"
	case KindObjectBeforeStart:
		return "object-before-start"
	case KindOverlappingObjects:
		return "overlapping-objects"
	case KindObjectMissingInColumns:
		return "object-missing-in-columns"
	case KindTimingPointOverlap:
		return "timing-point-overlap"
	case KindScrollVelocityOverlap:
		return "scroll-velocity-overlap"
	default:
		return "unknown"
	}
}

// ID returns the stable rule identifier of the kind, e.g. "HO01".
func (k Kind) ID() string {
	switch k {
	case KindShortLongNote:
		return "HO01"
	case KindObjectBeforeStart:
		return "HO02"
	case KindOverlappingObjects:
		return "HO03"
	case KindObjectMissingInColumns:
		return "HO04"
	case KindTimingPointOverlap:
		return "TP01"
	case KindScrollVelocityOverlap:
		return "SV01"
	default:
		return ""
	}
}

// Title returns the human-readable name of the kind.
func (k Kind) Title() string {
	switch k {
	case KindShortLongNote:
		return "Short long note"
	case KindObjectBeforeStart:
		return "Object before start"
	case KindOverlappingObjects:
		return "Overlapping objects"
	case KindObjectMissingInColumns:
		return "Object missing in columns"
	case KindTimingPointOverlap:
		return "Timing point overlap"
	case KindScrollVelocityOverlap:
		return "Scroll velocity overlap"
	default:
		return "Unknown"
	}
}

// Category returns the object group the kind's pass scans.
func (k Kind) Category() string {
	switch k {
	case KindTimingPointOverlap:
		return "timing points"
	case KindScrollVelocityOverlap:
		return "scroll velocities"
	default:
		return "hit objects"
	}
}

// Severity returns the fixed severity of the kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindObjectBeforeStart, KindOverlappingObjects:
		return SeverityError
	case KindShortLongNote, KindTimingPointOverlap, KindScrollVelocityOverlap:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Description returns a one-line explanation of what the kind detects.
func (k Kind) Description() string {
	switch k {
	case KindShortLongNote:
		return "Long notes held for 36ms or less, too short to read as a hold."
	case KindObjectBeforeStart:
		return "Objects whose start or end time lies before the beginning of the track."
	case KindOverlappingObjects:
		return "Objects in one lane within 10ms of each other or inside a preceding long note."
	case KindObjectMissingInColumns:
		return "Columns that never receive a hit object."
	case KindTimingPointOverlap:
		return "Consecutive timing points sharing an exact start time."
	case KindScrollVelocityOverlap:
		return "Consecutive scroll velocity points sharing an exact start time."
	default:
		return ""
	}
}

// =============================================================================
// Issue
// =============================================================================

// Issue is one detected problem. Implementations form a closed set; switch
// on Kind or type-switch over the concrete variants to handle every case.
// An issue references entities of the analyzed map rather than copying
// them, so it stays valid only as long as the map does.
type Issue interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Message returns a human-readable description of this occurrence.
	Message() string

	isIssue()
}

// =============================================================================
// Variants
// =============================================================================

// ShortLongNote reports a long note held for so little time that it plays
// like a tap.
type ShortLongNote struct {
	Object *qua.HitObject
}

func (i *ShortLongNote) Kind() Kind { return KindShortLongNote }

func (i *ShortLongNote) Message() string {
	return fmt.Sprintf("long note at %dms in lane %d lasts only %dms",
		i.Object.StartTime, i.Object.Lane, abs(i.Object.EndTime-i.Object.StartTime))
}

func (*ShortLongNote) isIssue() {}

// ObjectBeforeStart reports an object placed, or held until, before the
// track begins.
type ObjectBeforeStart struct {
	Object *qua.HitObject
}

func (i *ObjectBeforeStart) Kind() Kind { return KindObjectBeforeStart }

func (i *ObjectBeforeStart) Message() string {
	if i.Object.StartTime < 0 {
		return fmt.Sprintf("object at %dms in lane %d is placed before the track starts",
			i.Object.StartTime, i.Object.Lane)
	}
	return fmt.Sprintf("long note at %dms in lane %d ends at %dms, before the track starts",
		i.Object.StartTime, i.Object.Lane, i.Object.EndTime)
}

func (*ObjectBeforeStart) isIssue() {}

// OverlappingObjects reports a pair of objects in one lane placed too close
// together, or a note falling inside the span of the preceding long note.
// Object is the later of the two in scan order.
type OverlappingObjects struct {
	Object   *qua.HitObject
	Previous *qua.HitObject
}

func (i *OverlappingObjects) Kind() Kind { return KindOverlappingObjects }

func (i *OverlappingObjects) Message() string {
	return fmt.Sprintf("objects at %dms and %dms in lane %d overlap",
		i.Object.StartTime, i.Previous.StartTime, i.Object.Lane)
}

func (*OverlappingObjects) isIssue() {}

// ObjectMissingInColumns reports which columns never receive a hit object.
// It is emitted exactly once per run; Columns is empty when every column is
// used, and lists 1-indexed lanes in ascending order otherwise.
type ObjectMissingInColumns struct {
	Columns []int
}

func (i *ObjectMissingInColumns) Kind() Kind { return KindObjectMissingInColumns }

func (i *ObjectMissingInColumns) Message() string {
	if len(i.Columns) == 0 {
		return "every column contains at least one object"
	}
	parts := make([]string, len(i.Columns))
	for n, c := range i.Columns {
		parts[n] = strconv.Itoa(c)
	}
	return fmt.Sprintf("no objects in column(s) %s", strings.Join(parts, ", "))
}

func (*ObjectMissingInColumns) isIssue() {}

// TimingPointOverlap reports two consecutive timing points sharing an exact
// start time. Point is the later of the two in list order.
type TimingPointOverlap struct {
	Point    *qua.TimingPoint
	Previous *qua.TimingPoint
}

func (i *TimingPointOverlap) Kind() Kind { return KindTimingPointOverlap }

func (i *TimingPointOverlap) Message() string {
	return fmt.Sprintf("two timing points at %sms", formatMillis(i.Point.StartTime))
}

func (*TimingPointOverlap) isIssue() {}

// ScrollVelocityOverlap reports two consecutive scroll velocity points
// sharing an exact start time. Point is the later of the two in list order.
type ScrollVelocityOverlap struct {
	Point    *qua.SliderVelocity
	Previous *qua.SliderVelocity
}

func (i *ScrollVelocityOverlap) Kind() Kind { return KindScrollVelocityOverlap }

func (i *ScrollVelocityOverlap) Message() string {
	return fmt.Sprintf("two scroll velocity points at %sms", formatMillis(i.Point.StartTime))
}

func (*ScrollVelocityOverlap) isIssue() {}

// formatMillis renders a fractional millisecond value without an exponent,
// dropping the decimal part when it is zero.
func formatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a detection rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Group       string   `json:"group"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Rules returns metadata for every detection rule, in pass order.
func Rules() []RuleInfo {
	kinds := Kinds()
	rules := make([]RuleInfo, len(kinds))
	for i, k := range kinds {
		rules[i] = RuleInfo{
			ID:          k.ID(),
			Name:        k.String(),
			Title:       k.Title(),
			Group:       k.Category(),
			Description: k.Description(),
			Severity:    k.Severity(),
		}
	}
	return rules
}
