package automod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

func TestKindMetadata(t *testing.T) {
	tests := []struct {
		kind     automod.Kind
		id       string
		name     string
		group    string
		severity automod.Severity
	}{
		{automod.KindShortLongNote, "HO01", "short-long-note", "hit objects", automod.SeverityWarning},
		{automod.KindObjectBeforeStart, "HO02", "object-before-start", "hit objects", automod.SeverityError},
		{automod.KindOverlappingObjects, "HO03", "overlapping-objects", "hit objects", automod.SeverityError},
		{automod.KindObjectMissingInColumns, "HO04", "object-missing-in-columns", "hit objects", automod.SeverityInfo},
		{automod.KindTimingPointOverlap, "TP01", "timing-point-overlap", "timing points", automod.SeverityWarning},
		{automod.KindScrollVelocityOverlap, "SV01", "scroll-velocity-overlap", "scroll velocities", automod.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.id, tt.kind.ID())
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.group, tt.kind.Category())
			assert.Equal(t, tt.severity, tt.kind.Severity())
			assert.NotEmpty(t, tt.kind.Title())
			assert.NotEmpty(t, tt.kind.Description())
		})
	}
}

func TestKindsCoversEveryKind(t *testing.T) {
	kinds := automod.Kinds()
	require.Len(t, kinds, 6)

	seen := make(map[automod.Kind]bool, len(kinds))
	for _, k := range kinds {
		assert.False(t, seen[k], "kind %s listed twice", k)
		seen[k] = true
	}
}

func TestIssueMessages(t *testing.T) {
	shortHold := hold(2, 1000, 1020)
	earlyTap := tap(1, -50)
	earlyHold := hold(3, 10, -5)
	first := tap(1, 1000)
	second := tap(1, 1008)
	tp := qua.TimingPoint{StartTime: 60771.5, BPM: 129}
	sv := qua.SliderVelocity{StartTime: 500, Multiplier: 1}

	tests := []struct {
		name  string
		issue automod.Issue
		want  string
	}{
		{
			name:  "short long note",
			issue: &automod.ShortLongNote{Object: &shortHold},
			want:  "long note at 1000ms in lane 2 lasts only 20ms",
		},
		{
			name:  "tap before start",
			issue: &automod.ObjectBeforeStart{Object: &earlyTap},
			want:  "object at -50ms in lane 1 is placed before the track starts",
		},
		{
			name:  "hold ending before start",
			issue: &automod.ObjectBeforeStart{Object: &earlyHold},
			want:  "long note at 10ms in lane 3 ends at -5ms, before the track starts",
		},
		{
			name:  "overlapping objects",
			issue: &automod.OverlappingObjects{Object: &second, Previous: &first},
			want:  "objects at 1008ms and 1000ms in lane 1 overlap",
		},
		{
			name:  "missing columns",
			issue: &automod.ObjectMissingInColumns{Columns: []int{2, 4, 7}},
			want:  "no objects in column(s) 2, 4, 7",
		},
		{
			name:  "missing columns empty",
			issue: &automod.ObjectMissingInColumns{},
			want:  "every column contains at least one object",
		},
		{
			name:  "timing point overlap",
			issue: &automod.TimingPointOverlap{Point: &tp, Previous: &tp},
			want:  "two timing points at 60771.5ms",
		},
		{
			name:  "scroll velocity overlap",
			issue: &automod.ScrollVelocityOverlap{Point: &sv, Previous: &sv},
			want:  "two scroll velocity points at 500ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.Message())
		})
	}
}

func TestRules(t *testing.T) {
	rules := automod.Rules()
	require.Len(t, rules, 6)

	assert.Equal(t, "HO01", rules[0].ID)
	assert.Equal(t, "SV01", rules[5].ID)
	for _, r := range rules {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Group)
		assert.NotEmpty(t, r.Description)
	}
}
