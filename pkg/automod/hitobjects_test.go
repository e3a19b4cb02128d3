package automod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

func TestShortLongNoteThreshold(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{name: "20ms hold", start: 1000, end: 1020, want: true},
		{name: "36ms hold is inclusive", start: 1000, end: 1036, want: true},
		{name: "37ms hold", start: 1000, end: 1037, want: false},
		{name: "reversed hold", start: 1000, end: 980, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runOn(t, &qua.Qua{
				Mode:       qua.ModeKeys4,
				HitObjects: []qua.HitObject{hold(1, tt.start, tt.end)},
			})

			short := ofKind(issues, automod.KindShortLongNote)
			if tt.want {
				assert.Len(t, short, 1)
			} else {
				assert.Empty(t, short)
			}
		})
	}
}

func TestShortLongNoteEqualTimes(t *testing.T) {
	// A hold whose end equals its start is still a hold (non-zero end
	// time) of zero duration.
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, 500, 500)},
	})
	assert.Len(t, ofKind(issues, automod.KindShortLongNote), 1)
}

func TestObjectBeforeStart(t *testing.T) {
	tests := []struct {
		name   string
		object qua.HitObject
		want   int
	}{
		{name: "tap before zero", object: tap(1, -50), want: 1},
		{name: "tap at zero", object: tap(1, 0), want: 0},
		{name: "hold ending before zero", object: hold(1, 10, -5), want: 1},
		// Both sub-conditions hold, combined as one OR: a single issue.
		{name: "hold entirely before zero", object: hold(1, -50, -10), want: 1},
		{name: "ordinary hold", object: hold(1, 10, 500), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runOn(t, &qua.Qua{
				Mode:       qua.ModeKeys4,
				HitObjects: []qua.HitObject{tt.object},
			})
			assert.Len(t, ofKind(issues, automod.KindObjectBeforeStart), tt.want)
		})
	}
}

func TestOverlapWithPreviousStart(t *testing.T) {
	tests := []struct {
		name   string
		second int
		want   int
	}{
		{name: "8ms apart", second: 1008, want: 1},
		{name: "10ms apart is inclusive", second: 1010, want: 1},
		{name: "11ms apart", second: 1011, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &qua.Qua{
				Mode:       qua.ModeKeys4,
				HitObjects: []qua.HitObject{tap(1, 1000), tap(1, tt.second)},
			}
			overlaps := ofKind(runOn(t, m), automod.KindOverlappingObjects)
			require.Len(t, overlaps, tt.want)

			if tt.want == 1 {
				ov := overlaps[0].(*automod.OverlappingObjects)
				assert.Same(t, &m.HitObjects[1], ov.Object)
				assert.Same(t, &m.HitObjects[0], ov.Previous)
			}
		})
	}
}

func TestOverlapLanesAreIndependent(t *testing.T) {
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{tap(1, 1000), tap(2, 1005)},
	})
	assert.Empty(t, ofKind(issues, automod.KindOverlappingObjects))
}

func TestOverlapComparesLatestInLane(t *testing.T) {
	// The lane slot holds only the most recent object: the third note is
	// compared against the second, not the first.
	m := &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{tap(1, 1000), tap(1, 2000), tap(1, 2005)},
	}
	overlaps := ofKind(runOn(t, m), automod.KindOverlappingObjects)
	require.Len(t, overlaps, 1)

	ov := overlaps[0].(*automod.OverlappingObjects)
	assert.Same(t, &m.HitObjects[2], ov.Object)
	assert.Same(t, &m.HitObjects[1], ov.Previous)
}

func TestOverlapInsideLongNoteSpan(t *testing.T) {
	// A tap deep inside the preceding hold triggers only the span rule:
	// both its distance from the hold's start and from its end exceed the
	// proximity window.
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, 1000, 2000), tap(1, 1500)},
	})
	assert.Len(t, ofKind(issues, automod.KindOverlappingObjects), 1)
}

func TestOverlapNearLongNoteEnd(t *testing.T) {
	// 5ms after the hold releases: close to the end but outside the span.
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, 1000, 2000), tap(1, 2005)},
	})
	assert.Len(t, ofKind(issues, automod.KindOverlappingObjects), 1)
}

func TestOverlapLongNoteChecksBothFire(t *testing.T) {
	// 5ms before the hold releases and inside its span: the two hold
	// rules are independent, so the same pair is reported twice.
	m := &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, 1000, 2000), tap(1, 1995)},
	}
	overlaps := ofKind(runOn(t, m), automod.KindOverlappingObjects)
	require.Len(t, overlaps, 2)

	for _, iss := range overlaps {
		ov := iss.(*automod.OverlappingObjects)
		assert.Same(t, &m.HitObjects[1], ov.Object)
		assert.Same(t, &m.HitObjects[0], ov.Previous)
	}
}

func TestSingleShortHold(t *testing.T) {
	// One 20ms hold in lane 1: a short hold report plus the column
	// report for every other lane, and no overlaps since the lone object
	// has no predecessor.
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, 1000, 1020)},
	})

	require.Len(t, issues, 2)
	assert.Len(t, ofKind(issues, automod.KindShortLongNote), 1)

	missing := ofKind(issues, automod.KindObjectMissingInColumns)
	require.Len(t, missing, 1)
	assert.Equal(t, []int{2, 3, 4}, missing[0].(*automod.ObjectMissingInColumns).Columns)
}

func TestFirstObjectStillCheckedForItself(t *testing.T) {
	// Being first skips only the pairwise checks; the hold length and
	// before-start rules still apply.
	issues := runOn(t, &qua.Qua{
		Mode:       qua.ModeKeys4,
		HitObjects: []qua.HitObject{hold(1, -100, -80)},
	})

	assert.Len(t, ofKind(issues, automod.KindShortLongNote), 1)
	assert.Len(t, ofKind(issues, automod.KindObjectBeforeStart), 1)
}

func TestMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		mode    qua.Mode
		objects []qua.HitObject
		want    []int
	}{
		{
			name:    "7k with two lanes used",
			mode:    qua.ModeKeys7,
			objects: []qua.HitObject{tap(1, 100), tap(3, 200)},
			want:    []int{2, 4, 5, 6, 7},
		},
		{
			name:    "all lanes used",
			mode:    qua.ModeKeys4,
			objects: []qua.HitObject{tap(1, 100), tap(2, 200), tap(3, 300), tap(4, 400)},
			want:    []int{},
		},
		{
			name: "no objects",
			mode: qua.ModeKeys7,
			want: []int{1, 2, 3, 4, 5, 6, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runOn(t, &qua.Qua{Mode: tt.mode, HitObjects: tt.objects})

			// The column report is emitted exactly once per run, even
			// when nothing is missing.
			missing := ofKind(issues, automod.KindObjectMissingInColumns)
			require.Len(t, missing, 1)
			assert.Equal(t, tt.want, missing[0].(*automod.ObjectMissingInColumns).Columns)
		})
	}
}
