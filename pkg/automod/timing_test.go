package automod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrg-tools/qualint/pkg/automod"
	"github.com/vsrg-tools/qualint/pkg/qua"
)

func timingMap(starts ...float64) *qua.Qua {
	points := make([]qua.TimingPoint, len(starts))
	for i, s := range starts {
		points[i] = qua.TimingPoint{StartTime: s, BPM: 120}
	}
	return &qua.Qua{Mode: qua.ModeKeys4, TimingPoints: points}
}

func velocityMap(starts ...float64) *qua.Qua {
	points := make([]qua.SliderVelocity, len(starts))
	for i, s := range starts {
		points[i] = qua.SliderVelocity{StartTime: s, Multiplier: 1}
	}
	return &qua.Qua{Mode: qua.ModeKeys4, SliderVelocities: points}
}

func TestTimingPointDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		starts []float64
		want   int
	}{
		{name: "no points", starts: nil, want: 0},
		{name: "single point", starts: []float64{5000}, want: 0},
		{name: "distinct points", starts: []float64{0, 5000, 10000}, want: 0},
		{name: "exact duplicate", starts: []float64{5000, 5000}, want: 1},
		{name: "triple duplicate", starts: []float64{5000, 5000, 5000}, want: 2},
		{name: "duplicate after distinct", starts: []float64{0, 5000, 5000}, want: 1},
		// Only exact matches are duplicates; there is no tolerance window
		// like the hit object rules have.
		{name: "nearly equal", starts: []float64{5000, 5000.0000001}, want: 0},
		{name: "fractional duplicate", starts: []float64{60771.5, 60771.5}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runOn(t, timingMap(tt.starts...))
			assert.Len(t, ofKind(issues, automod.KindTimingPointOverlap), tt.want)
		})
	}
}

func TestTimingPointDuplicatePayload(t *testing.T) {
	m := timingMap(1000, 5000, 5000)
	issues := ofKind(runOn(t, m), automod.KindTimingPointOverlap)
	require.Len(t, issues, 1)

	overlap := issues[0].(*automod.TimingPointOverlap)
	assert.Same(t, &m.TimingPoints[2], overlap.Point)
	assert.Same(t, &m.TimingPoints[1], overlap.Previous)
}

func TestTimingPointNonConsecutiveDuplicates(t *testing.T) {
	// Only consecutive pairs are compared; equal times separated by
	// another point are not flagged.
	issues := runOn(t, timingMap(5000, 7000, 5000))
	assert.Empty(t, ofKind(issues, automod.KindTimingPointOverlap))
}

func TestScrollVelocityDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		starts []float64
		want   int
	}{
		{name: "no points", starts: nil, want: 0},
		{name: "single point", starts: []float64{500}, want: 0},
		{name: "distinct points", starts: []float64{0, 250.5, 500}, want: 0},
		{name: "exact duplicate", starts: []float64{500, 500}, want: 1},
		{name: "triple duplicate", starts: []float64{500, 500, 500}, want: 2},
		{name: "nearly equal", starts: []float64{500, 500.0000001}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := runOn(t, velocityMap(tt.starts...))
			assert.Len(t, ofKind(issues, automod.KindScrollVelocityOverlap), tt.want)
		})
	}
}

func TestScrollVelocityDuplicatePayload(t *testing.T) {
	m := velocityMap(500, 500)
	issues := ofKind(runOn(t, m), automod.KindScrollVelocityOverlap)
	require.Len(t, issues, 1)

	overlap := issues[0].(*automod.ScrollVelocityOverlap)
	assert.Same(t, &m.SliderVelocities[1], overlap.Point)
	assert.Same(t, &m.SliderVelocities[0], overlap.Previous)
}

func TestTimingAndVelocityListsAreIndependent(t *testing.T) {
	// A timing point and a velocity point at the same time are different
	// entity kinds and never compared with each other.
	m := &qua.Qua{
		Mode:             qua.ModeKeys4,
		TimingPoints:     []qua.TimingPoint{{StartTime: 5000, BPM: 120}},
		SliderVelocities: []qua.SliderVelocity{{StartTime: 5000, Multiplier: 1}},
	}
	issues := runOn(t, m)
	assert.Empty(t, ofKind(issues, automod.KindTimingPointOverlap))
	assert.Empty(t, ofKind(issues, automod.KindScrollVelocityOverlap))
}
