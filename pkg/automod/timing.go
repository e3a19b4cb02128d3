package automod

// scanTimingPoints compares consecutive timing points and reports pairs
// sharing an exact start time. Exact equality, not a tolerance window:
// only true duplicates are flagged.
func (a *AutoMod) scanTimingPoints() {
	points := a.m.TimingPoints
	for i := 1; i < len(points); i++ {
		if points[i].StartTime == points[i-1].StartTime {
			a.issues = append(a.issues, &TimingPointOverlap{
				Point:    &points[i],
				Previous: &points[i-1],
			})
		}
	}
}

// scanScrollVelocities applies the same duplicate detection to the scroll
// velocity list.
func (a *AutoMod) scanScrollVelocities() {
	points := a.m.SliderVelocities
	for i := 1; i < len(points); i++ {
		if points[i].StartTime == points[i-1].StartTime {
			a.issues = append(a.issues, &ScrollVelocityOverlap{
				Point:    &points[i],
				Previous: &points[i-1],
			})
		}
	}
}
