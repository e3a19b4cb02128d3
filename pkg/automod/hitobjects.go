package automod

import "github.com/vsrg-tools/qualint/pkg/qua"

const (
	// shortLongNoteThreshold is the longest hold, in milliseconds, still
	// flagged as too short to read as a hold. Inclusive.
	shortLongNoteThreshold = 36

	// overlapThreshold is the widest gap, in milliseconds, at which two
	// objects in one lane count as overlapping. Inclusive.
	overlapThreshold = 10
)

// scanHitObjects walks the hit object list once in chart order, tracking
// the most recently seen object per lane, and reports short long notes,
// objects before the track start, same-lane overlaps, and finally which
// columns never received an object.
func (a *AutoMod) scanHitObjects() {
	previousInLane := make([]*qua.HitObject, a.m.KeyCount())

	for i := range a.m.HitObjects {
		h := &a.m.HitObjects[i]

		if h.IsLongNote() && abs(h.EndTime-h.StartTime) <= shortLongNoteThreshold {
			a.issues = append(a.issues, &ShortLongNote{Object: h})
		}

		if h.StartTime < 0 || (h.IsLongNote() && h.EndTime < 0) {
			a.issues = append(a.issues, &ObjectBeforeStart{Object: h})
		}

		// The first object of the whole chart has nothing to overlap
		// with; it only seeds its lane.
		if i == 0 {
			previousInLane[h.Lane-1] = h
			continue
		}

		prev := previousInLane[h.Lane-1]
		if prev == nil {
			previousInLane[h.Lane-1] = h
			continue
		}

		if abs(h.StartTime-prev.StartTime) <= overlapThreshold {
			a.issues = append(a.issues, &OverlappingObjects{Object: h, Previous: prev})
		}

		if prev.IsLongNote() {
			// The two hold checks are separate rules and can both fire
			// for one pair.
			if abs(h.StartTime-prev.EndTime) <= overlapThreshold {
				a.issues = append(a.issues, &OverlappingObjects{Object: h, Previous: prev})
			}
			if prev.StartTime <= h.StartTime && h.StartTime <= prev.EndTime {
				a.issues = append(a.issues, &OverlappingObjects{Object: h, Previous: prev})
			}
		}

		previousInLane[h.Lane-1] = h
	}

	// Emitted even when no column is missing, so consumers always see one
	// report per run.
	missing := make([]int, 0, len(previousInLane))
	for lane := range previousInLane {
		if previousInLane[lane] == nil {
			missing = append(missing, lane+1)
		}
	}
	a.issues = append(a.issues, &ObjectMissingInColumns{Columns: missing})
}
