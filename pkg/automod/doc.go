// Package automod detects chart quality issues in parsed Quaver beatmaps.
//
// # Architecture
//
// An AutoMod instance wraps one parsed map and runs three sequential passes
// over it, appending to a single issue list:
//
//  1. Hit objects: overlapping notes, degenerate long notes, objects placed
//     before the audio starts, and columns that never receive an object
//  2. Timing points: consecutive points sharing an exact start time
//  3. Scroll velocities: consecutive points sharing an exact start time
//
// The passes are independent: each reads only its own entity list (plus the
// key count) and none consumes another's output. Issue order is therefore
// fixed for a given map: hit object issues in scan order with the
// missing-columns report last, then timing point issues, then scroll
// velocity issues.
//
// # Rule IDs
//
// Every issue kind carries a stable identifier, grouped by pass:
//
//   - HO (hit objects): HO01 short long note, HO02 object before start,
//     HO03 overlapping objects, HO04 object missing in columns
//   - TP (timing points): TP01 timing point overlap
//   - SV (scroll velocities): SV01 scroll velocity overlap
//
// # Usage
//
// Construct once per map, run, then read the issues:
//
//	mod := automod.New(m)
//	if err := mod.Run(); err != nil {
//		// the map itself is malformed (lane outside 1..KeyCount)
//	}
//	for _, iss := range mod.Issues() {
//		fmt.Println(iss.Kind().ID(), iss.Message())
//	}
//
// Run replaces the issue list wholesale, so repeated runs on an unchanged
// map yield identical results. One instance is not safe for concurrent use;
// run one instance per map instead, which needs no coordination.
package automod
