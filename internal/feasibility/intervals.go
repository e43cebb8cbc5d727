package feasibility

import (
	"time"

	"github.com/treklab/coasttrek/internal/tide"
)

// intersect returns the intersection of two ordered, disjoint interval
// sets. Intervals are closed, so sets may touch at a single instant and
// degenerate point intervals are preserved.
func intersect(a, b []tide.Interval) []tide.Interval {
	var out []tide.Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := laterOf(a[i].Start, b[j].Start)
		end := earlierOf(a[i].End, b[j].End)
		if !start.After(end) {
			out = append(out, tide.Interval{Start: start, End: end})
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// shift moves an interval's bounds backward by separate amounts, producing
// the departure-time interval from which a safe window can be transited.
// Returns false when the window is too short for the transit.
func shift(iv tide.Interval, startBy, endBy time.Duration) (tide.Interval, bool) {
	shifted := tide.Interval{Start: iv.Start.Add(-startBy), End: iv.End.Add(-endBy)}
	if shifted.Start.After(shifted.End) {
		return tide.Interval{}, false
	}
	return shifted, true
}

// envelope returns the outer bounds of an ordered interval set.
func envelope(set []tide.Interval) tide.Interval {
	return tide.Interval{Start: set[0].Start, End: set[len(set)-1].End}
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
