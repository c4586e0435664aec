package core

import (
	"sort"
	"time"
)

// MeasuredAt returns when m was taken, from its date and time fields.
// ok is false if either field is missing or does not parse.
func MeasuredAt(m Measurement) (time.Time, bool) {
	date, hasDate := m.Value(FieldDate)
	clock, hasTime := m.Value(FieldTime)
	if !hasDate || !hasTime {
		return time.Time{}, false
	}
	return ParseMeasuredAt(date, clock)
}

// sortKey is MeasuredAt with the zero time standing in for an unparsable
// timestamp, so such measurements order before every dated one.
func sortKey(m Measurement) time.Time {
	t, ok := MeasuredAt(m)
	if !ok {
		return time.Time{}
	}
	return t
}

// SortChronologically returns the measurements ordered oldest first.
// The input slice is not modified. The sort is stable: measurements with
// equal timestamps keep their discovery order.
func SortChronologically(ms []Measurement) []Measurement {
	keys := make([]time.Time, len(ms))
	idx := make([]int, len(ms))
	for i, m := range ms {
		keys[i] = sortKey(m)
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].Before(keys[idx[b]])
	})

	out := make([]Measurement, len(ms))
	for i, j := range idx {
		out[i] = ms[j]
	}
	return out
}

// LatestPair returns the second-to-last and last measurements of a
// chronologically sorted slice. ok is false with fewer than two.
func LatestPair(sorted []Measurement) (previous, current Measurement, ok bool) {
	if len(sorted) < 2 {
		return Measurement{}, Measurement{}, false
	}
	return sorted[len(sorted)-2], sorted[len(sorted)-1], true
}
