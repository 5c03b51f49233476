package fstbpe

// emit walks the committed cover left to right, writing one (id, start,
// end) triple per position visited (spec.md §4.5) into out, and returns
// the number of integer slots required for every triple regardless of
// how many actually fit (spec.md §4.6's capacity-retry protocol: writes
// stop at capacity, the count does not).
//
// A position i with i <= Tos[i] begins a committed arc: emit it and skip
// ahead to Tos[i]+1. Otherwise no arc starts at i; spec.md §4.2 notes
// this can happen even at a position whose scan found vocabulary
// matches, if all of them lost non-overlap selection, not only at
// positions the unknown coalescer never visited. The emitted triple
// preserves the End=0 artifact of spec.md §4.5/§9 rather than
// canonicalizing it to End=Start: downstream consumers already treat
// End < Start as a one-cell unknown span. The walk advances by exactly
// one position in this branch -- not by jumping to Tos[i]+1 as the
// original's loop-counter reuse does -- which is what spec.md §8's
// left-to-right-monotonicity invariant requires; the two are
// observationally identical whenever Tos[i] is 0 only because i is 0 or
// because i itself is a genuine single-cell committed arc.
func emit(n int32, c cover, out []int32) int32 {
	var written int32

	for start := int32(0); start < n; {
		end := c.Tos[start]
		id := c.Ids[start]

		if written+3 <= int32(len(out)) {
			out[written] = id
			out[written+1] = start
			out[written+2] = end
		}
		written += 3

		if start <= end {
			start = end + 1
		} else {
			start++
		}
	}

	return written
}
