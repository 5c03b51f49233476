package fstbpe

// cover is the pair of parallel arrays spec.md §3 calls "cover maps": Tos[i]
// holds the inclusive end of the committed arc starting at i (i <= Tos[i]
// holds exactly at a committed start), Ids[i] its identifier, defaulting to
// the caller's unknown identifier everywhere else.
type cover struct {
	Tos []int32
	Ids []int32
}

// selectNonOverlapping sweeps arcs (already sorted by priority) and commits
// every candidate whose span is free of any previously-committed arc's
// interior, using the exact two-point boundary test of spec.md §4.4 --
// checking only Start and End+1 against the interior bitmap, rather than
// scanning the whole [Start,End] range. This is a faithful-by-construction
// optimization: it reproduces the reference implementation's behavior at
// abutment exactly, including the asymmetric edge case spec.md §9 flags as
// intentional (a candidate that abuts two already-committed arcs on both
// sides is still accepted, since neither boundary position it tests is
// itself marked interior).
func selectNonOverlapping(n int32, arcs []arc, unkID int32) cover {
	c := cover{
		Tos: make([]int32, n),
		Ids: make([]int32, n),
	}
	for i := range c.Ids {
		c.Ids[i] = unkID
	}

	// interior[i] == 1 iff i lies strictly inside a committed arc. Sized
	// N+1 so index End+1 == N stays in range; interior[N] is never set.
	interior := make([]byte, n+1)

	for _, a := range arcs {
		if interior[a.Start] != 0 {
			continue
		}
		if a.End+1 != n && interior[a.End+1] != 0 {
			continue
		}

		c.Tos[a.Start] = a.End
		c.Ids[a.Start] = a.ID
		for j := a.Start + 1; j <= a.End; j++ {
			interior[j] = 1
		}
	}

	return c
}
