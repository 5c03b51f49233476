package fstbpe

import "sort"

// sortByPriority orders candidates by ascending id (smaller id = earlier
// BPE merge = higher priority), then ascending start as a left-first
// tie-break (spec.md §4.3). The pair (id, start) is unique within a
// candidate set produced by a deterministic automaton, so an unstable
// sort is sufficient.
func sortByPriority(arcs []arc) {
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].ID != arcs[j].ID {
			return arcs[i].ID < arcs[j].ID
		}
		return arcs[i].Start < arcs[j].Start
	})
}
