package fstbpe

import "github.com/gomlx/go-fst-tokenizer/automaton"

// arc is a candidate token placement: the input substring In[Start..End]
// (End inclusive) matches vocabulary entry ID, or ID is the caller's
// unknown identifier and the span is a coalesced non-matching run
// (spec.md §3 "Candidate arc").
type arc struct {
	Start, End, ID int32
}

// collectArcs performs one forward automaton walk per start position
// (spec.md §4.2): every final state reached along the walk yields a
// candidate, and walking never stops at the first match since longer
// matches starting at the same position remain candidates. Start
// positions with zero vocabulary matches are coalesced into the trailing
// unknown arc rather than emitting one candidate per position.
func collectArcs[S automaton.Symbol](facade automaton.Facade[S], in []S, unkID int32) ([]arc, error) {
	n := int32(len(in))
	arcs := make([]arc, 0, n)

	for start := int32(0); start < n; start++ {
		state := facade.Initial()
		var sum int32
		matched := false

		for i := start; i < n; i++ {
			next, weight := facade.Step(state, in[i])
			if next == automaton.NoState {
				break
			}
			state = next
			sum += weight

			if facade.IsFinal(state) {
				id, ok := facade.LookupByPathSum(sum)
				if !ok {
					return nil, ErrCorruptModel
				}
				arcs = append(arcs, arc{Start: start, End: i, ID: id})
				matched = true
			}
		}

		if !matched {
			if last := len(arcs) - 1; last >= 0 && arcs[last].ID == unkID {
				arcs[last].End = start
			} else {
				arcs = append(arcs, arc{Start: start, End: start, ID: unkID})
			}
		}
	}

	return arcs, nil
}
