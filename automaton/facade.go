// Package automaton defines the read-only facade the BPE segmentation core
// consumes: a deterministic finite automaton over a fixed alphabet, overlaid
// with a Mealy-style output function whose per-path sum indexes a vocabulary
// identifier table.
//
// Construction of the automaton — compiling a vocabulary and its merges into
// transition tables — is an external concern (spec §1: "DFA/transducer table
// construction" is out of scope for the segmentation core). This package
// still provides a construction path (Compile, Table) because a complete
// repository needs one, but fstbpe never calls it directly: it only ever
// depends on the Facade interface.
package automaton

// Symbol is the alphabet element type the automaton transitions on: a narrow
// byte or a wide code unit, chosen at build time by instantiating the
// generic parameter.
type Symbol interface {
	~byte | ~uint16
}

// NoState is returned by Step when there is no outgoing transition for the
// given symbol from the given state.
const NoState int32 = -1

// Facade is the contract the segmentation core depends on. It hides how the
// vocabulary was compiled: states are opaque integers, and the only way to
// recover a vocabulary identifier is by accumulating Step's output weights
// along a legal walk and looking up the sum at a final state.
type Facade[S Symbol] interface {
	// Initial returns the DFA start state.
	Initial() int32

	// Step takes the deterministic transition from state on symbol sym.
	// It returns NoState if there is no outgoing edge, and otherwise the
	// destination state plus the non-negative Mealy output weight emitted
	// on that edge.
	Step(state int32, sym S) (next int32, outputWeight int32)

	// IsFinal reports whether state corresponds to a complete vocabulary
	// entry (the path spelled so far is a match).
	IsFinal(state int32) bool

	// LookupByPathSum resolves the accumulated output-weight sum along a
	// walk ending in a final state to the vocabulary identifier for that
	// entry. ok is false if sum has no associated identifier, which
	// indicates a corrupt or mismatched model.
	LookupByPathSum(sum int32) (id int32, ok bool)
}
