package automaton

import "github.com/pkg/errors"

type edge struct {
	next   int32
	weight int32
}

// Table is a concrete, in-memory Facade backed by a per-state transition map
// built by Compile. It plays the role the compiled, on-disk DFA/Mealy
// transducer plays in a production system (see models/vocabfile for the
// persisted form); fstbpe only ever sees it through the Facade interface.
type Table[S Symbol] struct {
	trans   []map[S]edge
	final   []bool
	sumToID map[int32]int32
}

func newTable[S Symbol]() *Table[S] {
	return &Table[S]{
		trans:   []map[S]edge{make(map[S]edge)},
		final:   []bool{false},
		sumToID: make(map[int32]int32),
	}
}

// Initial implements Facade.
func (t *Table[S]) Initial() int32 { return 0 }

// Step implements Facade.
func (t *Table[S]) Step(state int32, sym S) (int32, int32) {
	if state < 0 || int(state) >= len(t.trans) {
		return NoState, 0
	}
	e, ok := t.trans[state][sym]
	if !ok {
		return NoState, 0
	}
	return e.next, e.weight
}

// IsFinal implements Facade.
func (t *Table[S]) IsFinal(state int32) bool {
	if state < 0 || int(state) >= len(t.final) {
		return false
	}
	return t.final[state]
}

// LookupByPathSum implements Facade.
func (t *Table[S]) LookupByPathSum(sum int32) (int32, bool) {
	id, ok := t.sumToID[sum]
	return id, ok
}

// NumStates returns the number of DFA states, including the initial state.
// Used by models/vocabfile when flattening a Table for persistence.
func (t *Table[S]) NumStates() int { return len(t.trans) }

func (t *Table[S]) addState() int32 {
	t.trans = append(t.trans, make(map[S]edge))
	t.final = append(t.final, false)
	return int32(len(t.trans) - 1)
}

// Entry is one vocabulary token to compile into a Table: its symbol
// sequence and the identifier a matching walk should resolve to.
type Entry[S Symbol] struct {
	Token []S
	ID    int32
}

// RawEdge is one flattened transition, the unit models/vocabfile persists
// and reloads: state From, on symbol Sym, land on state To, emitting
// output weight Weight.
type RawEdge[S Symbol] struct {
	From   int32
	Sym    S
	To     int32
	Weight int32
}

// FromRaw reconstructs a Table from its flattened representation without
// repeating trie construction or weight assignment -- the form
// models/vocabfile persists and reloads a compiled Table in. numStates is
// the total number of states (including state 0, the initial state).
func FromRaw[S Symbol](numStates int, edges []RawEdge[S], finals []bool, sumToID map[int32]int32) (*Table[S], error) {
	if numStates < 1 {
		return nil, errors.New("automaton: a table needs at least the initial state")
	}
	if len(finals) != numStates {
		return nil, errors.Errorf("automaton: finals has %d entries, want %d", len(finals), numStates)
	}

	t := &Table[S]{
		trans:   make([]map[S]edge, numStates),
		final:   append([]bool(nil), finals...),
		sumToID: make(map[int32]int32, len(sumToID)),
	}
	for i := range t.trans {
		t.trans[i] = make(map[S]edge)
	}
	for k, v := range sumToID {
		t.sumToID[k] = v
	}

	for _, re := range edges {
		if re.From < 0 || int(re.From) >= numStates {
			return nil, errors.Errorf("automaton: edge references out-of-range source state %d", re.From)
		}
		if re.To < 0 || int(re.To) >= numStates {
			return nil, errors.Errorf("automaton: edge references out-of-range destination state %d", re.To)
		}
		if _, dup := t.trans[re.From][re.Sym]; dup {
			return nil, errors.Errorf("automaton: duplicate transition from state %d on symbol %v", re.From, re.Sym)
		}
		t.trans[re.From][re.Sym] = edge{next: re.To, weight: re.Weight}
	}

	return t, nil
}

// Edges returns every transition in t as flattened RawEdge records, the
// form models/vocabfile writes to disk.
func (t *Table[S]) Edges() []RawEdge[S] {
	var out []RawEdge[S]
	for state, m := range t.trans {
		for sym, e := range m {
			out = append(out, RawEdge[S]{From: int32(state), Sym: sym, To: e.next, Weight: e.weight})
		}
	}
	return out
}

// Finals returns the per-state finality flags, indexed like Edges' From.
func (t *Table[S]) Finals() []bool {
	return append([]bool(nil), t.final...)
}

// SumToID returns the accumulated-path-sum to vocabulary-id table.
func (t *Table[S]) SumToID() map[int32]int32 {
	out := make(map[int32]int32, len(t.sumToID))
	for k, v := range t.sumToID {
		out[k] = v
	}
	return out
}

// Compile builds a Table from a vocabulary. It is the "transducer table
// construction" collaborator spec.md §1 declares external to the
// segmentation core: package fstbpe never calls it, it only consumes the
// Facade interface that the result satisfies.
//
// The construction is a trie (each state has exactly one incoming edge),
// which makes assigning non-negative Mealy output weights with a unique
// path sum per final state immediate: walk the trie breadth-first from the
// root, propagating the parent's sum down with weight zero on every edge
// except the edge into a final state, which gets the weight that lifts the
// sum to the next unused value in visiting order. Those values only grow,
// so no weight is negative, and sumToID maps each one to its state's id.
func Compile[S Symbol](entries []Entry[S]) (*Table[S], error) {
	t := newTable[S]()
	ids := []int32{0} // ids[state] is meaningful only when final[state]

	for _, e := range entries {
		if e.ID < 0 {
			return nil, errors.Errorf("automaton: entry %v has negative id %d", e.Token, e.ID)
		}
		if len(e.Token) == 0 {
			return nil, errors.Errorf("automaton: entry with id %d has an empty token", e.ID)
		}

		state := t.Initial()
		for _, sym := range e.Token {
			if ed, ok := t.trans[state][sym]; ok {
				state = ed.next
				continue
			}
			child := t.addState()
			t.trans[state][sym] = edge{next: child}
			ids = append(ids, 0)
			state = child
		}
		if t.final[state] {
			return nil, errors.Errorf("automaton: duplicate token %v", e.Token)
		}
		t.final[state] = true
		ids[state] = e.ID
	}

	type frame struct {
		state int32
		sum   int32
	}
	var lastSum int32
	queue := []frame{{t.Initial(), 0}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for sym, ed := range t.trans[f.state] {
			childSum := f.sum
			if t.final[ed.next] {
				lastSum++
				ed.weight = lastSum - f.sum
				childSum = lastSum
				t.sumToID[childSum] = ids[ed.next]
			}
			t.trans[f.state][sym] = ed
			queue = append(queue, frame{ed.next, childSum})
		}
	}

	return t, nil
}
