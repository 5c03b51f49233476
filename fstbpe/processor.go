// Package fstbpe implements the core of a single-best Byte-Pair-Encoding
// segmentation algorithm: given an input sequence of code units and an
// automaton facade over a precompiled vocabulary, it produces a
// non-overlapping, left-to-right cover of the input by vocabulary tokens,
// preferring tokens with smaller numeric identifiers.
//
// The package depends only on the automaton.Facade contract -- it never
// constructs, parses, or persists the underlying DFA/Mealy transducer; see
// package automaton and models/vocabfile for that.
package fstbpe

import "github.com/gomlx/go-fst-tokenizer/automaton"

// DefaultMaxInputSize bounds the input length when Config.MaxInputSize is
// left at its zero value.
const DefaultMaxInputSize = 1 << 24 // 16Mi code units

// Config is the one-shot configuration object of spec.md §6: a read-only
// automaton facade over the compiled vocabulary, plus an optional ceiling
// on input size.
type Config[S automaton.Symbol] struct {
	Facade       automaton.Facade[S]
	MaxInputSize int
}

// Processor runs the segmentation algorithm. Its zero value is
// unconfigured; SetConf must happen-before any call to Process.
//
// After configuration, a Processor is read-only and may be called
// concurrently from any number of goroutines, provided each call supplies
// its own input and output buffers (spec.md §5) -- Process allocates no
// state shared across calls.
type Processor[S automaton.Symbol] struct {
	conf *Config[S]
}

// SetConf installs conf. Reconfiguring a Processor already in concurrent
// use is not supported.
func (p *Processor[S]) SetConf(conf Config[S]) error {
	if conf.Facade == nil {
		return ErrNotConfigured
	}
	c := conf
	p.conf = &c
	return nil
}

// Process segments in and writes (id, start, end) triples into out,
// returning the number of integer slots required to hold all of them.
// If that exceeds len(out), the triples that do not fit are left
// unwritten -- the caller reallocates out to at least the returned size
// and calls Process again (spec.md §4.6, §7: a capacity shortfall is not
// an error).
//
// unkID labels spans matching no vocabulary entry. It is not required to
// be disjoint from real vocabulary identifiers.
//
// Process is deterministic: two calls with identical (in, unkID) against
// the same configuration produce byte-identical output.
func (p *Processor[S]) Process(in []S, out []int32, unkID int32) (int, error) {
	if p.conf == nil {
		return 0, ErrNotConfigured
	}

	n := len(in)
	if n == 0 {
		return 0, nil
	}

	maxIn := p.conf.MaxInputSize
	if maxIn <= 0 {
		maxIn = DefaultMaxInputSize
	}
	if n > maxIn {
		return 0, ErrInputTooLarge
	}

	arcs, err := collectArcs(p.conf.Facade, in, unkID)
	if err != nil {
		return 0, err
	}

	sortByPriority(arcs)
	c := selectNonOverlapping(int32(n), arcs, unkID)
	written := emit(int32(n), c, out)

	return int(written), nil
}
