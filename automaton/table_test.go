package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenBytes(s string) []byte { return []byte(s) }

func toyVocab() []Entry[byte] {
	return []Entry[byte]{
		{Token: tokenBytes("a"), ID: 5},
		{Token: tokenBytes("b"), ID: 6},
		{Token: tokenBytes("ab"), ID: 3},
		{Token: tokenBytes("abc"), ID: 2},
		{Token: tokenBytes("bc"), ID: 4},
	}
}

func walk[S Symbol](t *Table[S], symbols []S) (id int32, ok bool) {
	state := t.Initial()
	var sum int32
	for _, sym := range symbols {
		var w int32
		state, w = t.Step(state, sym)
		if state == NoState {
			return 0, false
		}
		sum += w
		if t.IsFinal(state) {
			id, ok = t.LookupByPathSum(sum)
		}
	}
	return id, ok
}

func TestCompileResolvesEveryEntry(t *testing.T) {
	tbl, err := Compile(toyVocab())
	require.NoError(t, err)

	for _, e := range toyVocab() {
		id, ok := walk(tbl, e.Token)
		require.True(t, ok, "token %q should resolve", e.Token)
		assert.Equal(t, e.ID, id, "token %q", e.Token)
	}
}

func TestStepNoOutgoingEdge(t *testing.T) {
	tbl, err := Compile(toyVocab())
	require.NoError(t, err)

	next, weight := tbl.Step(tbl.Initial(), 'z')
	assert.Equal(t, NoState, next)
	assert.Equal(t, int32(0), weight)
}

func TestStepOutOfRangeState(t *testing.T) {
	tbl, err := Compile(toyVocab())
	require.NoError(t, err)

	next, _ := tbl.Step(9999, 'a')
	assert.Equal(t, NoState, next)
	assert.False(t, tbl.IsFinal(9999))
	assert.False(t, tbl.IsFinal(-1))
}

func TestCompileRejectsDuplicateToken(t *testing.T) {
	_, err := Compile([]Entry[byte]{
		{Token: tokenBytes("a"), ID: 1},
		{Token: tokenBytes("a"), ID: 2},
	})
	assert.Error(t, err)
}

func TestCompileRejectsEmptyToken(t *testing.T) {
	_, err := Compile([]Entry[byte]{{Token: nil, ID: 1}})
	assert.Error(t, err)
}

func TestCompileRejectsNegativeID(t *testing.T) {
	_, err := Compile([]Entry[byte]{{Token: tokenBytes("a"), ID: -1}})
	assert.Error(t, err)
}

func TestCompileWideSymbols(t *testing.T) {
	entries := []Entry[uint16]{
		{Token: []uint16{0x61}, ID: 0},
		{Token: []uint16{0x61, 0x62}, ID: 1},
	}
	tbl, err := Compile(entries)
	require.NoError(t, err)

	id, ok := walk(tbl, []uint16{0x61, 0x62})
	require.True(t, ok)
	assert.Equal(t, int32(1), id)
}

func TestLookupByPathSumUnknown(t *testing.T) {
	tbl, err := Compile(toyVocab())
	require.NoError(t, err)

	_, ok := tbl.LookupByPathSum(999)
	assert.False(t, ok)
}

func TestFromRawRoundTrip(t *testing.T) {
	tbl, err := Compile(toyVocab())
	require.NoError(t, err)

	rebuilt, err := FromRaw(tbl.NumStates(), tbl.Edges(), tbl.Finals(), tbl.SumToID())
	require.NoError(t, err)

	for _, e := range toyVocab() {
		id, ok := walk(rebuilt, e.Token)
		require.True(t, ok, "token %q should resolve after round trip", e.Token)
		assert.Equal(t, e.ID, id, "token %q", e.Token)
	}
}

func TestFromRawRejectsBadFinalsLength(t *testing.T) {
	_, err := FromRaw[byte](2, nil, []bool{false}, nil)
	assert.Error(t, err)
}

func TestFromRawRejectsOutOfRangeEdge(t *testing.T) {
	_, err := FromRaw[byte](1, []RawEdge[byte]{{From: 0, Sym: 'a', To: 5}}, []bool{false}, nil)
	assert.Error(t, err)
}

func TestFromRawRejectsDuplicateTransition(t *testing.T) {
	_, err := FromRaw[byte](2,
		[]RawEdge[byte]{{From: 0, Sym: 'a', To: 1}, {From: 0, Sym: 'a', To: 1}},
		[]bool{false, true}, nil)
	assert.Error(t, err)
}
