package vocabfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toyEntries() []automaton.Entry[byte] {
	return []automaton.Entry[byte]{
		{Token: []byte("a"), ID: 5},
		{Token: []byte("b"), ID: 6},
		{Token: []byte("ab"), ID: 3},
		{Token: []byte("abc"), ID: 2},
		{Token: []byte("bc"), ID: 4},
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	entries := toyEntries()
	tbl, err := automaton.Compile(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vocab.fst")
	require.NoError(t, Write(path, tbl, entries, 99))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	unkID, err := r.UnkID()
	require.NoError(t, err)
	assert.EqualValues(t, 99, unkID)

	loaded, loadedEntries, loadedUnk, err := Load[byte](r)
	require.NoError(t, err)
	assert.EqualValues(t, 99, loadedUnk)
	assert.Len(t, loadedEntries, len(entries))

	state := loaded.Initial()
	var sum int32
	for _, sym := range []byte("abc") {
		next, w := loaded.Step(state, sym)
		require.NotEqual(t, automaton.NoState, next)
		state = next
		sum += w
	}
	require.True(t, loaded.IsFinal(state))
	id, ok := loaded.LookupByPathSum(sum)
	require.True(t, ok)
	assert.EqualValues(t, 2, id)
}

func TestLoadRejectsWrongSymbolWidth(t *testing.T) {
	entries := toyEntries()
	tbl, err := automaton.Compile(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vocab.fst")
	require.NoError(t, Write(path, tbl, entries, 0))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, _, _, err = Load[uint16](r)
	assert.Error(t, err)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.fst")
	require.NoError(t, writeGarbage(path))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, _, _, err = Load[byte](r)
	assert.Error(t, err)
}

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not a vocabfile at all, much too short"), 0644)
}
