package fstbpe

import (
	"testing"

	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/gomlx/go-fst-tokenizer/tokenizers/api"
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
		{Token: []byte("<unk>"), ID: 99},
		{Token: []byte("<pad>"), ID: 100},
	}
}

func newToyTokenizer(t *testing.T, config *api.Config) *Tokenizer {
	t.Helper()
	entries := toyEntries()
	tbl, err := automaton.Compile(entries)
	require.NoError(t, err)
	tok, err := New(tbl, entries, 99, config)
	require.NoError(t, err)
	return tok
}

func TestTokenizerEncode(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	assert.Equal(t, []int{2}, tok.Encode("abc"))
	assert.Equal(t, []int{3}, tok.Encode("ab"))
}

func TestTokenizerEncodeWithSpans(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	res := tok.EncodeWithSpans("ax")
	require.Equal(t, []int{5, 99}, res.IDs)
	require.Equal(t, []api.TokenSpan{{Start: 0, End: 1}, {Start: 1, End: 2}}, res.Spans)
}

func TestTokenizerEncodeWithSpansAllUnknown(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	res := tok.EncodeWithSpans("xyz")
	require.Equal(t, []int{99}, res.IDs)
	require.Equal(t, []api.TokenSpan{{Start: 0, End: 3}}, res.Spans)
}

func TestTokenizerDecode(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	got := tok.Decode(tok.Encode("abc"))
	assert.Equal(t, "abc", got)
}

func TestTokenizerDecodeUnknownIDYieldsNothing(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	assert.Equal(t, "", tok.Decode([]int{424242}))
}

func TestTokenizerSpecialTokenIDDefaults(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	id, err := tok.SpecialTokenID(api.TokUnknown)
	require.NoError(t, err)
	assert.Equal(t, 99, id)

	_, err = tok.SpecialTokenID(api.TokPad)
	assert.Error(t, err, "pad token is not registered without config override")
}

func TestTokenizerSpecialTokenIDFromConfig(t *testing.T) {
	tok := newToyTokenizer(t, &api.Config{UnkToken: "<unk>", PadToken: "<pad>"})
	id, err := tok.SpecialTokenID(api.TokUnknown)
	require.NoError(t, err)
	assert.EqualValues(t, 99, id)

	id, err = tok.SpecialTokenID(api.TokPad)
	require.NoError(t, err)
	assert.EqualValues(t, 100, id)
}

func TestTokenizerSpecialTokenIDUnsupportedKind(t *testing.T) {
	tok := newToyTokenizer(t, nil)
	_, err := tok.SpecialTokenID(api.TokMask)
	assert.Error(t, err)
}

func TestNewRejectsNilFacade(t *testing.T) {
	_, err := New(nil, toyEntries(), 99, nil)
	assert.Error(t, err)
}

func TestNewHonorsMaxInputSizeOverride(t *testing.T) {
	entries := toyEntries()
	tbl, err := automaton.Compile(entries)
	require.NoError(t, err)
	tok, err := New(tbl, entries, 99, &api.Config{MaxInputSize: 2})
	require.NoError(t, err)

	out := make([]int32, 9)
	_, err = tok.proc.Process([]byte("abc"), out, 99)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
