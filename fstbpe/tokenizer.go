package fstbpe

import (
	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/gomlx/go-fst-tokenizer/tokenizers/api"
	"github.com/pkg/errors"
)

// Vocabulary is the byte-level vocabulary a Tokenizer decodes against --
// the same (token, id) pairs given to automaton.Compile, indexed the other
// way around so Decode and EncodeWithSpans can recover original bytes from
// an id.
type Vocabulary struct {
	idToBytes map[int32][]byte
	byteToID  map[string]int32
}

// NewVocabulary builds a Vocabulary from the same entries passed to
// automaton.Compile.
func NewVocabulary(entries []automaton.Entry[byte]) *Vocabulary {
	v := &Vocabulary{
		idToBytes: make(map[int32][]byte, len(entries)),
		byteToID:  make(map[string]int32, len(entries)),
	}
	for _, e := range entries {
		b := append([]byte(nil), e.Token...)
		v.idToBytes[e.ID] = b
		v.byteToID[string(b)] = e.ID
	}
	return v
}

// Bytes returns the original bytes for id, if known.
func (v *Vocabulary) Bytes(id int32) ([]byte, bool) {
	b, ok := v.idToBytes[id]
	return b, ok
}

// ID returns the id for a token's exact bytes, if the token is in the
// vocabulary.
func (v *Vocabulary) ID(token string) (int32, bool) {
	id, ok := v.byteToID[token]
	return id, ok
}

// Tokenizer implements api.Tokenizer and api.TokenizerWithSpans over a
// configured Processor[byte]: it runs the segmentation core and resolves
// every emitted id back to the bytes it covers.
//
// Grounded on tokenizers/sentencepiece.Tokenizer in the teacher: a thin
// adapter from a lower-level segmentation engine to the repository-wide
// api.Tokenizer contract.
type Tokenizer struct {
	proc  *Processor[byte]
	vocab *Vocabulary

	unkTokenID, padTokenID, bosTokenID, eosTokenID int32
}

var _ api.Tokenizer = (*Tokenizer)(nil)
var _ api.TokenizerWithSpans = (*Tokenizer)(nil)

// New creates a Tokenizer from a compiled automaton and the vocabulary
// entries that produced it. unkID labels spans that match no vocabulary
// entry, unless config overrides it with a registered UnkToken.
func New(facade automaton.Facade[byte], entries []automaton.Entry[byte], unkID int32, config *api.Config) (*Tokenizer, error) {
	if facade == nil {
		return nil, errors.New("fstbpe: automaton facade must not be nil")
	}
	if config == nil {
		config = &api.Config{}
	}

	proc := &Processor[byte]{}
	if err := proc.SetConf(Config[byte]{Facade: facade, MaxInputSize: config.MaxInputSize}); err != nil {
		return nil, errors.Wrap(err, "configuring segmentation core")
	}

	vocab := NewVocabulary(entries)
	t := &Tokenizer{
		proc:       proc,
		vocab:      vocab,
		unkTokenID: unkID,
		padTokenID: -1,
		bosTokenID: -1,
		eosTokenID: -1,
	}

	if id, ok := vocab.ID(config.UnkToken); config.UnkToken != "" && ok {
		t.unkTokenID = id
	}
	if id, ok := vocab.ID(config.PadToken); config.PadToken != "" && ok {
		t.padTokenID = id
	}
	if id, ok := vocab.ID(config.BosToken); config.BosToken != "" && ok {
		t.bosTokenID = id
	}
	if id, ok := vocab.ID(config.EosToken); config.EosToken != "" && ok {
		t.eosTokenID = id
	}

	return t, nil
}

// Encode tokenizes text into a sequence of vocabulary ids.
func (t *Tokenizer) Encode(text string) []int {
	return t.EncodeWithSpans(text).IDs
}

// EncodeWithSpans tokenizes text and returns each token's byte span in the
// original text alongside its id, following the segmentation core's
// capacity-retry protocol internally so callers never see it.
func (t *Tokenizer) EncodeWithSpans(text string) api.EncodingResult {
	in := []byte(text)
	out := make([]int32, 3*(len(in)+1))

	n, err := t.proc.Process(in, out, t.unkTokenID)
	if err != nil {
		// Process fails only for an unconfigured processor, a corrupt
		// model, or text longer than Config.MaxInputSize (spec.md §7).
		// EncodeWithSpans has no error return, so any of these panics.
		panic(err)
	}
	if n > len(out) {
		out = make([]int32, n)
		n, err = t.proc.Process(in, out, t.unkTokenID)
		if err != nil {
			panic(err)
		}
	}

	count := n / 3
	ids := make([]int, count)
	spans := make([]api.TokenSpan, count)
	for i := 0; i < count; i++ {
		id, start, end := out[3*i], out[3*i+1], out[3*i+2]
		ids[i] = int(id)
		if start <= end {
			spans[i] = api.TokenSpan{Start: int(start), End: int(end) + 1}
		} else {
			// The core's single-cell-unknown artifact (spec.md §4.5,
			// §9): End holds 0, not Start, so the real span is just
			// [Start, Start+1).
			spans[i] = api.TokenSpan{Start: int(start), End: int(start) + 1}
		}
	}

	return api.EncodingResult{IDs: ids, Spans: spans}
}

// Decode reconstructs text from a sequence of ids by concatenating each
// id's vocabulary bytes; an id with no known bytes contributes nothing.
func (t *Tokenizer) Decode(ids []int) string {
	var buf []byte
	for _, id := range ids {
		if b, ok := t.vocab.Bytes(int32(id)); ok {
			buf = append(buf, b...)
		}
	}
	return string(buf)
}

// SpecialTokenID implements api.Tokenizer.
func (t *Tokenizer) SpecialTokenID(token api.SpecialToken) (int, error) {
	var id int32
	switch token {
	case api.TokUnknown:
		id = t.unkTokenID
	case api.TokPad:
		id = t.padTokenID
	case api.TokBeginningOfSentence:
		id = t.bosTokenID
	case api.TokEndOfSentence:
		id = t.eosTokenID
	default:
		return 0, errors.Errorf("fstbpe: unknown special token: %v (%d)", token, int(token))
	}
	if id < 0 {
		return 0, errors.Errorf("fstbpe: special token %v is not registered", token)
	}
	return int(id), nil
}
