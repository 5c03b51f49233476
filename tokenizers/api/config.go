package api

// Config carries the special-token names and limits a Tokenizer
// constructor needs beyond what's already baked into the vocabulary file
// itself. The zero value is valid: every field falls back to whatever the
// underlying model already declares.
type Config struct {
	// UnkToken, PadToken, BosToken, EosToken override the special token
	// spellings a model declares, in case the caller's downstream
	// convention differs from the model's.
	UnkToken string
	PadToken string
	BosToken string
	EosToken string

	// MaxInputSize overrides the maximum input length a Tokenizer accepts,
	// in code units. Zero means "use the Tokenizer's default".
	MaxInputSize int
}
