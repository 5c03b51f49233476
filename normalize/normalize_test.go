package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNFCComposesDecomposedForm(t *testing.T) {
	decomposed := "é" // "e" + combining acute accent
	got := NFC(decomposed)
	assert.Equal(t, "é", got) // "é"
	assert.NotEqual(t, decomposed, got)
}

func TestToBytesRoundTripsASCII(t *testing.T) {
	assert.Equal(t, []byte("hello"), ToBytes("hello"))
}

func TestSanitizeInvalidUTF8LeavesValidTextAlone(t *testing.T) {
	assert.Equal(t, "hello, 世界", SanitizeInvalidUTF8("hello, 世界"))
}

func TestSanitizeInvalidUTF8ReplacesBadBytes(t *testing.T) {
	bad := "ok\xff\xfeend"
	got := SanitizeInvalidUTF8(bad)
	assert.Equal(t, "ok��end", got)
}
