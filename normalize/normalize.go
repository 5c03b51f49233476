// Package normalize is the pre-core text preparation layer fstbpe
// deliberately does not provide (spec §1: Unicode normalization is an
// external collaborator, not CORE behavior). Callers run text through here
// before handing the resulting bytes to a fstbpe.Processor[byte]; this
// package never imports fstbpe or automaton, keeping the boundary
// structural rather than a convention callers can accidentally cross.
//
// Grounded on golang.org/x/text/unicode/norm, the normalization library in
// the rest of the corpus's dependency set.
package normalize

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NFC normalizes text to Unicode Normalization Form C.
func NFC(text string) string {
	return norm.NFC.String(text)
}

// ToBytes normalizes text to NFC and returns its UTF-8 byte sequence, the
// element stream a byte-level fstbpe.Processor walks.
func ToBytes(text string) []byte {
	return []byte(NFC(text))
}

// SanitizeInvalidUTF8 is the byte-level fallback splitter: it rewrites any
// invalid UTF-8 byte sequence in text as the Unicode replacement character
// U+FFFD per offending byte, so a caller that needs valid UTF-8 downstream
// (e.g. before re-encoding token spans back into a string) never trips over
// malformed input. Byte-level tokenization itself does not need this -- raw
// bytes are legal CORE input either way -- but higher layers that decode
// ids back to text and expect valid UTF-8 do.
func SanitizeInvalidUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	var out []rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, utf8.RuneError)
			i++
			continue
		}
		out = append(out, r)
		i += size
	}
	return string(out)
}
