// Package tokenizer turns free text into comparable word units.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it on every run of characters that
// are neither letters nor digits. Letters of any script count, so Cyrillic
// or Arabic words survive intact while punctuation, symbols and emoji act
// as separators.
//
// Input with no letters or digits yields an empty, non-nil slice.
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}
