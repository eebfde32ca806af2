package speechmetrics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// tokenizer normalizes raw STT tokens. A cases.Caser is stateful, so each
// Calculate call builds its own tokenizer.
type tokenizer struct {
	lower cases.Caser
}

func newTokenizer() *tokenizer {
	return &tokenizer{lower: cases.Lower(language.Und)}
}

// normalize returns the token in NFC form, lower-cased, with punctuation,
// symbols and whitespace removed. Decomposed Hangul from some devices is
// recomposed so that the same word always yields the same token.
func (t *tokenizer) normalize(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return ""
	}
	return t.lower.String(s)
}
