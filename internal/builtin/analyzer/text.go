// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/strus/strusmod/pkg/module"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type (
	plainSegmenter struct{}
	lineSegmenter  struct{}

	wordTokenizer    struct{}
	splitTokenizer   struct{}
	contentTokenizer struct{}

	origNormalizer struct{}
	lowercase      struct{}
	uppercase      struct{}
	nfc            struct{}
	nfkc           struct{}
	suffixStemmer  struct{}

	countAggregator  struct{}
	maxPosAggregator struct{}
)

// Segment returns the whole content as one segment.
func (plainSegmenter) Segment(content []byte) ([]module.Segment, error) {
	if len(content) == 0 {
		return nil, nil
	}
	return []module.Segment{{Pos: 0, Text: string(content)}}, nil
}

// Segment returns one segment per non-empty line.
func (lineSegmenter) Segment(content []byte) ([]module.Segment, error) {
	var segs []module.Segment
	pos := 0
	for len(content) > 0 {
		line, rest, _ := bytes.Cut(content, []byte{'\n'})
		if text := strings.TrimRight(string(line), "\r"); text != "" {
			segs = append(segs, module.Segment{Pos: pos, Text: text})
		}
		pos += len(line) + 1
		content = rest
	}
	return segs, nil
}

// Tokenize splits at every rune that is neither a letter nor a digit.
func (wordTokenizer) Tokenize(text string) []module.Token {
	return fields(text, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
}

// Tokenize splits at white space.
func (splitTokenizer) Tokenize(text string) []module.Token {
	return fields(text, unicode.IsSpace)
}

// Tokenize returns the whole text as one token.
func (contentTokenizer) Tokenize(text string) []module.Token {
	if text == "" {
		return nil
	}
	return []module.Token{{Pos: 0, Text: text}}
}

func fields(text string, sep func(rune) bool) []module.Token {
	var (
		tokens []module.Token
		start  = -1
	)
	for i, r := range text {
		if sep(r) {
			if start >= 0 {
				tokens = append(tokens, module.Token{Pos: start, Text: text[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, module.Token{Pos: start, Text: text[start:]})
	}
	return tokens
}

func (origNormalizer) Normalize(tok string) string { return tok }

// Casers keep state between calls, so each call gets its own.
func (lowercase) Normalize(tok string) string { return cases.Lower(language.Und).String(tok) }
func (uppercase) Normalize(tok string) string { return cases.Upper(language.Und).String(tok) }

func (nfc) Normalize(tok string) string  { return norm.NFC.String(tok) }
func (nfkc) Normalize(tok string) string { return norm.NFKC.String(tok) }

// English suffix rules, longest first. A rule applies only if at least
// minStem runes remain.
var suffixRules = []struct{ suffix, replace string }{
	{"ational", "ate"},
	{"ization", "ize"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"iveness", "ive"},
	{"ement", ""},
	{"ingly", ""},
	{"ness", ""},
	{"ment", ""},
	{"ing", ""},
	{"ies", "y"},
	{"ed", ""},
	{"ly", ""},
	{"es", ""},
	{"s", ""},
}

const minStem = 3

// Normalize strips the first matching suffix of a lowercase word.
func (suffixStemmer) Normalize(tok string) string {
	for _, rule := range suffixRules {
		stem, ok := strings.CutSuffix(tok, rule.suffix)
		if !ok || utf8.RuneCountInString(stem) < minStem {
			continue
		}
		if rule.suffix == "s" && strings.HasSuffix(stem, "s") {
			return tok
		}
		return stem + rule.replace
	}
	return tok
}

// Aggregate counts the terms.
func (countAggregator) Aggregate(terms []module.Term) float64 {
	return float64(len(terms))
}

// Aggregate returns the highest term position.
func (maxPosAggregator) Aggregate(terms []module.Term) float64 {
	maxPos := 0
	for _, t := range terms {
		maxPos = max(maxPos, t.Pos)
	}
	return float64(maxPos)
}
