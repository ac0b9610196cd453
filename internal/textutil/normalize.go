// Package textutil provides the text normalization, number extraction
// and fuzzy matching primitives shared by the validation stages.
package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	doubleQuoteRe = regexp.MustCompile("[„“”«»]")
	singleQuoteRe = regexp.MustCompile("[‚‘’‹›]")
	dashRe        = regexp.MustCompile("[–—]")
	zeroWidthRe   = regexp.MustCompile(`[\x{200b}\x{200c}\x{200d}\x{feff}]`)
)

// Normalize prepares text for comparison: lowercase, collapsed
// whitespace, ASCII quotes and dashes, no zero-width characters.
// Both quotes and source texts go through the same normalization so
// typographic variation never causes a citation mismatch.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = doubleQuoteRe.ReplaceAllString(text, `"`)
	text = singleQuoteRe.ReplaceAllString(text, "'")
	text = dashRe.ReplaceAllString(text, "-")
	text = strings.ReplaceAll(text, "…", "...")
	text = zeroWidthRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// Tokenize splits normalized text into lowercase word tokens,
// stripping leading/trailing punctuation from each token.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,;:!?"'()[]`)
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// germanStopwords covers the filler words ignored when deriving search
// terms from qualitative claims. The corpus is German/English mixed.
var germanStopwords = map[string]bool{
	"der": true, "die": true, "das": true, "und": true, "oder": true,
	"ein": true, "eine": true, "einen": true, "mit": true, "von": true,
	"für": true, "auf": true, "im": true, "in": true, "den": true,
	"dem": true, "des": true, "zu": true, "um": true, "bei": true,
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "to": true, "for": true, "on": true,
	"is": true, "are": true, "was": true, "has": true, "have": true,
	"its": true, "at": true, "by": true, "as": true, "it": true,
}

// SalientTokens returns the content-bearing tokens of a text: stopwords
// and very short tokens removed, order preserved, deduplicated.
func SalientTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokenize(text) {
		if len(tok) < 4 || germanStopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
