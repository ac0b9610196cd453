package textutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches figures as they appear in German and English
// financial text: 1234, 1.234,56, 1,234.56, 12,5 and an optional
// Mio./Mrd./million/billion multiplier suffix.
var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)*(?:\s*(?:mio\.?|mrd\.?|million(?:en)?|billion|milliarden?)\b)?`)

// multiplier suffixes recognized after a figure
var numberSuffixes = []struct {
	suffix string
	factor float64
}{
	{"mrd.", 1e9},
	{"mrd", 1e9},
	{"milliarden", 1e9},
	{"milliarde", 1e9},
	{"billion", 1e9}, // German-market texts: "billion" == 1e9
	{"mio.", 1e6},
	{"mio", 1e6},
	{"millionen", 1e6},
	{"million", 1e6},
}

// ExtractNumbers extracts every numeric figure from text, resolving
// thousands separators, decimal commas and Mio./Mrd. multipliers. The
// input is normalized first so matching is case-insensitive.
func ExtractNumbers(text string) []float64 {
	norm := Normalize(text)

	var numbers []float64
	for _, match := range numberRe.FindAllString(norm, -1) {
		if val, ok := parseFigure(match); ok {
			numbers = append(numbers, val)
		}
	}
	return numbers
}

// parseFigure converts one matched figure to a float64
func parseFigure(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	factor := 1.0
	for _, m := range numberSuffixes {
		if strings.HasSuffix(s, m.suffix) {
			factor = m.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, m.suffix))
			break
		}
	}

	val, ok := parseDecimal(s)
	if !ok {
		return 0, false
	}
	return val * factor, true
}

// parseDecimal handles the separator ambiguity between German
// (1.234,56) and English (1,234.56) formats.
func parseDecimal(s string) (float64, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot == -1 && lastComma == -1:
		// Plain integer
	case lastDot == -1:
		// Comma only: decimal comma unless it groups thousands (12,345)
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma == -1:
		// Dot only: decimal point unless it groups thousands (12.345)
		if strings.Count(s, ".") == 1 && len(s)-lastDot-1 != 3 {
			// Keep as decimal point
		} else if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	case lastComma > lastDot:
		// German: dots group, comma is decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		// English: commas group, dot is decimal
		s = strings.ReplaceAll(s, ",", "")
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// ContainsNumber reports whether text contains the given figure within
// a relative tolerance. Multiplier-scaled forms also match, so a claim
// of 1_200_000_000 is found in text that says "1,2 Mrd.".
func ContainsNumber(text string, number float64, tolerance float64) bool {
	for _, num := range ExtractNumbers(text) {
		if numbersMatch(num, number, tolerance) {
			return true
		}
		// A bare "1,2" in text may stand for 1.2 Mrd./Mio. asserted by
		// the claim; accept multiplier-equivalent renderings.
		for _, factor := range []float64{1e6, 1e9} {
			if numbersMatch(num*factor, number, tolerance) || numbersMatch(num, number*factor, tolerance) {
				return true
			}
		}
	}
	return false
}

func numbersMatch(a, b, tolerance float64) bool {
	if math.Abs(b) < 1e-10 {
		return math.Abs(a-b) < 1e-2
	}
	return math.Abs(a-b)/math.Abs(b) <= tolerance
}

// FormatVariants renders a number the ways it plausibly appears in
// text, used to build cross-reference search terms.
func FormatVariants(number float64) []string {
	variants := []string{
		strconv.FormatInt(int64(number), 10),
		strconv.FormatFloat(number, 'f', 1, 64),
	}
	// German decimal comma
	variants = append(variants, strings.Replace(strconv.FormatFloat(number, 'f', 1, 64), ".", ",", 1))
	if number == math.Trunc(number) {
		return variants
	}
	variants = append(variants, strconv.FormatFloat(number, 'f', 2, 64))
	return variants
}
