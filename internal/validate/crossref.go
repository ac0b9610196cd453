package validate

import (
	"sort"
	"strings"

	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/textutil"
)

// CrossRefValidator detects independent corroboration of a claim
// within the same batch. It never rejects a signal; it only adjusts
// confidence and annotates corroborating source ids.
type CrossRefValidator struct {
	sources    []model.SourceRecord
	normalized []string // Normalized text per source, same order
	cfg        model.CrossRefConfig
	clampFloor float64
	clampCap   float64
}

// NewCrossRefValidator pre-normalizes the batch's source texts once so
// the per-signal scan does no repeated normalization work
func NewCrossRefValidator(sources []model.SourceRecord, cfg *model.Config) *CrossRefValidator {
	normalized := make([]string, len(sources))
	for i, src := range sources {
		normalized[i] = textutil.Normalize(src.RawText)
	}
	return &CrossRefValidator{
		sources:    sources,
		normalized: normalized,
		cfg:        cfg.CrossRef,
		clampFloor: cfg.Thresholds.Medium,
		clampCap:   cfg.Thresholds.Cap,
	}
}

// CrossRefResult carries the corroboration annotation plus the
// adjusted confidence for one signal
type CrossRefResult struct {
	CorroboratingSourceIDs []string
	Confidence             float64
}

// Check scans every other source in the batch for text expressing the
// same underlying fact and adjusts the given confidence:
// +boost per corroborating source (capped) once the minimum source
// count is met, a flat penalty floored at the admission threshold when
// the claim remains single-source.
func (v *CrossRefValidator) Check(sig model.CandidateSignal, confidence float64) CrossRefResult {
	terms := v.searchTerms(sig)

	var corroborating []string
	for i, src := range v.sources {
		if src.ID == sig.SourceID || src.ID == "" || v.normalized[i] == "" {
			continue
		}
		if v.matches(v.normalized[i], terms) {
			corroborating = append(corroborating, src.ID)
		}
	}
	sort.Strings(corroborating)

	adjusted := confidence
	switch {
	case len(corroborating) >= v.cfg.MinSourcesForBoost:
		adjusted += float64(len(corroborating)) * v.cfg.BoostPerSource
		if adjusted > v.clampCap {
			adjusted = v.clampCap
		}
	case len(corroborating) == 0:
		// Single-source claims are trusted less, but a signal already
		// past the confidence filter is not re-rejected here.
		adjusted -= v.cfg.SingleSourcePenalty
		if adjusted < v.clampFloor {
			adjusted = v.clampFloor
		}
	}

	return CrossRefResult{
		CorroboratingSourceIDs: corroborating,
		Confidence:             adjusted,
	}
}

// searchTerms derives the normalized terms that another source must
// contain to count as corroborating. Numeric claims search for the
// figure's renderings plus metric/region/period context; qualitative
// claims search for the salient tokens of the fact text.
func (v *CrossRefValidator) searchTerms(sig model.CandidateSignal) []string {
	var terms []string

	val := sig.Value
	if val.NumericValue != nil {
		for _, variant := range textutil.FormatVariants(*val.NumericValue) {
			terms = append(terms, variant)
		}
	}
	if val.Metric != "" {
		if m := textutil.Normalize(val.Metric); m != "" {
			terms = append(terms, m)
		}
	}
	if val.Region != "" {
		terms = append(terms, textutil.Normalize(val.Region))
	}
	if val.Period != "" {
		if p := textutil.Normalize(val.Period); p != "" {
			terms = append(terms, p)
		}
	}

	if val.NumericValue == nil {
		// Qualitative claim: fall back to the fact's content words
		text := val.Fact
		if text == "" {
			text = val.Headline
		}
		salient := textutil.SalientTokens(text)
		if len(salient) > 8 {
			salient = salient[:8]
		}
		terms = append(terms, salient...)
	}

	return terms
}

// matches reports whether enough search terms occur in the normalized
// source text. Numeric variants of the same figure count once.
func (v *CrossRefValidator) matches(normalizedText string, terms []string) bool {
	minMatches := v.cfg.MinTermMatches
	if minMatches <= 0 {
		minMatches = 2
	}

	hits := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if containsTerm(normalizedText, term) {
			hits++
			if hits >= minMatches {
				return true
			}
		}
	}
	return false
}

func containsTerm(text, term string) bool {
	return term != "" && strings.Contains(text, term)
}
