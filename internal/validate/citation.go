package validate

import (
	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/textutil"
)

// CitationValidator verifies that a signal's verbatim quote, and any
// numeric figure it asserts, actually occurs in the cited source's raw
// text. This is the strongest anti-hallucination guard in the
// pipeline: a claim whose quote cannot be located is dropped no matter
// how confident the extraction model was.
type CitationValidator struct {
	sources          map[string]model.SourceRecord
	fuzzyThreshold   float64
	numericTolerance float64
}

// NewCitationValidator builds a validator over the batch's source set.
// The source index is read-only and shared across signals.
func NewCitationValidator(sources map[string]model.SourceRecord, cfg *model.Config) *CitationValidator {
	threshold := cfg.Citation.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.85
	}
	tolerance := cfg.Citation.NumericTolerance
	if tolerance <= 0 {
		tolerance = 0.01
	}
	return &CitationValidator{
		sources:          sources,
		fuzzyThreshold:   threshold,
		numericTolerance: tolerance,
	}
}

// Check verifies one schema-valid signal against its cited source.
// Returns nil when the citation holds; the signal itself is never
// modified.
func (v *CitationValidator) Check(sig model.CandidateSignal) *Rejection {
	src, ok := v.sources[sig.SourceID]
	if !ok {
		return reject(model.RejectSourceMissing, "unknown source id %q", sig.SourceID)
	}
	if !src.HasText() {
		// A source whose text never arrived is rejected outright, not
		// kept as unverifiable.
		return reject(model.RejectSourceMissing, "source %q has no text", sig.SourceID)
	}

	matched, found := textutil.FuzzyFind(src.RawText, sig.VerbatimQuote, v.fuzzyThreshold)
	if !found {
		return reject(model.RejectQuoteNotFound,
			"quote not found in source %q: %q", sig.SourceID,
			textutil.Truncate(sig.VerbatimQuote, 60))
	}

	// A quote that matches textually but omits the asserted figure is
	// still a fabrication risk. The number must appear in the matched
	// span or in the quote itself, allowing German/English formatting
	// variants.
	if sig.Value.NumericValue != nil {
		num := *sig.Value.NumericValue
		inSpan := textutil.ContainsNumber(matched, num, v.numericTolerance)
		inQuote := textutil.ContainsNumber(sig.VerbatimQuote, num, v.numericTolerance)
		if !inSpan && !inQuote {
			return reject(model.RejectNumericMismatch,
				"value %g not present in cited text for metric %q", num, sig.Value.Metric)
		}
	}

	return nil
}

// Sources exposes the validator's read-only source index, shared with
// the cross-reference stage
func (v *CitationValidator) Sources() map[string]model.SourceRecord {
	return v.sources
}
