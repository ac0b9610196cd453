// Package validate implements the per-signal validation stages: schema
// checking, citation verification, confidence filtering and
// cross-reference corroboration. Every stage reports failure as a
// Rejection value rather than an error, so the orchestrator can never
// lose a stage failure.
package validate

import (
	"fmt"
	"strings"

	"github.com/dlinden/factgate/internal/model"
	"github.com/google/uuid"
)

// Rejection is the terminal outcome of a failed stage: one reason plus
// a human-readable detail string for the rejection log.
type Rejection struct {
	Reason model.RejectionReason
	Detail string
}

func reject(reason model.RejectionReason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// SchemaValidator normalizes a raw candidate signal into a well-formed
// internal representation. Malformed LLM output is rejected here before
// any semantic check runs.
type SchemaValidator struct {
	minQuoteLength int
	confidenceCap  float64
}

// NewSchemaValidator creates a schema validator from the configured
// citation and threshold settings
func NewSchemaValidator(cfg *model.Config) *SchemaValidator {
	minQuote := cfg.Citation.MinQuoteLength
	if minQuote <= 0 {
		minQuote = 20
	}
	cap := cfg.Thresholds.Cap
	if cap <= 0 || cap > 1 {
		cap = 0.95
	}
	return &SchemaValidator{
		minQuoteLength: minQuote,
		confidenceCap:  cap,
	}
}

// Check validates one raw candidate. On success it returns the
// normalized candidate (trimmed fields, id assigned, confidence
// clamped) plus whether the confidence was clamped. On failure it
// returns a schema_invalid rejection; it never panics on malformed
// input.
func (v *SchemaValidator) Check(raw model.CandidateSignal) (model.CandidateSignal, bool, *Rejection) {
	sig := raw
	sig.SourceID = strings.TrimSpace(sig.SourceID)
	sig.VerbatimQuote = strings.TrimSpace(sig.VerbatimQuote)

	if sig.SourceID == "" {
		return sig, false, reject(model.RejectSchemaInvalid, "missing source_id")
	}

	if sig.VerbatimQuote == "" {
		return sig, false, reject(model.RejectSchemaInvalid, "missing verbatim_quote")
	}
	if n := len([]rune(sig.VerbatimQuote)); n < v.minQuoteLength {
		return sig, false, reject(model.RejectSchemaInvalid,
			"verbatim_quote too short (%d chars, min %d)", n, v.minQuoteLength)
	}

	if err := checkValue(sig.Value); err != "" {
		return sig, false, reject(model.RejectSchemaInvalid, "%s", err)
	}

	if sig.ModelConfidence < 0 {
		return sig, false, reject(model.RejectSchemaInvalid,
			"model_confidence %.2f below 0", sig.ModelConfidence)
	}

	// An extraction model reporting near-certainty is distrusted by
	// construction: clamp to the cap and flag, never propagate the raw
	// value.
	clamped := false
	if sig.ModelConfidence > v.confidenceCap {
		sig.ModelConfidence = v.confidenceCap
		clamped = true
	}

	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}

	return sig, clamped, nil
}

// checkValue validates the structured payload; returns an empty string
// when the value is well-formed
func checkValue(val model.SignalValue) string {
	switch val.Kind() {
	case model.ValueKindNumeric:
		if strings.TrimSpace(val.Metric) == "" {
			return "numeric value without metric name"
		}
		if strings.TrimSpace(val.Unit) == "" {
			return fmt.Sprintf("numeric metric %q without unit", val.Metric)
		}
	case model.ValueKindQualitative:
		if strings.TrimSpace(val.Fact) == "" && strings.TrimSpace(val.Headline) == "" {
			return "empty value: no fact, headline or numeric metric"
		}
	}
	return ""
}
