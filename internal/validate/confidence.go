package validate

import (
	"github.com/dlinden/factgate/internal/model"
)

// ConfidenceFilter enforces the minimum admissible confidence and
// assigns the discrete tier used by downstream consumers. It operates
// on the model confidence as received from extraction; later stages
// may move a signal between tiers but can never resurrect one rejected
// here.
type ConfidenceFilter struct {
	thresholds model.ThresholdConfig
}

// NewConfidenceFilter creates a filter with the configured thresholds
func NewConfidenceFilter(cfg *model.Config) *ConfidenceFilter {
	return &ConfidenceFilter{thresholds: cfg.Thresholds}
}

// Check admits or rejects a signal by model confidence. On admission
// it returns the assigned tier.
func (f *ConfidenceFilter) Check(sig model.CandidateSignal) (model.ConfidenceTier, *Rejection) {
	if sig.ModelConfidence < f.thresholds.Medium {
		return "", reject(model.RejectLowConfidence,
			"model_confidence %.2f below minimum %.2f", sig.ModelConfidence, f.thresholds.Medium)
	}
	return f.Tier(sig.ModelConfidence), nil
}

// Tier maps a confidence score to its bucket. Scores below the medium
// threshold have no tier; callers reject those before asking.
func (f *ConfidenceFilter) Tier(confidence float64) model.ConfidenceTier {
	switch {
	case confidence >= f.thresholds.Verified:
		return model.TierVerified
	case confidence >= f.thresholds.High:
		return model.TierHigh
	default:
		return model.TierMedium
	}
}

// Clamp bounds a confidence score to [0, cap]. Every stage that
// adjusts confidence runs its result through this, so unconditional
// certainty is never claimed.
func (f *ConfidenceFilter) Clamp(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > f.thresholds.Cap {
		return f.thresholds.Cap
	}
	return confidence
}

// Floor is the medium threshold; the cross-reference penalty never
// pushes an admitted signal back under it
func (f *ConfidenceFilter) Floor() float64 {
	return f.thresholds.Medium
}
