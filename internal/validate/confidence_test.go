package validate

import (
	"testing"

	"github.com/dlinden/factgate/internal/model"
)

func TestConfidenceFilter_Check(t *testing.T) {
	f := NewConfidenceFilter(model.DefaultConfig())

	tests := []struct {
		name       string
		confidence float64
		wantTier   model.ConfidenceTier
		wantReject bool
	}{
		{"below admission floor", 0.69, "", true},
		{"exactly at floor", 0.70, model.TierMedium, false},
		{"medium band", 0.75, model.TierMedium, false},
		{"high band", 0.80, model.TierHigh, false},
		{"verified band", 0.90, model.TierVerified, false},
		{"at cap", 0.95, model.TierVerified, false},
		{"zero", 0.0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := validCandidate()
			sig.ModelConfidence = tt.confidence

			tier, rej := f.Check(sig)
			if tt.wantReject {
				if rej == nil {
					t.Fatal("expected rejection")
				}
				if rej.Reason != model.RejectLowConfidence {
					t.Errorf("reason = %q, want low_confidence", rej.Reason)
				}
				return
			}
			if rej != nil {
				t.Fatalf("unexpected rejection: %v", rej)
			}
			if tier != tt.wantTier {
				t.Errorf("tier = %q, want %q", tier, tt.wantTier)
			}
		})
	}
}

func TestConfidenceFilter_Clamp(t *testing.T) {
	f := NewConfidenceFilter(model.DefaultConfig())

	tests := []struct {
		in       float64
		expected float64
	}{
		{-0.2, 0},
		{0.5, 0.5},
		{0.95, 0.95},
		{0.99, 0.95},
		{1.5, 0.95},
	}
	for _, tt := range tests {
		if got := f.Clamp(tt.in); got != tt.expected {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestConfidenceFilter_Floor(t *testing.T) {
	f := NewConfidenceFilter(model.DefaultConfig())
	if f.Floor() != 0.70 {
		t.Errorf("Floor() = %v, want 0.70", f.Floor())
	}
}
