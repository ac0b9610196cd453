package validate

import (
	"strings"
	"testing"

	"github.com/dlinden/factgate/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func validCandidate() model.CandidateSignal {
	return model.CandidateSignal{
		SourceID: "src-1",
		Type:     model.SignalTypeFinancial,
		Value: model.SignalValue{
			Metric:       "umsatzwachstum",
			NumericValue: floatPtr(12),
			Unit:         "%",
			Period:       "Q1 2024",
		},
		VerbatimQuote:   "Der Umsatz stieg um 12% im ersten Quartal 2024",
		ModelConfidence: 0.85,
	}
}

func TestSchemaValidator_Check_Valid(t *testing.T) {
	v := NewSchemaValidator(model.DefaultConfig())

	sig, clamped, rej := v.Check(validCandidate())
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if clamped {
		t.Error("confidence should not be clamped")
	}
	if sig.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if sig.ModelConfidence != 0.85 {
		t.Errorf("confidence changed: %v", sig.ModelConfidence)
	}
}

func TestSchemaValidator_Check_Rejections(t *testing.T) {
	v := NewSchemaValidator(model.DefaultConfig())

	tests := []struct {
		name         string
		mutate       func(*model.CandidateSignal)
		detailSubstr string
	}{
		{
			name:         "missing source id",
			mutate:       func(s *model.CandidateSignal) { s.SourceID = "  " },
			detailSubstr: "source_id",
		},
		{
			name:         "missing quote",
			mutate:       func(s *model.CandidateSignal) { s.VerbatimQuote = "" },
			detailSubstr: "verbatim_quote",
		},
		{
			name:         "quote too short",
			mutate:       func(s *model.CandidateSignal) { s.VerbatimQuote = "Umsatz +12%" },
			detailSubstr: "too short",
		},
		{
			name: "numeric value without unit",
			mutate: func(s *model.CandidateSignal) {
				s.Value.Unit = ""
			},
			detailSubstr: "without unit",
		},
		{
			name: "numeric value without metric",
			mutate: func(s *model.CandidateSignal) {
				s.Value.Metric = ""
			},
			detailSubstr: "without metric",
		},
		{
			name: "qualitative value without any text",
			mutate: func(s *model.CandidateSignal) {
				s.Value = model.SignalValue{Topic: "strategy"}
			},
			detailSubstr: "empty value",
		},
		{
			name:         "negative confidence",
			mutate:       func(s *model.CandidateSignal) { s.ModelConfidence = -0.1 },
			detailSubstr: "below 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := validCandidate()
			tt.mutate(&sig)

			_, _, rej := v.Check(sig)
			if rej == nil {
				t.Fatal("expected rejection")
			}
			if rej.Reason != model.RejectSchemaInvalid {
				t.Errorf("reason = %q, want schema_invalid", rej.Reason)
			}
			if !strings.Contains(rej.Detail, tt.detailSubstr) {
				t.Errorf("detail %q should mention %q", rej.Detail, tt.detailSubstr)
			}
		})
	}
}

func TestSchemaValidator_Check_ClampsOverconfidence(t *testing.T) {
	v := NewSchemaValidator(model.DefaultConfig())

	sig := validCandidate()
	sig.ModelConfidence = 0.99

	out, clamped, rej := v.Check(sig)
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if !clamped {
		t.Error("expected clamped flag for confidence above cap")
	}
	if out.ModelConfidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", out.ModelConfidence)
	}
}

func TestSchemaValidator_Check_KeepsProvidedID(t *testing.T) {
	v := NewSchemaValidator(model.DefaultConfig())

	sig := validCandidate()
	sig.ID = "sig-42"

	out, _, rej := v.Check(sig)
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
	if out.ID != "sig-42" {
		t.Errorf("id = %q, want sig-42", out.ID)
	}
}

func TestSchemaValidator_Check_QualitativeFact(t *testing.T) {
	v := NewSchemaValidator(model.DefaultConfig())

	sig := validCandidate()
	sig.Value = model.SignalValue{
		Fact:  "Partnerschaft mit Zalando für den DACH-Markt angekündigt",
		Topic: "partnership",
	}
	sig.VerbatimQuote = "Das Unternehmen kündigte eine Partnerschaft mit Zalando an"

	if _, _, rej := v.Check(sig); rej != nil {
		t.Fatalf("qualitative fact should pass schema: %v", rej)
	}
}
