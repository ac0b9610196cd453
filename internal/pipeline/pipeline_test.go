package pipeline

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/dlinden/factgate/internal/factcheck"
	"github.com/dlinden/factgate/internal/model"
)

// scriptedOracle returns a fixed verdict for every claim
type scriptedOracle struct {
	verdict   model.FactCheckStatus
	reasoning string
}

func (o *scriptedOracle) Name() string { return "scripted" }

func (o *scriptedOracle) Verify(ctx context.Context, req factcheck.Request) (*factcheck.Response, error) {
	return &factcheck.Response{Verdict: o.verdict, Reasoning: o.reasoning}, nil
}

func floatPtr(f float64) *float64 { return &f }

func testBatch() model.Batch {
	return model.Batch{
		Company: "Beispiel AG",
		Sources: []model.SourceRecord{
			{
				ID:      "src-1",
				URL:     "https://example.com/bericht",
				RawText: "Der Umsatz stieg um 12% im ersten Quartal 2024, das Umsatzwachstum übertraf die Erwartungen. Der Vorstand bestätigte die Jahresprognose.",
			},
			{
				ID:      "src-2",
				URL:     "https://example.com/analyse",
				RawText: "Analysten bestätigten das Umsatzwachstum von 12 Prozent für das erste Quartal.",
			},
		},
		Signals: []model.CandidateSignal{growthSignal("sig-1", 0.85)},
	}
}

func growthSignal(id string, confidence float64) model.CandidateSignal {
	return model.CandidateSignal{
		ID:       id,
		SourceID: "src-1",
		Type:     model.SignalTypeFinancial,
		Value: model.SignalValue{
			Metric:       "Umsatzwachstum",
			NumericValue: floatPtr(12),
			Unit:         "%",
			Period:       "Q1 2024",
		},
		VerbatimQuote:   "Der Umsatz stieg um 12% im ersten Quartal 2024",
		ModelConfidence: confidence,
	}
}

func newTestPipeline(oracle factcheck.Oracle) *Pipeline {
	cfg := model.DefaultConfig()
	cfg.FactCheck.RequestsPerSecond = 1000
	cfg.FactCheck.Burst = 1000
	p := NewPipeline(cfg)
	p.oracle = oracle
	return p
}

func TestPipeline_Run_HappyPath(t *testing.T) {
	p := newTestPipeline(nil)

	res, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(res.Signals))
	}
	sig := res.Signals[0]

	if sig.ValidationStatus != model.StatusVerified {
		t.Errorf("status = %q, want verified (detail: %s)", sig.ValidationStatus, sig.RejectionDetail)
	}
	if sig.FactCheckStatus != model.FactCheckNotRun {
		t.Errorf("fact check status = %q, want not_run", sig.FactCheckStatus)
	}
	if sig.Confidence != 0.85 {
		t.Errorf("confidence = %v, want unchanged 0.85", sig.Confidence)
	}
	if sig.ConfidenceTier != model.TierHigh {
		t.Errorf("tier = %q, want high", sig.ConfidenceTier)
	}
	if sig.CorroborationCount != 1 || sig.CorroboratingSourceIDs[0] != "src-2" {
		t.Errorf("corroboration = %d %v, want 1 [src-2]", sig.CorroborationCount, sig.CorroboratingSourceIDs)
	}

	if res.Stats.Accepted != 1 || res.Stats.Rejected != 0 {
		t.Errorf("stats = %d accepted %d rejected", res.Stats.Accepted, res.Stats.Rejected)
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning: %q", res.Warning)
	}
}

func TestPipeline_Run_NoSources(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()
	batch.Sources = nil

	_, err := p.Run(context.Background(), batch)
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v, want ErrNoSources", err)
	}
}

func TestPipeline_Run_NoUsableSourceText(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()
	for i := range batch.Sources {
		batch.Sources[i].RawText = ""
	}

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("empty source text must not be a batch-level error: %v", err)
	}

	sig := res.Signals[0]
	if sig.ValidationStatus != model.StatusRejected {
		t.Fatalf("status = %q, want rejected", sig.ValidationStatus)
	}
	if sig.RejectionReason != model.RejectSourceMissing {
		t.Errorf("reason = %q, want source_missing", sig.RejectionReason)
	}
	if !strings.Contains(res.Warning, "usable text") {
		t.Errorf("warning = %q, should explain the empty sources", res.Warning)
	}
	if res.Stats.RejectionsByReason[model.RejectSourceMissing] != 1 {
		t.Errorf("stats missing source_missing count: %v", res.Stats.RejectionsByReason)
	}
}

func TestPipeline_Run_NoSignals(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()
	batch.Signals = nil

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Warning, "no candidate signals") {
		t.Errorf("warning = %q", res.Warning)
	}
	if res.Stats.TotalSignals != 0 {
		t.Errorf("total signals = %d", res.Stats.TotalSignals)
	}
}

func TestPipeline_Run_OrderPreservedAcrossMixedOutcomes(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()

	shortQuote := growthSignal("sig-short", 0.85)
	shortQuote.VerbatimQuote = "Umsatz +12%"

	lowConf := growthSignal("sig-low", 0.50)

	fabricated := growthSignal("sig-fab", 0.85)
	fabricated.VerbatimQuote = "Die Umsatzerlöse brachen in sämtlichen Regionen dramatisch ein"
	fabricated.Value = model.SignalValue{Fact: "Umsatzeinbruch in allen Regionen"}

	batch.Signals = []model.CandidateSignal{
		shortQuote,
		growthSignal("sig-ok", 0.85),
		lowConf,
		fabricated,
	}

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Signals) != 4 {
		t.Fatalf("got %d signals, want 4", len(res.Signals))
	}

	wantIDs := []string{"sig-short", "sig-ok", "sig-low", "sig-fab"}
	for i, want := range wantIDs {
		if res.Signals[i].ID != want {
			t.Errorf("signal %d id = %q, want %q", i, res.Signals[i].ID, want)
		}
	}

	wantReasons := []model.RejectionReason{
		model.RejectSchemaInvalid,
		"",
		model.RejectLowConfidence,
		model.RejectQuoteNotFound,
	}
	for i, want := range wantReasons {
		if res.Signals[i].RejectionReason != want {
			t.Errorf("signal %d reason = %q, want %q", i, res.Signals[i].RejectionReason, want)
		}
	}

	if res.Stats.Accepted != 1 || res.Stats.Rejected != 3 {
		t.Errorf("stats = %d accepted %d rejected", res.Stats.Accepted, res.Stats.Rejected)
	}
	if len(res.Rejections) != 3 {
		t.Errorf("rejection log has %d entries, want 3", len(res.Rejections))
	}
	if math.Abs(res.Stats.RejectionRate-0.75) > 1e-9 {
		t.Errorf("rejection rate = %v, want 0.75", res.Stats.RejectionRate)
	}
}

func TestPipeline_Run_IncorrectVerdictRejects(t *testing.T) {
	p := newTestPipeline(&scriptedOracle{
		verdict:   model.FactCheckIncorrect,
		reasoning: "the source states 12%, the claim asserts something else",
	})

	res, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signals[0]
	if sig.ValidationStatus != model.StatusRejected {
		t.Fatal("incorrect verdict must reject regardless of prior confidence")
	}
	if sig.RejectionReason != model.RejectFactCheckFailed {
		t.Errorf("reason = %q, want fact_check_failed", sig.RejectionReason)
	}
	if sig.RejectedAt != model.StageFactChecked {
		t.Errorf("rejected at %q, want fact_checked", sig.RejectedAt)
	}
	if sig.ConfidenceTier != "" {
		t.Errorf("rejected signal keeps tier %q", sig.ConfidenceTier)
	}
	if res.Stats.FactCheckVerdicts[model.FactCheckIncorrect] != 1 {
		t.Errorf("verdict stats = %v", res.Stats.FactCheckVerdicts)
	}
}

func TestPipeline_Run_VerifiedVerdictBoosts(t *testing.T) {
	p := newTestPipeline(&scriptedOracle{
		verdict:   model.FactCheckVerified,
		reasoning: "figure matches the source",
	})

	batch := testBatch()
	batch.Signals = []model.CandidateSignal{growthSignal("sig-1", 0.88)}

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signals[0]
	if sig.ValidationStatus != model.StatusVerified {
		t.Fatalf("status = %q (detail: %s)", sig.ValidationStatus, sig.RejectionDetail)
	}
	// 0.88 moves halfway toward the 0.95 cap
	if math.Abs(sig.Confidence-0.915) > 1e-9 {
		t.Errorf("confidence = %v, want 0.915", sig.Confidence)
	}
	if sig.ConfidenceTier != model.TierVerified {
		t.Errorf("tier = %q, want verified", sig.ConfidenceTier)
	}
	if sig.FactCheckReasoning != "figure matches the source" {
		t.Errorf("reasoning = %q", sig.FactCheckReasoning)
	}
}

func TestPipeline_Run_PartiallyCorrectPenalty(t *testing.T) {
	p := newTestPipeline(&scriptedOracle{verdict: model.FactCheckPartiallyCorrect})

	res, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signals[0]
	if sig.ValidationStatus != model.StatusVerified {
		t.Fatalf("partially_correct keeps the signal, got %q", sig.ValidationStatus)
	}
	if math.Abs(sig.Confidence-0.75) > 1e-9 {
		t.Errorf("confidence = %v, want 0.75", sig.Confidence)
	}
}

func TestPipeline_Run_CannotVerifyPenalty(t *testing.T) {
	p := newTestPipeline(&scriptedOracle{verdict: model.FactCheckCannotVerify})

	res, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signals[0]
	if sig.ValidationStatus != model.StatusVerified {
		t.Fatalf("cannot_verify keeps the signal, got %q", sig.ValidationStatus)
	}
	if math.Abs(sig.Confidence-0.80) > 1e-9 {
		t.Errorf("confidence = %v, want 0.80", sig.Confidence)
	}
}

func TestPipeline_Run_ClampsOverconfidentExtraction(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()
	batch.Signals = []model.CandidateSignal{growthSignal("sig-1", 0.99)}

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := res.Signals[0]
	if !sig.ConfidenceClamped {
		t.Error("expected clamped flag")
	}
	if sig.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", sig.Confidence)
	}
	if sig.ConfidenceTier != model.TierVerified {
		t.Errorf("tier = %q, want verified", sig.ConfidenceTier)
	}
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	p := newTestPipeline(&scriptedOracle{
		verdict:   model.FactCheckVerified,
		reasoning: "figure matches the source",
	})

	first, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first.Signals, second.Signals) {
		t.Errorf("runs differ:\nfirst:  %+v\nsecond: %+v", first.Signals, second.Signals)
	}
	if !reflect.DeepEqual(first.Stats, second.Stats) {
		t.Errorf("stats differ")
	}
}

func TestPipeline_Run_StripsHTMLSources(t *testing.T) {
	p := newTestPipeline(nil)

	batch := testBatch()
	batch.Sources[0].RawText = "<html><body><p>Der Umsatz stieg um 12% im ersten Quartal 2024</p><script>track();</script></body></html>"

	res, err := p.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signals[0].ValidationStatus != model.StatusVerified {
		t.Errorf("status = %q, quote should be found after HTML stripping (detail: %s)",
			res.Signals[0].ValidationStatus, res.Signals[0].RejectionDetail)
	}
}
