// Package pipeline orchestrates the validation stages. Each candidate
// signal moves through a strictly forward state machine
// (received → schema → citation → confidence → cross-reference →
// fact-check); any stage may reject, a rejection is terminal for that
// signal and never aborts the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dlinden/factgate/internal/cache"
	"github.com/dlinden/factgate/internal/factcheck"
	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/textutil"
	"github.com/dlinden/factgate/internal/validate"
)

// ErrNoSources is the batch-level fatal condition: nothing could even
// be attempted. Distinct from "nothing qualified", which completes
// normally with a warning.
var ErrNoSources = errors.New("no sources supplied")

// Fact-check reconciliation constants (spec'd as fixed adjustments,
// not tunables)
const (
	verifiedBoostFactor = 0.5  // Boost halfway toward the cap
	partialPenalty      = 0.10 // partially_correct
	cannotVerifyPenalty = 0.05 // cannot_verify / oracle failure
)

// Result is the batch output handed to the reporting collaborator:
// every signal in input order (verified and rejected, each tagged),
// aggregate stats, and the rejection log.
type Result struct {
	Company    string                 `json:"company,omitempty"`
	Signals    []model.ValidatedSignal `json:"signals"`
	Stats      model.ValidationStats  `json:"stats"`
	Rejections []model.RejectionEntry `json:"rejections,omitempty"`

	// Warning is set when the run completed but produced nothing
	// useful; the caller decides whether to retry extraction.
	Warning string `json:"warning,omitempty"`
}

// Pipeline runs validation batches. Safe to reuse across batches; all
// per-batch state lives in Run.
type Pipeline struct {
	cfg      *model.Config
	oracle   factcheck.Oracle
	verdicts cache.Cache
}

// NewPipeline creates a pipeline from configuration. A misconfigured
// oracle is reported but does not prevent the pipeline from running;
// fact checking then degrades to not_run.
func NewPipeline(cfg *model.Config) *Pipeline {
	var oracle factcheck.Oracle
	if cfg.FactCheck.Provider != "" {
		o, err := factcheck.NewOracle(factcheck.ConfigFromModel(cfg.FactCheck))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize fact-check oracle: %v\n", err)
		} else {
			oracle = o
		}
	}

	var verdicts cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			verdicts = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			verdicts = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*cfg.Cache.MemoryTTL)
		}
	}

	return &Pipeline{
		cfg:      cfg,
		oracle:   oracle,
		verdicts: verdicts,
	}
}

// Run validates one batch. It returns an error only for batch-level
// fatal conditions (no sources at all); per-signal failures are
// recovered locally and recorded in the result. Every signal reaches a
// terminal state even when ctx is cancelled mid-run.
func (p *Pipeline) Run(ctx context.Context, batch model.Batch) (*Result, error) {
	if len(batch.Sources) == 0 {
		return nil, fmt.Errorf("batch %q: %w", batch.Company, ErrNoSources)
	}

	sources := prepareSources(batch.Sources)
	index := model.Batch{Sources: sources}.SourceIndex()

	schema := validate.NewSchemaValidator(p.cfg)
	citation := validate.NewCitationValidator(index, p.cfg)
	confidence := validate.NewConfidenceFilter(p.cfg)
	crossRef := validate.NewCrossRefValidator(sources, p.cfg)

	signals := make([]model.ValidatedSignal, len(batch.Signals))

	// Stages 1-4 are pure and CPU-bound; they run sequentially per
	// signal. surviving maps fact-check input position back to the
	// signal's batch position.
	var surviving []int
	for i, raw := range batch.Signals {
		signals[i] = p.runPureStages(raw, schema, citation, confidence, crossRef)
		if !signals[i].Rejected() {
			surviving = append(surviving, i)
		}
	}

	// Stage 5: the only stage with external I/O
	p.runFactCheck(ctx, signals, surviving, index, confidence)

	// Finalize: everything not rejected is verified
	stats := model.NewValidationStats(len(batch.Signals), len(sources))
	var rejections []model.RejectionEntry
	for i := range signals {
		if signals[i].ValidationStatus == model.StatusPending {
			signals[i].ValidationStatus = model.StatusVerified
		}
		stats.Record(signals[i])
		if signals[i].Rejected() {
			rejections = append(rejections, model.RejectionEntry{
				SignalID: signals[i].ID,
				SourceID: signals[i].SourceID,
				Stage:    signals[i].RejectedAt,
				Reason:   signals[i].RejectionReason,
				Detail:   signals[i].RejectionDetail,
			})
		}
	}

	return &Result{
		Company:    batch.Company,
		Signals:    signals,
		Stats:      stats,
		Rejections: rejections,
		Warning:    warningFor(batch, sources, stats),
	}, nil
}

// runPureStages takes one candidate through schema, citation,
// confidence and cross-reference checking. Returns the signal in its
// post-stage-4 state: rejected (terminal) or pending with adjusted
// confidence.
func (p *Pipeline) runPureStages(
	raw model.CandidateSignal,
	schema *validate.SchemaValidator,
	citation *validate.CitationValidator,
	confidence *validate.ConfidenceFilter,
	crossRef *validate.CrossRefValidator,
) model.ValidatedSignal {
	// Stage 1: schema
	sig, clamped, rej := schema.Check(raw)
	out := model.ValidatedSignal{
		CandidateSignal:   sig,
		ValidationStatus:  model.StatusPending,
		Confidence:        sig.ModelConfidence,
		ConfidenceClamped: clamped,
		FactCheckStatus:   model.FactCheckNotRun,
	}
	if rej != nil {
		return rejected(out, model.StageSchemaChecked, rej)
	}

	// Stage 2: citation
	if rej := citation.Check(sig); rej != nil {
		return rejected(out, model.StageCitationChecked, rej)
	}

	// Stage 3: confidence filter (on model confidence, before any
	// adjustment)
	tier, rej := confidence.Check(sig)
	if rej != nil {
		return rejected(out, model.StageConfidenceChecked, rej)
	}
	out.ConfidenceTier = tier

	// Stage 4: cross-reference (adjusts, never rejects)
	xr := crossRef.Check(sig, out.Confidence)
	out.CorroboratingSourceIDs = xr.CorroboratingSourceIDs
	out.CorroborationCount = len(xr.CorroboratingSourceIDs)
	out.Confidence = confidence.Clamp(xr.Confidence)
	out.ConfidenceTier = confidence.Tier(out.Confidence)

	return out
}

// runFactCheck fans surviving signals out to the oracle and reconciles
// verdicts into confidence and terminal status. Results are re-joined
// by position, preserving input order regardless of completion order.
func (p *Pipeline) runFactCheck(
	ctx context.Context,
	signals []model.ValidatedSignal,
	surviving []int,
	index map[string]model.SourceRecord,
	confidence *validate.ConfidenceFilter,
) {
	if len(surviving) == 0 {
		return
	}

	checker := factcheck.NewChecker(p.oracle, index, p.verdicts, p.cfg.FactCheck)

	candidates := make([]model.CandidateSignal, len(surviving))
	for j, i := range surviving {
		candidates[j] = signals[i].CandidateSignal
	}

	outcomes := checker.VerifyAll(ctx, candidates)

	ceiling := p.cfg.Thresholds.Cap
	for j, i := range surviving {
		out := outcomes[j]
		sig := &signals[i]
		sig.FactCheckStatus = out.Status
		sig.FactCheckReasoning = out.Reasoning

		switch out.Status {
		case model.FactCheckVerified:
			sig.Confidence += (ceiling - sig.Confidence) * verifiedBoostFactor
		case model.FactCheckPartiallyCorrect:
			// Kept, with the verdict retained for transparency
			sig.Confidence -= partialPenalty
		case model.FactCheckIncorrect:
			// Overrides any prior confidence or corroboration
			rej := &validate.Rejection{
				Reason: model.RejectFactCheckFailed,
				Detail: out.Reasoning,
			}
			*sig = rejected(*sig, model.StageFactChecked, rej)
			continue
		case model.FactCheckCannotVerify:
			sig.Confidence -= cannotVerifyPenalty
		case model.FactCheckNotRun:
			// Oracle disabled: no adjustment
		}

		sig.Confidence = confidence.Clamp(sig.Confidence)
		sig.ConfidenceTier = confidence.Tier(sig.Confidence)
	}
}

// rejected moves a signal to the rejected terminal state, recording
// exactly one reason and the stage it fell at
func rejected(sig model.ValidatedSignal, stage model.Stage, rej *validate.Rejection) model.ValidatedSignal {
	sig.ValidationStatus = model.StatusRejected
	sig.RejectionReason = rej.Reason
	sig.RejectionDetail = rej.Detail
	sig.RejectedAt = stage
	sig.ConfidenceTier = ""
	return sig
}

// prepareSources derives the working copies of the batch's sources:
// HTML leftovers stripped, content hashes filled in. The caller's
// records are never mutated.
func prepareSources(in []model.SourceRecord) []model.SourceRecord {
	out := make([]model.SourceRecord, len(in))
	for i, src := range in {
		if src.RawText != "" && textutil.LooksLikeHTML(src.RawText) {
			src.RawText = textutil.StripHTML(src.RawText)
		}
		if src.TextHash == "" && src.RawText != "" {
			src.TextHash = model.HashText(src.RawText)
		}
		out[i] = src
	}
	return out
}

// warningFor distinguishes "nothing qualified" from "nothing could be
// attempted" so a zero-result run always explains itself
func warningFor(batch model.Batch, sources []model.SourceRecord, stats model.ValidationStats) string {
	if len(batch.Signals) == 0 {
		return "no candidate signals supplied; nothing to validate"
	}

	usable := 0
	for _, src := range sources {
		if src.HasText() {
			usable++
		}
	}
	if usable == 0 {
		return fmt.Sprintf("none of the %d sources carries usable text; all signals rejected as source_missing", len(sources))
	}

	if stats.Accepted == 0 {
		return fmt.Sprintf("no signals survived validation (%d rejected)", stats.Rejected)
	}
	return ""
}
