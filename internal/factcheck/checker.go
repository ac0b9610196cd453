package factcheck

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dlinden/factgate/internal/cache"
	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/textutil"
	"golang.org/x/time/rate"
)

// Outcome is the checker's result for one signal. A nil oracle, an
// errored call or a cancelled batch all surface as cannot_verify; the
// checker never fails a signal outright, reconciliation is the
// orchestrator's job.
type Outcome struct {
	Status    model.FactCheckStatus `json:"status"`
	Reasoning string                `json:"reasoning,omitempty"`
	FromCache bool                  `json:"-"`
}

// Checker fans verification calls out to the oracle under a bounded
// concurrency limit with a per-call timeout and a global rate limit.
// Results are re-joined by input position, never by completion order.
type Checker struct {
	oracle      Oracle
	sources     map[string]model.SourceRecord
	verdicts    cache.Cache // nil disables caching
	limiter     *rate.Limiter
	maxWorkers  int
	callTimeout time.Duration
	maxExcerpt  int
	cacheTTL    time.Duration
}

// NewChecker creates a checker. oracle may be nil, in which case every
// signal is marked not_run.
func NewChecker(oracle Oracle, sources map[string]model.SourceRecord, verdicts cache.Cache, cfg model.FactCheckConfig) *Checker {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}
	maxExcerpt := cfg.MaxExcerptChars
	if maxExcerpt <= 0 {
		maxExcerpt = 4000
	}

	return &Checker{
		oracle:      oracle,
		sources:     sources,
		verdicts:    verdicts,
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		maxWorkers:  workers,
		callTimeout: timeout,
		maxExcerpt:  maxExcerpt,
		cacheTTL:    7 * 24 * time.Hour,
	}
}

// Enabled reports whether an oracle is configured
func (c *Checker) Enabled() bool {
	return c != nil && c.oracle != nil
}

// VerifyAll verifies a slice of signals concurrently. The returned
// slice is index-aligned with the input. Cancellation of ctx abandons
// in-flight calls; affected signals come back cannot_verify so every
// signal still reaches a terminal state.
func (c *Checker) VerifyAll(ctx context.Context, signals []model.CandidateSignal) []Outcome {
	outcomes := make([]Outcome, len(signals))
	if len(signals) == 0 {
		return outcomes
	}

	if !c.Enabled() {
		for i := range outcomes {
			outcomes[i] = Outcome{Status: model.FactCheckNotRun}
		}
		return outcomes
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, sig := range signals {
		wg.Add(1)
		go func(idx int, s model.CandidateSignal) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				outcomes[idx] = Outcome{
					Status:    model.FactCheckCannotVerify,
					Reasoning: "batch cancelled before verification",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			outcomes[idx] = c.verifyOne(ctx, s)
		}(i, sig)
	}

	wg.Wait()
	return outcomes
}

// verifyOne verifies a single signal, consulting the verdict cache
// first
func (c *Checker) verifyOne(ctx context.Context, sig model.CandidateSignal) Outcome {
	src, ok := c.sources[sig.SourceID]
	if !ok || !src.HasText() {
		// Citation validation guarantees this does not happen for
		// surviving signals; degrade rather than trust.
		return Outcome{Status: model.FactCheckCannotVerify, Reasoning: "source text not available"}
	}

	key := c.cacheKey(sig, src)
	if c.verdicts != nil {
		if data, found := c.verdicts.Get(key); found {
			var cached Outcome
			if err := json.Unmarshal(data, &cached); err == nil && cached.Status != "" {
				cached.FromCache = true
				return cached
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Outcome{Status: model.FactCheckCannotVerify, Reasoning: "batch cancelled before verification"}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp, err := c.oracle.Verify(callCtx, Request{
		Value:         sig.Value,
		VerbatimQuote: sig.VerbatimQuote,
		SourceExcerpt: textutil.Truncate(src.RawText, c.maxExcerpt),
	})
	if err != nil {
		// Oracle unavailability degrades trust, it is not proof of
		// falsity and never aborts the batch.
		return Outcome{
			Status:    model.FactCheckCannotVerify,
			Reasoning: "oracle unavailable: " + textutil.Truncate(err.Error(), 120),
		}
	}

	outcome := Outcome{Status: resp.Verdict, Reasoning: resp.Reasoning}
	if c.verdicts != nil {
		if data, err := json.Marshal(outcome); err == nil {
			_ = c.verdicts.Set(key, data, c.cacheTTL)
		}
	}
	return outcome
}

// cacheKey keys a verdict by the claim content and the source text
// identity, so a changed source invalidates old verdicts
func (c *Checker) cacheKey(sig model.CandidateSignal, src model.SourceRecord) string {
	value, _ := json.Marshal(sig.Value)
	textHash := src.TextHash
	if textHash == "" {
		textHash = model.HashShort(src.RawText)
	}
	return cache.Key(sig.VerbatimQuote + "|" + string(value) + "|" + textHash)
}
