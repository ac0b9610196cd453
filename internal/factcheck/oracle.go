// Package factcheck runs the independent second-opinion verification
// pass: each surviving signal is sent, with its cited excerpt, to a
// verification oracle (a separate LLM invocation) whose verdict is
// reconciled with the signal's confidence by the orchestrator.
package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dlinden/factgate/internal/model"
)

// Oracle is the verification contract. Implementations are black
// boxes; the pipeline only depends on the four enumerated verdicts.
type Oracle interface {
	// Name returns the provider name
	Name() string

	// Verify checks one claim against its source excerpt
	Verify(ctx context.Context, req Request) (*Response, error)
}

// Request carries the claim under verification
type Request struct {
	Value         model.SignalValue
	VerbatimQuote string
	SourceExcerpt string
}

// Response is the oracle's verdict
type Response struct {
	Verdict   model.FactCheckStatus
	Reasoning string
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout per verification call
	TimeoutSeconds int

	// MaxTokens for the verdict response
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// verificationSystemPrompt primes the oracle to falsify, not confirm.
// The extraction pass already argued for the claim; this pass argues
// against it.
const verificationSystemPrompt = "You are a critical fact-checker. Be skeptical: assume claims are wrong unless the source text proves them right."

// BuildPrompt constructs the verification prompt. The oracle must
// answer with one of exactly four verdict strings; anything else is
// treated as cannot_verify by ParseVerdict.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`Verify whether the claim below is EXPLICITLY supported by the source text.

RULES:
1. Only confirm facts DIRECTLY STATED in the text.
2. Look for contradictions and inconsistencies.
3. If numbers do not match, the claim is incorrect.
4. If the text is too thin to decide, say so instead of guessing.

Source text:
`)
	b.WriteString(req.SourceExcerpt)
	b.WriteString("\n\nClaim to verify:\n")

	val := req.Value
	if val.Metric != "" {
		fmt.Fprintf(&b, "- Metric: %s\n", val.Metric)
	}
	if val.NumericValue != nil {
		fmt.Fprintf(&b, "- Value: %g %s\n", *val.NumericValue, val.Unit)
	}
	if val.Fact != "" {
		fmt.Fprintf(&b, "- Fact: %s\n", val.Fact)
	}
	if val.Period != "" {
		fmt.Fprintf(&b, "- Period: %s\n", val.Period)
	}
	if val.Region != "" {
		fmt.Fprintf(&b, "- Region: %s\n", val.Region)
	}
	fmt.Fprintf(&b, "- Quote: %q\n", req.VerbatimQuote)

	b.WriteString(`
Respond ONLY with valid JSON:
{"verdict": "verified" | "partially_correct" | "incorrect" | "cannot_verify", "reasoning": "one sentence"}
`)
	return b.String()
}

// oracleVerdict is the JSON shape every provider asks the model for
type oracleVerdict struct {
	Verdict   string `json:"verdict"`
	Reasoning string `json:"reasoning"`
}

// ParseResponse decodes the model's JSON answer into a Response. A
// malformed answer or an out-of-contract verdict degrades to
// cannot_verify rather than failing the call.
func ParseResponse(raw string) *Response {
	raw = strings.TrimSpace(raw)

	// Models occasionally wrap JSON in a code fence
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var v oracleVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return &Response{
			Verdict:   model.FactCheckCannotVerify,
			Reasoning: "unparseable oracle response",
		}
	}
	return &Response{
		Verdict:   ParseVerdict(v.Verdict),
		Reasoning: strings.TrimSpace(v.Reasoning),
	}
}

// ParseVerdict maps a verdict string to the enumerated contract.
// The contract requires exactly four values; anything else is
// cannot_verify.
func ParseVerdict(s string) model.FactCheckStatus {
	switch model.FactCheckStatus(strings.ToLower(strings.TrimSpace(s))) {
	case model.FactCheckVerified:
		return model.FactCheckVerified
	case model.FactCheckPartiallyCorrect:
		return model.FactCheckPartiallyCorrect
	case model.FactCheckIncorrect:
		return model.FactCheckIncorrect
	default:
		return model.FactCheckCannotVerify
	}
}
