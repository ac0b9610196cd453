package model

// SignalType categorizes the nature of the claim
type SignalType string

const (
	SignalTypeFinancial      SignalType = "financial"      // Revenue, growth figures
	SignalTypeEcommerce      SignalType = "ecommerce"      // Online channel activity
	SignalTypeMarketplace    SignalType = "marketplace"    // Amazon, Zalando, etc.
	SignalTypeRetailMedia    SignalType = "retail_media"   // Retail media spend
	SignalTypeD2C            SignalType = "d2c"            // Direct-to-consumer
	SignalTypePartnership    SignalType = "partnership"    // Commercial partnerships
	SignalTypeProduct        SignalType = "product"        // Product launches
	SignalTypeStrategy       SignalType = "strategy"       // Strategic announcements
	SignalTypeLeadership     SignalType = "leadership"     // Hires, org changes
	SignalTypeSustainability SignalType = "sustainability" // ESG activity
	SignalTypeMarkets        SignalType = "markets"        // Regional market activity
	SignalTypeRisks          SignalType = "risks"          // Risk disclosures
)

// ValueKind discriminates the two claim payload variants
type ValueKind string

const (
	ValueKindNumeric     ValueKind = "numeric_metric"   // Metric + number + unit
	ValueKindQualitative ValueKind = "qualitative_fact" // Free-form factual statement
)

// SignalValue is the structured payload of a claim. A value is either a
// numeric metric (NumericValue set, Unit required) or a qualitative fact
// (Fact text only); Kind() tells them apart.
type SignalValue struct {
	Headline     string   `json:"headline,omitempty"`
	Fact         string   `json:"fact,omitempty"`
	Metric       string   `json:"metric,omitempty"`
	NumericValue *float64 `json:"numeric_value,omitempty"`
	Unit         string   `json:"unit,omitempty"` // %, EUR, Mio. EUR, ...
	Period       string   `json:"period,omitempty"`
	Region       string   `json:"region,omitempty"`
	Topic        string   `json:"topic,omitempty"`
}

// Kind returns which variant of the tagged union this value is
func (v SignalValue) Kind() ValueKind {
	if v.NumericValue != nil {
		return ValueKindNumeric
	}
	return ValueKindQualitative
}

// CandidateSignal is one LLM-proposed claim as received from the
// extraction collaborator. Candidates are never mutated; every stage
// produces derived state on the ValidatedSignal instead.
type CandidateSignal struct {
	ID              string      `json:"id,omitempty"` // Assigned during schema validation if absent
	SourceID        string      `json:"source_id"`
	Type            SignalType  `json:"type"`
	Value           SignalValue `json:"value"`
	VerbatimQuote   string      `json:"verbatim_quote"`
	ModelConfidence float64     `json:"model_confidence"`
}

// ValidationStatus is the terminal disposition of a signal
type ValidationStatus string

const (
	StatusPending  ValidationStatus = "pending"
	StatusVerified ValidationStatus = "verified"
	StatusRejected ValidationStatus = "rejected"
)

// RejectionReason is the terminal cause recorded when a signal fails a
// validation stage. Exactly one reason is recorded per rejected signal.
type RejectionReason string

const (
	RejectSchemaInvalid   RejectionReason = "schema_invalid"
	RejectSourceMissing   RejectionReason = "source_missing"
	RejectQuoteNotFound   RejectionReason = "quote_not_found"
	RejectNumericMismatch RejectionReason = "numeric_mismatch"
	RejectLowConfidence   RejectionReason = "low_confidence"
	RejectFactCheckFailed RejectionReason = "fact_check_failed"
)

// ConfidenceTier is the discrete bucket derived from the confidence score
type ConfidenceTier string

const (
	TierVerified ConfidenceTier = "verified" // >= 0.90
	TierHigh     ConfidenceTier = "high"     // >= 0.80
	TierMedium   ConfidenceTier = "medium"   // >= 0.70
)

// FactCheckStatus is the verdict from the independent verification pass
type FactCheckStatus string

const (
	FactCheckVerified         FactCheckStatus = "verified"
	FactCheckPartiallyCorrect FactCheckStatus = "partially_correct"
	FactCheckIncorrect        FactCheckStatus = "incorrect"
	FactCheckCannotVerify     FactCheckStatus = "cannot_verify"
	FactCheckNotRun           FactCheckStatus = "not_run"
)

// Stage identifies a position in the per-signal state machine.
// Transitions are strictly forward; any stage may jump to rejected.
type Stage string

const (
	StageReceived          Stage = "received"
	StageSchemaChecked     Stage = "schema_checked"
	StageCitationChecked   Stage = "citation_checked"
	StageConfidenceChecked Stage = "confidence_checked"
	StageCrossReferenced   Stage = "cross_referenced"
	StageFactChecked       Stage = "fact_checked"
)

// ValidatedSignal is the terminal representation of a candidate after
// the pipeline finishes. Immutable once the batch run returns.
type ValidatedSignal struct {
	CandidateSignal

	ValidationStatus ValidationStatus `json:"validation_status"`
	RejectionReason  RejectionReason  `json:"rejection_reason,omitempty"`
	RejectionDetail  string           `json:"rejection_detail,omitempty"`
	RejectedAt       Stage            `json:"rejected_at,omitempty"`

	// Pipeline-adjusted confidence, always within [0, cap]
	Confidence     float64        `json:"confidence"`
	ConfidenceTier ConfidenceTier `json:"confidence_tier,omitempty"`

	// True when ModelConfidence exceeded the cap and was clamped
	ConfidenceClamped bool `json:"confidence_clamped,omitempty"`

	CorroborationCount     int      `json:"corroboration_count"`
	CorroboratingSourceIDs []string `json:"corroborating_source_ids,omitempty"`

	FactCheckStatus    FactCheckStatus `json:"fact_check_status"`
	FactCheckReasoning string          `json:"fact_check_reasoning,omitempty"`
}

// Rejected reports whether the signal reached the rejected terminal state
func (s ValidatedSignal) Rejected() bool {
	return s.ValidationStatus == StatusRejected
}

// Batch is the input envelope for one analysis run: the candidate
// signals plus the source set they reference.
type Batch struct {
	Company string            `json:"company,omitempty"`
	Sources []SourceRecord    `json:"sources"`
	Signals []CandidateSignal `json:"signals"`
}

// SourceIndex builds an id -> record lookup over the batch's sources.
// Sources without text are indexed too; the citation stage decides how
// to treat them.
func (b Batch) SourceIndex() map[string]SourceRecord {
	idx := make(map[string]SourceRecord, len(b.Sources))
	for _, src := range b.Sources {
		if src.ID != "" {
			idx[src.ID] = src
		}
	}
	return idx
}
