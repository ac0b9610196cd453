package model

// ValidationStats aggregates the outcome of one batch run. Derived and
// read-only; recomputed per run.
type ValidationStats struct {
	TotalSignals int `json:"total_signals"`
	TotalSources int `json:"total_sources"`
	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`

	// RejectionRate = Rejected / TotalSignals (0 when the batch is empty)
	RejectionRate float64 `json:"rejection_rate"`

	RejectionsByReason map[RejectionReason]int `json:"rejections_by_reason,omitempty"`
	RejectionsByStage  map[Stage]int           `json:"rejections_by_stage,omitempty"`

	TierDistribution          map[ConfidenceTier]int  `json:"tier_distribution,omitempty"`
	CorroborationDistribution map[int]int             `json:"corroboration_distribution,omitempty"`
	FactCheckVerdicts         map[FactCheckStatus]int `json:"fact_check_verdicts,omitempty"`
}

// NewValidationStats creates an empty stats object with all maps ready
func NewValidationStats(totalSignals, totalSources int) ValidationStats {
	return ValidationStats{
		TotalSignals:              totalSignals,
		TotalSources:              totalSources,
		RejectionsByReason:        make(map[RejectionReason]int),
		RejectionsByStage:         make(map[Stage]int),
		TierDistribution:          make(map[ConfidenceTier]int),
		CorroborationDistribution: make(map[int]int),
		FactCheckVerdicts:         make(map[FactCheckStatus]int),
	}
}

// Record folds one terminal signal into the aggregate
func (s *ValidationStats) Record(sig ValidatedSignal) {
	if sig.Rejected() {
		s.Rejected++
		s.RejectionsByReason[sig.RejectionReason]++
		if sig.RejectedAt != "" {
			s.RejectionsByStage[sig.RejectedAt]++
		}
	} else {
		s.Accepted++
		if sig.ConfidenceTier != "" {
			s.TierDistribution[sig.ConfidenceTier]++
		}
		s.CorroborationDistribution[sig.CorroborationCount]++
	}
	if sig.FactCheckStatus != "" && sig.FactCheckStatus != FactCheckNotRun {
		s.FactCheckVerdicts[sig.FactCheckStatus]++
	}
	if s.TotalSignals > 0 {
		s.RejectionRate = float64(s.Rejected) / float64(s.TotalSignals)
	}
}

// RejectionEntry is one line of the rejection log handed to the
// reporting collaborator for transparency.
type RejectionEntry struct {
	SignalID string          `json:"signal_id"`
	SourceID string          `json:"source_id,omitempty"`
	Stage    Stage           `json:"stage"`
	Reason   RejectionReason `json:"reason"`
	Detail   string          `json:"detail,omitempty"`
}
