// Package report shapes pipeline results for the reporting
// collaborator: a grouped summary plus JSON emission. Rendering beyond
// that (documents, UI) is out of scope.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/pipeline"
)

// Summary is the aggregate view of one validated batch
type Summary struct {
	Company     string    `json:"company,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalSources  int `json:"total_sources"`
	TotalSignals  int `json:"total_signals"`
	Verified      int `json:"verified_signals"`
	Rejected      int `json:"rejected_signals"`

	MetricsCovered int            `json:"metrics_covered"`
	Regions        map[string]int `json:"regions,omitempty"`

	RejectionRate float64                         `json:"rejection_rate"`
	ByReason      map[model.RejectionReason]int   `json:"rejections_by_reason,omitempty"`
	ByTier        map[model.ConfidenceTier]int    `json:"tier_distribution,omitempty"`
	ByVerdict     map[model.FactCheckStatus]int   `json:"fact_check_verdicts,omitempty"`

	Warning string `json:"warning,omitempty"`
}

// Report is the full JSON artifact: summary, signals grouped by
// metric, the flat signal list and the rejection log
type Report struct {
	Summary         Summary                             `json:"summary"`
	SignalsByMetric map[string][]model.ValidatedSignal `json:"signals_by_metric,omitempty"`
	Signals         []model.ValidatedSignal            `json:"signals"`
	Rejections      []model.RejectionEntry             `json:"rejections,omitempty"`
}

// Build assembles the report from a pipeline result. When
// includeRejected is false, rejected signals appear only in the
// rejection log, not in the signal list.
func Build(res *pipeline.Result, includeRejected bool) Report {
	summary := Summary{
		Company:       res.Company,
		GeneratedAt:   time.Now().UTC(),
		TotalSources:  res.Stats.TotalSources,
		TotalSignals:  res.Stats.TotalSignals,
		Verified:      res.Stats.Accepted,
		Rejected:      res.Stats.Rejected,
		Regions:       make(map[string]int),
		RejectionRate: res.Stats.RejectionRate,
		ByReason:      res.Stats.RejectionsByReason,
		ByTier:        res.Stats.TierDistribution,
		ByVerdict:     res.Stats.FactCheckVerdicts,
		Warning:       res.Warning,
	}

	byMetric := make(map[string][]model.ValidatedSignal)
	var signals []model.ValidatedSignal
	for _, sig := range res.Signals {
		if sig.Rejected() {
			if includeRejected {
				signals = append(signals, sig)
			}
			continue
		}
		signals = append(signals, sig)

		metric := sig.Value.Metric
		if metric == "" {
			metric = string(sig.Type)
		}
		byMetric[metric] = append(byMetric[metric], sig)

		region := sig.Value.Region
		if region == "" {
			region = "unknown"
		}
		summary.Regions[region]++
	}
	summary.MetricsCovered = len(byMetric)

	return Report{
		Summary:         summary,
		SignalsByMetric: byMetric,
		Signals:         signals,
		Rejections:      res.Rejections,
	}
}

// WriteJSON writes the report to path, or to stdout when path is "-"
func WriteJSON(rep Report, path string, pretty bool) error {
	var out io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderSummary prints a short human-readable digest to w
func RenderSummary(w io.Writer, rep Report) {
	s := rep.Summary
	fmt.Fprintf(w, "\n")
	if s.Company != "" {
		fmt.Fprintf(w, "Company:        %s\n", s.Company)
	}
	fmt.Fprintf(w, "Sources:        %d\n", s.TotalSources)
	fmt.Fprintf(w, "Signals:        %d in, %d verified, %d rejected (%.0f%% rejection rate)\n",
		s.TotalSignals, s.Verified, s.Rejected, s.RejectionRate*100)

	if len(s.ByTier) > 0 {
		fmt.Fprintf(w, "Tiers:          ")
		for i, tier := range []model.ConfidenceTier{model.TierVerified, model.TierHigh, model.TierMedium} {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%s=%d", tier, s.ByTier[tier])
		}
		fmt.Fprintf(w, "\n")
	}

	if len(s.ByReason) > 0 {
		reasons := make([]string, 0, len(s.ByReason))
		for r := range s.ByReason {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		fmt.Fprintf(w, "Rejections:     ")
		for i, r := range reasons {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%s=%d", r, s.ByReason[model.RejectionReason(r)])
		}
		fmt.Fprintf(w, "\n")
	}

	if s.Warning != "" {
		fmt.Fprintf(w, "⚠️  %s\n", s.Warning)
	}
	fmt.Fprintf(w, "\n")
}
