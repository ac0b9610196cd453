package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/pipeline"
	"github.com/dlinden/factgate/internal/report"
	"github.com/dlinden/factgate/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outJSON         string
	runTimeout      time.Duration
	oracleProvider  string
	oracleModel     string
	oracleTimeout   time.Duration
	oracleWorkers   int
	fuzzyThreshold  float64
	minConfidence   float64
	noCache         bool
	excludeRejected bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <batch.json>",
	Short: "Validate one batch of extracted signals against its sources",
	Long: `Validate runs the full anti-hallucination pipeline over one batch
envelope (a JSON file with the scraped sources and the LLM-extracted
candidate signals):

- Schema check: malformed candidates are rejected up front
- Citation check: the verbatim quote and any asserted figure must
  occur, fuzzily, in the cited source's text
- Confidence filter: candidates below the admission threshold drop out
- Cross-reference: corroboration across the batch's other sources
  adjusts confidence up or down
- Fact-check: an independent oracle pass; "incorrect" verdicts reject
  the signal regardless of prior confidence

The output report carries every signal (verified and rejected), the
aggregate statistics and the rejection log.

Example:
  factgate validate batch.json
  factgate validate batch.json --json report.json --oracle openai
  factgate validate batch.json --oracle ollama --oracle-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	// Output flags
	validateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (\"-\" for stdout)")
	validateCmd.Flags().BoolVar(&excludeRejected, "exclude-rejected", false, "keep rejected signals out of the report's signal list")

	// Pipeline flags
	validateCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall validation timeout")
	validateCmd.Flags().Float64Var(&fuzzyThreshold, "fuzzy-threshold", 0, "citation similarity cutoff (0 = configured default)")
	validateCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "admission threshold (0 = configured default)")
	validateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check verdict cache")

	// Oracle flags
	validateCmd.Flags().StringVar(&oracleProvider, "oracle", "", "fact-check oracle provider (openai, anthropic, ollama; empty = disabled)")
	validateCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	validateCmd.Flags().DurationVar(&oracleTimeout, "oracle-timeout", 30*time.Second, "timeout per oracle call")
	validateCmd.Flags().IntVar(&oracleWorkers, "oracle-workers", 4, "concurrent oracle calls")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	batch, err := worker.ReadBatchFile(path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Validating: %s (%d sources, %d signals)\n",
			path, len(batch.Sources), len(batch.Signals))
		if cfg.FactCheck.Provider != "" {
			fmt.Fprintf(os.Stderr, "Oracle:     %s/%s\n", cfg.FactCheck.Provider, cfg.FactCheck.Model)
		}
	}

	p := pipeline.NewPipeline(cfg)
	result, err := p.Run(ctx, batch)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoSources) {
			return fmt.Errorf("batch cannot be validated: %w", err)
		}
		return err
	}

	rep := report.Build(result, cfg.Output.IncludeRejected)
	if err := report.WriteJSON(rep, outJSON, cfg.Output.PrettyJSON); err != nil {
		return err
	}
	if verbose && outJSON != "" && outJSON != "-" {
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outJSON)
	}

	report.RenderSummary(os.Stderr, rep)
	return nil
}

// buildConfig merges defaults, config file values and CLI flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if fuzzyThreshold > 0 {
		cfg.Citation.FuzzyThreshold = fuzzyThreshold
	}
	if minConfidence > 0 {
		cfg.Thresholds.Medium = minConfidence
	}
	cfg.Cache.Enabled = !noCache
	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".factgate", "cache")
		}
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeRejected = !excludeRejected

	if oracleProvider != "" {
		cfg.FactCheck.Provider = oracleProvider
		cfg.FactCheck.Model = oracleModel
		cfg.FactCheck.Timeout = oracleTimeout
		cfg.FactCheck.Workers = oracleWorkers

		switch oracleProvider {
		case "openai":
			cfg.FactCheck.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.FactCheck.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.FactCheck.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.FactCheck.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.FactCheck.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
