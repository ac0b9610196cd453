package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dlinden/factgate/internal/pipeline"
	"github.com/dlinden/factgate/internal/report"
	"github.com/dlinden/factgate/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <batch.json>...",
	Short: "Validate multiple batch files in parallel",
	Long: `Batch validates several batch envelopes concurrently:
- Each file is one independent pipeline run
- Worker count caps how many batches run at once
- One report per input file is written to the output directory
- A failing file is reported and never aborts the others

Example:
  factgate batch runs/*.json
  factgate batch a.json b.json --concurrency 2 --output-dir ./reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent batch runs")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factgate-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for all batches")

	// Oracle flags shared with validate
	batchCmd.Flags().StringVar(&oracleProvider, "oracle", "", "fact-check oracle provider (openai, anthropic, ollama; empty = disabled)")
	batchCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check verdict cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Validating %d batch files with %d workers\n", len(args), concurrency)

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessFiles(ctx, args)

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}

		rep := report.Build(res.Result, cfg.Output.IncludeRejected)
		outPath := filepath.Join(outputDir, reportName(res.Path))
		if err := report.WriteJSON(rep, outPath, cfg.Output.PrettyJSON); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %d verified, %d rejected → %s\n",
			res.Path, res.Result.Stats.Accepted, res.Result.Stats.Rejected, outPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d batches failed", failed, len(results))
	}
	return nil
}

// reportName derives the report filename from the input path
func reportName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".report.json"
}
