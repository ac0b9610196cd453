package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dlinden/factgate/internal/model"
	"github.com/dlinden/factgate/internal/pipeline"
)

// Runner defines the interface for validating one batch envelope
type Runner interface {
	Run(ctx context.Context, batch model.Batch) (*pipeline.Result, error)
}

// ValidateJob validates one batch file
type ValidateJob struct {
	Path   string
	Runner Runner
}

// Execute executes the validation job
func (j *ValidateJob) Execute(ctx context.Context) Result {
	batch, err := ReadBatchFile(j.Path)
	if err != nil {
		return &ValidateResult{Path: j.Path, Error: err}
	}

	result, err := j.Runner.Run(ctx, batch)
	if err != nil {
		return &ValidateResult{Path: j.Path, Error: err}
	}
	return &ValidateResult{Path: j.Path, Result: result}
}

// ValidateResult represents the outcome for one batch file
type ValidateResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the validation result
func (r *ValidateResult) GetError() error {
	return r.Error
}

// BatchProcessor validates multiple batch files concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFiles validates multiple batch files concurrently. Each file
// is one independent pipeline run; a failing file never aborts the
// others.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*ValidateResult {
	if len(paths) == 0 {
		return []*ValidateResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ValidateJob{
			Path:   path,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	validateResults := make([]*ValidateResult, len(results))
	for i, result := range results {
		validateResults[i] = result.(*ValidateResult)
	}
	return validateResults
}

// ReadBatchFile loads and structurally checks one batch envelope. A
// malformed envelope is a batch-level fatal condition, reported to the
// caller rather than silently producing an empty result.
func ReadBatchFile(path string) (model.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("read batch file: %w", err)
	}

	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return model.Batch{}, fmt.Errorf("malformed batch envelope %s: %w", path, err)
	}
	return batch, nil
}
