package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/pipeline"
)

// Converter defines the interface for converting one input to one format
type Converter interface {
	Convert(ctx context.Context, input string, format model.Format, sink pipeline.Sink) (*pipeline.Result, error)
}

// ConvertJob converts one input file to one format
type ConvertJob struct {
	Index     int // Position in the batch, used to restore submission order
	Input     string
	Format    model.Format
	Converter Converter
	Sink      pipeline.Sink
}

// Execute executes the conversion job
func (j *ConvertJob) Execute(ctx context.Context) Result {
	out := &ConvertResult{Index: j.Index, Input: j.Input, Format: j.Format}
	if err := ctx.Err(); err != nil {
		out.Error = err
		return out
	}
	out.Result, out.Error = j.Converter.Convert(ctx, j.Input, j.Format, j.Sink)
	return out
}

// ConvertResult represents the result of a conversion job
type ConvertResult struct {
	Index  int
	Input  string
	Format model.Format
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the conversion result
func (r *ConvertResult) GetError() error {
	return r.Error
}

// BatchProcessor converts many (input, format) pairs concurrently
type BatchProcessor struct {
	converter   Converter
	sink        pipeline.Sink
	concurrency int
}

// NewBatchProcessor creates a new batch processor writing every output to sink
func NewBatchProcessor(converter Converter, sink pipeline.Sink, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		converter:   converter,
		sink:        sink,
		concurrency: concurrency,
	}
}

// Process converts every input to every format. Results come back in
// input-major order regardless of completion order. Jobs that never ran
// because ctx was cancelled carry the context error.
func (b *BatchProcessor) Process(ctx context.Context, inputs []string, formats []model.Format) []*ConvertResult {
	if len(inputs) == 0 || len(formats) == 0 {
		return []*ConvertResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	var jobs []*ConvertJob
	for _, input := range inputs {
		for _, format := range formats {
			jobs = append(jobs, &ConvertJob{
				Index:     len(jobs),
				Input:     input,
				Format:    format,
				Converter: b.converter,
				Sink:      b.sink,
			})
		}
	}

	cancelled := false
	for _, job := range jobs {
		if !pool.Submit(job) {
			cancelled = true
			break
		}
	}

	var finished []Result
	if cancelled {
		finished = pool.Shutdown()
	} else {
		finished = pool.Wait()
	}

	results := make([]*ConvertResult, 0, len(jobs))
	for _, r := range finished {
		results = append(results, r.(*ConvertResult))
	}

	// Queued jobs may be dropped on cancellation; report them too
	seen := make(map[int]bool, len(results))
	for _, r := range results {
		seen[r.Index] = true
	}
	for _, job := range jobs {
		if !seen[job.Index] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results = append(results, &ConvertResult{Index: job.Index, Input: job.Input, Format: job.Format, Error: err})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ReadInputsFromFile reads input paths from a list file (one per line).
// Blank lines and "#" comments are skipped and duplicates dropped. Relative
// paths are resolved against the list file's directory.
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	dir := filepath.Dir(filePath)

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
