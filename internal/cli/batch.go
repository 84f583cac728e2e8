package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/pollev/internal/cache"
	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/pipeline"
	"github.com/ppiankov/pollev/internal/worker"
)

var (
	batchFormats []string
	batchList    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file.csv...]",
	Short: "Convert many exports to many formats in parallel",
	Long: `Batch converts every input file to every requested format:
- Inputs come from arguments and/or a list file (one path per line)
- Conversions run in parallel with a configurable worker count
- Each input is read and decoded once and shared between its formats

Example:
  pollev batch week*.csv --formats tex,html,json
  pollev batch --list inputs.txt --formats md --concurrency 8 -o ./out`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addConversionFlags(batchCmd.Flags())

	d := model.DefaultConfig()
	batchCmd.Flags().StringSliceVar(&batchFormats, "formats", nil, "formats to produce (default: the configured output format)")
	batchCmd.Flags().Int("concurrency", d.Batch.Workers, "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchList, "list", "", "file listing input paths, one per line")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("batch.workers", cmd.Flags().Lookup("concurrency")); err != nil {
		return fmt.Errorf("bind flag --concurrency: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inputs := append([]string(nil), args...)
	if batchList != "" {
		listed, err := worker.ReadInputsFromFile(batchList)
		if err != nil {
			return fmt.Errorf("read input list: %w", err)
		}
		inputs = append(inputs, listed...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files (pass paths or --list)")
	}

	names := batchFormats
	if len(names) == 0 {
		names = []string{cfg.Output.Format}
	}
	formats, err := parseFormats(names)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Pollev Batch Conversion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Inputs:       %d\n", len(inputs))
	fmt.Fprintf(os.Stderr, "  Formats:      %v\n", formats)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Batch.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.NewPipeline(cfg, componentLogger("batch"))
	if err != nil {
		return err
	}
	inputCache := cache.NewMemoryCache(pipeline.InputCacheTTL, time.Minute)
	p.WithCache(inputCache)

	sink := pipeline.NewDirSink(cfg.Output.Dir)
	processor := worker.NewBatchProcessor(p, sink, cfg.Batch.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Processing %d conversions with %d workers...\n\n", len(inputs)*len(formats), cfg.Batch.Workers)
	results := processor.Process(ctx, inputs, formats)

	successCount := 0
	failureCount := 0
	questions := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s [%s]: %v\n", result.Input, result.Format, result.Error)
			continue
		}

		successCount++
		questions += result.Result.Questions
		fmt.Fprintf(os.Stderr, "✓ %s [%s] → %s (%d questions)\n",
			result.Input, result.Format, sink.Path(result.Result.Files[0]), result.Result.Questions)
		for _, skip := range result.Result.Skipped {
			logger.Warn().Str("input", result.Input).Int("row", skip.Row).Str("reason", skip.Reason).Msg("row skipped")
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d conversions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Questions: %d\n", questions)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d conversions failed", failureCount, len(results))
	}
	return nil
}

// parseFormats resolves format names, rejecting duplicates and formats
// that would write the same file name for one input
func parseFormats(names []string) ([]model.Format, error) {
	var formats []model.Format
	byExt := make(map[string]model.Format)

	for _, name := range names {
		format, err := model.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		ext := format.Extension()
		if prev, ok := byExt[ext]; ok {
			if prev == format {
				continue
			}
			return nil, fmt.Errorf("formats %s and %s both write %s files", prev, format, ext)
		}
		byExt[ext] = format
		formats = append(formats, format)
	}
	return formats, nil
}
