package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/pipeline"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <file.csv>",
	Short: "Convert one poll history export",
	Long: `Convert reads a poll history export and writes it in another format:
- Keep multiple choice activities (optionally from one presenter)
- Strip enumeration prefixes from titles and options
- Flag options marked "(Correct)" and optionally shuffle them
- Render the chosen format into the output directory

Example:
  pollev convert week1.csv --format tex
  pollev convert week1.csv -f html --quiz-mode -o ./site
  pollev convert week1.csv -f json --no-solutions --presenter alice`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addConversionFlags(convertCmd.Flags())
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := model.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Converting: %s\n", input)
		fmt.Fprintf(os.Stderr, "Format: %s\n", format)
		fmt.Fprintf(os.Stderr, "Output dir: %s\n", cfg.Output.Dir)
		fmt.Fprintf(os.Stderr, "Shuffle: %v, solutions: %v\n", cfg.Normalize.Shuffle, cfg.Output.ShowSolutions)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, componentLogger("convert"))
	if err != nil {
		return err
	}

	sink := pipeline.NewDirSink(cfg.Output.Dir)
	result, err := p.Convert(ctx, input, format, sink)
	if err != nil {
		return fmt.Errorf("convert failed: %w", err)
	}

	printResult(cmd, sink, result)
	return nil
}

// printResult reports one finished conversion on stderr
func printResult(cmd *cobra.Command, sink *pipeline.DirSink, result *pipeline.Result) {
	out := cmd.ErrOrStderr()

	for _, name := range result.Files {
		fmt.Fprintf(out, "✓ Wrote %s\n", sink.Path(name))
	}
	fmt.Fprintf(out, "  %d questions, %d correct options", result.Questions, result.Correct)
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintf(out, ", %d skipped", n)
	}
	if result.Hidden > 0 {
		fmt.Fprintf(out, ", %d hidden removed", result.Hidden)
	}
	if result.Images > 0 {
		fmt.Fprintf(out, ", %d with images removed", result.Images)
	}
	fmt.Fprintln(out)

	if verbose {
		for _, skip := range result.Skipped {
			fmt.Fprintf(out, "  - row %d %q: %s\n", skip.Row, skip.Title, skip.Reason)
		}
		fmt.Fprintf(out, "  %d rows filtered out, took %v\n", result.Filtered, result.Duration)
	}
}
