package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pollev/internal/model"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, f := range model.Formats {
			fmt.Fprintf(out, "  %-12s %-7s %s\n", f, f.Extension(), f.Description())
		}
		fmt.Fprintf(out, "\nAliases: md → markdown, yml → yaml, text → txt, latex → tex\n")
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
