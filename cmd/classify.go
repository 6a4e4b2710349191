package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joescharf/taskreview/internal/scoring"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <score>",
	Short: "Classify a score into a readiness band",
	Long: `Classify a score into a readiness band (PASS >= 80, BORDERLINE >= 50,
FAIL otherwise). Scores outside 0-100 are clamped before classification.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return classifyRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func classifyRun(arg string) error {
	score, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("score must be an integer, got %q", arg)
	}

	band := scoring.ClassifyReadiness(score)
	fmt.Fprintf(ui.Out, "%s\n", band)
	ui.VerboseLog("PASS >= %d, BORDERLINE >= %d", scoring.PassThreshold, scoring.BorderlineThreshold)
	return nil
}
