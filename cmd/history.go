package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/taskreview/internal/output"
	"github.com/joescharf/taskreview/internal/store"
)

var (
	historyLimit  int
	historyTask   string
	historyStatus string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListRun()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyShowRun(args[0])
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of reviews")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "Filter by task id")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Filter by status (pass, borderline, fail)")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	historyShowCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyStore() (store.Store, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("review history is disabled (set history.enabled: true)")
	}
	return s, nil
}

func historyListRun() error {
	s, err := historyStore()
	if err != nil {
		return err
	}

	reviews, err := s.ListReviews(commandContext(), store.ReviewFilter{
		SubmissionID: historyTask,
		Status:       historyStatus,
		Limit:        historyLimit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(reviews)
	}

	if len(reviews) == 0 {
		ui.Info("No reviews recorded")
		return nil
	}

	table := ui.Table([]string{"ID", "Task", "Title", "Score", "Status", "Next Task", "Created"})
	for _, r := range reviews {
		table.Append([]string{
			r.ID,
			r.SubmissionID,
			truncate(r.Title, 30),
			output.ScoreColor(r.Score),
			output.StatusColor(r.Status),
			truncate(r.NextTaskTitle, 30),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.Render()
}

func historyShowRun(id string) error {
	s, err := historyStore()
	if err != nil {
		return err
	}

	r, err := s.GetReview(commandContext(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Review"), r.ID)
	fmt.Fprintf(ui.Out, "  Task:       %s (%s)\n", r.Title, r.SubmissionID)
	fmt.Fprintf(ui.Out, "  Submitted:  %s\n", r.SubmittedBy)
	fmt.Fprintf(ui.Out, "  Score:      %s/100 (readiness %d%%)\n", output.ScoreColor(r.Score), r.ReadinessPercent)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(r.Status))
	fmt.Fprintf(ui.Out, "  Analysis:   technical %d, clarity %d, discipline %d\n",
		r.Analysis.TechnicalQuality, r.Analysis.Clarity, r.Analysis.DisciplineSignals)
	if r.NextTaskTitle != "" {
		fmt.Fprintf(ui.Out, "  Next task:  %s [%s]\n", r.NextTaskTitle, r.NextTaskDifficulty)
	}
	if len(r.FailureReasons) > 0 {
		fmt.Fprintf(ui.Out, "  Reasons:    %s\n", strings.Join(r.FailureReasons, "; "))
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
