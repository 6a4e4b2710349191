package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joescharf/taskreview/internal/models"
)

var (
	evalTitle       string
	evalDescription string
	evalSubmittedBy string
	evalFile        string
	jsonOutput      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a task submission and recommend the next task",
	Long: `Evaluate a task submission with the rule-based scorer.

The submission comes from flags or from a YAML/JSON file with the keys
task_title, task_description and submitted_by. The description may embed
"--- Repository Metrics ---" JSON and "--- Extracted Document Content ---"
sections; each contributes to the score.`,
	Example: `  taskreview evaluate --title "Implement login" --description "Objective: ..." --submitted-by alice
  taskreview evaluate --file submission.yaml --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return evaluateRun()
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalTitle, "title", "t", "", "Task title (5-100 characters)")
	evaluateCmd.Flags().StringVarP(&evalDescription, "description", "d", "", "Task description (10-2000 characters)")
	evaluateCmd.Flags().StringVarP(&evalSubmittedBy, "submitted-by", "s", "", "Submitter name (2-50 characters)")
	evaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "", "Read the submission from a YAML or JSON file")
	evaluateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

// loadSubmissionInput merges the submission file (if any) with flag values.
// Flags win over file values.
func loadSubmissionInput() (models.SubmissionInput, error) {
	var in models.SubmissionInput
	if evalFile != "" {
		data, err := os.ReadFile(evalFile)
		if err != nil {
			return in, fmt.Errorf("read submission file: %w", err)
		}
		// YAML is a superset of JSON, so one decoder handles both.
		if err := yaml.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse submission file: %w", err)
		}
	}
	if evalTitle != "" {
		in.Title = evalTitle
	}
	if evalDescription != "" {
		in.Description = evalDescription
	}
	if evalSubmittedBy != "" {
		in.SubmittedBy = evalSubmittedBy
	}
	return in, nil
}

func evaluateRun() error {
	in, err := loadSubmissionInput()
	if err != nil {
		return err
	}

	sub, err := models.NewSubmission(in, uuid.NewString(), time.Now().UTC())
	if err != nil {
		return err
	}

	res := orchestratorFunc().Orchestrate(sub)
	recordReview(sub, res)
	return printResult(res)
}

// recordReview saves res to the history store when history is enabled.
func recordReview(sub *models.Submission, res *models.OrchestrationResult) {
	s, err := getStore()
	if err != nil {
		ui.Warning("Review history unavailable: %v", err)
		return
	}
	if s == nil {
		return
	}
	rec := models.NewReviewRecord(sub, res)
	if err := s.SaveReview(commandContext(), rec); err != nil {
		ui.Warning("Failed to record review: %v", err)
		return
	}
	ui.VerboseLog("Recorded review %s", rec.ID)
}

func printResult(res *models.OrchestrationResult) error {
	if jsonOutput {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	ui.Review(res)
	return nil
}
