package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joescharf/taskreview/internal/orchestrator"
)

var (
	reviewDescription string
	reviewRepoURL     string
	reviewDocument    string
	reviewTitle       string
	reviewSubmittedBy string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a task from a narrative, a GitHub repository and a document",
	Long: `Review a task by gathering its external signals.

Repository metrics are fetched from the GitHub API (set github.token to
raise the rate limit) and document text is extracted from a PDF, text or
markdown file. A repository URL requires a description. Rate limits and
transient GitHub failures degrade to a review without repository metrics;
a missing repository is an error.`,
	Example: `  taskreview review --description "Objective: ..." --github-url https://github.com/acme/widgets
  taskreview review --document design.pdf --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRun()
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewDescription, "description", "d", "", "Narrative describing the work")
	reviewCmd.Flags().StringVarP(&reviewRepoURL, "github-url", "g", "", "GitHub repository URL")
	reviewCmd.Flags().StringVar(&reviewDocument, "document", "", "Path to a PDF, text or markdown document")
	reviewCmd.Flags().StringVarP(&reviewTitle, "title", "t", "", "Task title")
	reviewCmd.Flags().StringVarP(&reviewSubmittedBy, "submitted-by", "s", "", "Submitter name")
	reviewCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(reviewCmd)
}

func reviewRun() error {
	req := orchestrator.ExtendedRequest{
		Narrative:     reviewDescription,
		RepositoryURL: reviewRepoURL,
		Title:         reviewTitle,
		SubmittedBy:   reviewSubmittedBy,
	}

	if reviewDocument != "" {
		data, err := os.ReadFile(reviewDocument)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		req.Document = &orchestrator.Document{Name: filepath.Base(reviewDocument), Data: data}
		ui.VerboseLog("Loaded %s (%d bytes)", reviewDocument, len(data))
	}

	orch := orchestratorFunc()
	sub, err := orch.BuildExtendedSubmission(commandContext(), req)
	if err != nil {
		return err
	}

	res := orch.Orchestrate(sub)
	recordReview(sub, res)
	return printResult(res)
}
