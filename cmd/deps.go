package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/joescharf/taskreview/internal/docextract"
	"github.com/joescharf/taskreview/internal/orchestrator"
	"github.com/joescharf/taskreview/internal/repometrics"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// orchestratorFunc builds the orchestrator used by commands; replaceable in tests.
var orchestratorFunc = newOrchestrator

// newGitHubClient builds the repository metrics client from config.
func newGitHubClient() *repometrics.Client {
	opts := []repometrics.Option{
		repometrics.WithBaseURL(viper.GetString("github.api_url")),
		repometrics.WithLogger(slog.Default()),
	}
	if token := viper.GetString("github.token"); token != "" {
		opts = append(opts, repometrics.WithToken(token))
	}
	if d := viper.GetDuration("github.timeout"); d > 0 {
		opts = append(opts, repometrics.WithTimeout(d))
	}
	return repometrics.NewClient(opts...)
}

// newOrchestrator wires the rule engine, next-task generator and the
// external signal collaborators.
func newOrchestrator() *orchestrator.Orchestrator {
	logger := slog.Default()
	return orchestrator.NewDefault(
		orchestrator.WithLogger(logger),
		orchestrator.WithExtractor(docextract.New(logger)),
		orchestrator.WithMetricsFetcher(newGitHubClient()),
	)
}
