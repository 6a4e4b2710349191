package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joescharf/taskreview/internal/composite"
	"github.com/joescharf/taskreview/internal/models"
)

// Defaults for submissions assembled by the extended entry point.
const (
	ExtendedTitle       = "Extended Review"
	ExtendedSubmittedBy = "anonymous"

	// MinRepositoryNarrativeLen is the shortest narrative, in runes, accepted
	// alongside a repository URL.
	MinRepositoryNarrativeLen = 10
)

// Document is an uploaded document payload.
type Document struct {
	Name string
	Data []byte
}

// ExtendedRequest combines an optional narrative, repository URL and document.
type ExtendedRequest struct {
	Narrative     string
	RepositoryURL string
	Document      *Document
	Title         string
	SubmittedBy   string
}

// OrchestrateExtended builds the submission for req and orchestrates it.
func (o *Orchestrator) OrchestrateExtended(ctx context.Context, req ExtendedRequest) (*models.OrchestrationResult, error) {
	sub, err := o.BuildExtendedSubmission(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Orchestrate(sub), nil
}

// BuildExtendedSubmission gathers the external signals for req and folds
// them into a submission with a composite description. Validation errors,
// document extraction failures and missing repositories are returned to the
// caller; other repository fetch failures degrade to empty metrics.
func (o *Orchestrator) BuildExtendedSubmission(ctx context.Context, req ExtendedRequest) (*models.Submission, error) {
	narrative := strings.TrimSpace(req.Narrative)
	repoURL := strings.TrimSpace(req.RepositoryURL)

	if repoURL != "" && narrative == "" {
		return nil, fmt.Errorf("%w: description is required when a repository URL is provided", models.ErrValidation)
	}
	if repoURL != "" && utf8.RuneCountInString(narrative) < MinRepositoryNarrativeLen {
		return nil, fmt.Errorf("%w: description must be at least %d characters when a repository URL is provided",
			models.ErrValidation, MinRepositoryNarrativeLen)
	}
	if narrative == "" && repoURL == "" && req.Document == nil {
		return nil, fmt.Errorf("%w: provide a description, a repository URL or a document", models.ErrValidation)
	}

	var documentText string
	if req.Document != nil {
		if o.extractor == nil {
			return nil, fmt.Errorf("%w: document extraction is not configured", models.ErrValidation)
		}
		text, err := o.extractor.ExtractText(ctx, req.Document.Name, req.Document.Data)
		if err != nil {
			return nil, fmt.Errorf("extract document: %w", err)
		}
		documentText = text
	}

	metrics := map[string]any{}
	if repoURL != "" {
		m, err := o.fetchMetrics(ctx, repoURL)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	description, err := composite.Build(narrative, metrics, documentText)
	if err != nil {
		return nil, fmt.Errorf("build composite description: %w", err)
	}

	return &models.Submission{
		ID:          "ext-" + shortID(o.newID()),
		Title:       orDefault(req.Title, ExtendedTitle),
		Description: description,
		SubmittedBy: orDefault(req.SubmittedBy, ExtendedSubmittedBy),
		Timestamp:   o.now().UTC(),
	}, nil
}

// fetchMetrics returns the repository metrics as a generic mapping. Missing
// repositories and malformed URLs are fatal; every other failure is logged
// and yields empty metrics.
func (o *Orchestrator) fetchMetrics(ctx context.Context, repoURL string) (map[string]any, error) {
	if o.metrics == nil {
		o.logger.Warn("repository metrics fetcher not configured, continuing without metrics", "repo", repoURL)
		return map[string]any{}, nil
	}

	m, err := o.metrics.FetchMetrics(ctx, repoURL)
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrValidation):
		return nil, fmt.Errorf("fetch repository metrics: %w", err)
	case err != nil:
		o.logger.Warn("repository metrics unavailable, continuing without them", "repo", repoURL, "error", err)
		return map[string]any{}, nil
	case m == nil:
		return map[string]any{}, nil
	}

	out, err := m.Map()
	if err != nil {
		o.logger.Warn("failed to serialize repository metrics", "repo", repoURL, "error", err)
		return map[string]any{}, nil
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
