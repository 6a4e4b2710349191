// Package composite reads and writes composite task descriptions: a free-text
// narrative optionally followed by marker-delimited sections holding
// repository metrics (JSON) and extracted document text.
//
// The format is persisted alongside stored submissions, so Build and Parse
// must stay in lockstep.
package composite

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joescharf/taskreview/internal/models"
)

// Section labels recognized inside a composite description.
const (
	RepositoryMetricsLabel = "Repository Metrics"
	DocumentContentLabel   = "Extracted Document Content"
)

// Marker lines as written by Build.
const (
	RepositoryMetricsMarker = "--- " + RepositoryMetricsLabel + " ---"
	DocumentContentMarker   = "--- " + DocumentContentLabel + " ---"
)

var markerPattern = regexp.MustCompile(
	`(?:\r?\n)+[ \t]*--- (` + regexp.QuoteMeta(RepositoryMetricsLabel) + `|` +
		regexp.QuoteMeta(DocumentContentLabel) + `) ---[ \t]*(?:\r?\n)+`)

// Context is the parsed form of a composite description.
type Context struct {
	Narrative    string
	RepoMetrics  map[string]any
	DocumentText string
}

// Parse splits description into its narrative, repository metrics and
// document text. A metrics block that is not a JSON object is logged and
// treated as empty. A nil logger falls back to slog.Default().
func Parse(description string, logger *slog.Logger) Context {
	if logger == nil {
		logger = slog.Default()
	}

	ctx := Context{RepoMetrics: map[string]any{}}

	matches := markerPattern.FindAllStringSubmatchIndex(description, -1)
	if len(matches) == 0 {
		ctx.Narrative = strings.TrimSpace(description)
		return ctx
	}

	ctx.Narrative = strings.TrimSpace(description[:matches[0][0]])

	for i, m := range matches {
		label := description[m[2]:m[3]]
		end := len(description)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		block := strings.TrimSpace(description[m[1]:end])

		switch label {
		case RepositoryMetricsLabel:
			metrics := map[string]any{}
			if err := json.Unmarshal([]byte(block), &metrics); err != nil || metrics == nil {
				logger.Warn("failed to parse repository metrics from description", "error", err)
				metrics = map[string]any{}
			}
			ctx.RepoMetrics = metrics
		case DocumentContentLabel:
			ctx.DocumentText = block
		}
	}

	logger.Debug("parsed composite description",
		"narrative_len", len(ctx.Narrative),
		"metric_keys", len(ctx.RepoMetrics),
		"document_len", len(ctx.DocumentText),
	)
	return ctx
}

// ContainsMarker reports whether s holds a line Parse would read as a
// section marker once s is embedded in a composite description.
func ContainsMarker(s string) bool {
	return markerPattern.MatchString("\n" + s + "\n")
}

// Build writes narrative, metrics and document text in the composite format.
// Empty metrics and empty document text are omitted. Narrative or document
// text containing a marker line is rejected with models.ErrCorruptInput.
func Build(narrative string, metrics map[string]any, documentText string) (string, error) {
	if ContainsMarker(narrative) {
		return "", fmt.Errorf("%w: narrative contains a reserved section marker", models.ErrCorruptInput)
	}
	if ContainsMarker(documentText) {
		return "", fmt.Errorf("%w: document contains a reserved section marker", models.ErrCorruptInput)
	}

	var b strings.Builder
	b.WriteString(narrative)

	if len(metrics) > 0 {
		data, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return "", err
		}
		b.WriteString("\n\n")
		b.WriteString(RepositoryMetricsMarker)
		b.WriteString("\n\n")
		b.Write(data)
	}

	if documentText != "" {
		b.WriteString("\n\n")
		b.WriteString(DocumentContentMarker)
		b.WriteString("\n\n")
		b.WriteString(documentText)
	}

	return b.String(), nil
}
