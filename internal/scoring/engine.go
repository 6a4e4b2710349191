package scoring

import (
	"log/slog"
	"time"

	"github.com/joescharf/taskreview/internal/composite"
	"github.com/joescharf/taskreview/internal/models"
)

const maxFailureReasons = 5

// hintScoreCeiling is the score at or above which no improvement hints are given.
const hintScoreCeiling = 90

// readinessFullCredit is the score at or above which readiness equals the score.
const readinessFullCredit = 95

// improvementHints are generic and not derived from individual reasons.
var improvementHints = []string{
	"Ensure the document contains structured headings.",
	"Maintain a commit history of more than 10 commits.",
	"Define clear objectives in your description.",
}

// Engine is the default rule-based review engine.
type Engine struct {
	logger *slog.Logger
}

// NewEngine returns an Engine. A nil logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Evaluate parses the submission's composite description and scores it.
// It never returns an error itself; the signature lets alternate engines
// report failures to the orchestrator.
func (e *Engine) Evaluate(sub *models.Submission) (*models.ReviewResult, error) {
	start := time.Now()

	ctx := composite.Parse(sub.Description, e.logger)

	doc := ScoreDocument(ctx.DocumentText)
	repo := ScoreRepository(ctx.RepoMetrics)
	narrative := ScoreNarrative(ctx.Narrative)

	result := Aggregate(doc, repo, narrative)
	result.Meta.EvaluationTimeMs = time.Since(start).Milliseconds()

	e.logger.Info("score breakdown",
		"task_id", sub.ID,
		"document", doc.Points,
		"repository", repo.Points,
		"narrative", narrative.Points,
		"total", result.Score,
	)
	return result, nil
}

// Aggregate combines the three sub-scores into a review result. Meta timing
// is left at zero for the caller to fill in.
func Aggregate(doc, repo, narrative SubScore) *models.ReviewResult {
	score := doc.Points + repo.Points + narrative.Points

	readiness := score
	if score < readinessFullCredit {
		readiness = score * 9 / 10
	}

	var reasons []string
	for _, group := range [][]string{doc.Reasons, repo.Reasons, narrative.Reasons} {
		for _, r := range group {
			if r != "" {
				reasons = append(reasons, r)
			}
		}
	}
	if len(reasons) > maxFailureReasons {
		reasons = reasons[:maxFailureReasons]
	}
	if reasons == nil {
		reasons = []string{}
	}

	hints := []string{}
	if score < hintScoreCeiling {
		hints = append(hints, improvementHints...)
	}

	return &models.ReviewResult{
		Score:            score,
		ReadinessPercent: readiness,
		Status:           ClassifyReadiness(score).Status(),
		FailureReasons:   reasons,
		ImprovementHints: hints,
		Analysis: models.Analysis{
			TechnicalQuality:  repo.Normalized(),
			Clarity:           narrative.Normalized(),
			DisciplineSignals: doc.Normalized(),
		},
		Meta: models.Meta{Mode: models.ModeRule},
	}
}
