// Package orchestrator sequences evaluation, readiness classification and
// next-task selection, substituting safe defaults when a stage fails so
// callers always get a structurally complete result.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joescharf/taskreview/internal/models"
	"github.com/joescharf/taskreview/internal/nexttask"
	"github.com/joescharf/taskreview/internal/repometrics"
	"github.com/joescharf/taskreview/internal/scoring"
)

// ReviewEngine scores a submission.
type ReviewEngine interface {
	Evaluate(sub *models.Submission) (*models.ReviewResult, error)
}

// NextTaskGenerator recommends a follow-up task for a classified review.
type NextTaskGenerator interface {
	GenerateNextTask(review *models.ReviewResult, band models.Band) (*models.NextTask, error)
}

// DocumentExtractor turns an uploaded document into text.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, name string, data []byte) (string, error)
}

// FallbackReason is the single failure reason of the zero-score fallback.
const FallbackReason = "System: Review process encountered a critical error."

// Orchestrator wires a review engine and a next-task generator together.
// It is safe for concurrent use when its collaborators are.
type Orchestrator struct {
	engine    ReviewEngine
	generator NextTaskGenerator
	extractor DocumentExtractor
	metrics   repometrics.Fetcher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExtractor enables document payloads on the extended entry point.
func WithExtractor(e DocumentExtractor) Option {
	return func(o *Orchestrator) { o.extractor = e }
}

// WithMetricsFetcher enables repository URLs on the extended entry point.
func WithMetricsFetcher(f repometrics.Fetcher) Option {
	return func(o *Orchestrator) { o.metrics = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithClock overrides the clock used to stamp extended submissions.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator overrides the source of generated submission ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// New returns an Orchestrator using engine and generator.
func New(engine ReviewEngine, generator NextTaskGenerator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:    engine,
		generator: generator,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewDefault returns an Orchestrator using the rule-based engine and the
// sequential next-task generator.
func NewDefault(opts ...Option) *Orchestrator {
	o := New(nil, nexttask.NewSequentialGenerator(), opts...)
	o.engine = scoring.NewEngine(o.logger)
	return o
}

// ClassifyReadiness maps a score to its readiness band.
func (o *Orchestrator) ClassifyReadiness(score int) models.Band {
	return scoring.ClassifyReadiness(score)
}

// Evaluate runs the review engine. Any engine error or panic is replaced by
// the zero-score fallback result; Evaluate never fails.
func (o *Orchestrator) Evaluate(sub *models.Submission) *models.ReviewResult {
	res, err := o.safeEvaluate(sub)
	if err != nil || res == nil {
		o.logger.Error("review engine failed, generating safety result", "task_id", submissionID(sub), "error", err)
		return FallbackResult()
	}
	return res
}

// Orchestrate evaluates sub, classifies the score and attaches a next task.
func (o *Orchestrator) Orchestrate(sub *models.Submission) *models.OrchestrationResult {
	o.logger.Info("starting orchestration", "task_id", submissionID(sub))

	review := o.Evaluate(sub)

	band := scoring.ClassifyReadiness(review.Score)
	o.logger.Info("decision path", "score", review.Score, "band", band)

	task, err := o.safeGenerate(review, band)
	if err != nil || task == nil {
		o.logger.Warn("next task generator failed, using system fallback", "error", err)
		fallback := nexttask.SystemFallback
		task = &fallback
	} else {
		o.logger.Info("next task selected", "title", task.Title)
	}

	review.NextTask = task
	return &models.OrchestrationResult{
		Review:                  review,
		ReadinessClassification: band,
		NextTask:                task,
	}
}

// FallbackResult is the deterministic result substituted for a failed evaluation.
func FallbackResult() *models.ReviewResult {
	return &models.ReviewResult{
		Score:            0,
		ReadinessPercent: 0,
		Status:           models.StatusFail,
		FailureReasons:   []string{FallbackReason},
		ImprovementHints: []string{},
		Analysis:         models.Analysis{},
		Meta:             models.Meta{EvaluationTimeMs: 0, Mode: models.ModeRule},
	}
}

func (o *Orchestrator) safeEvaluate(sub *models.Submission) (res *models.ReviewResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("review engine panic: %v", r)
		}
	}()
	if o.engine == nil {
		return nil, fmt.Errorf("no review engine configured")
	}
	if sub == nil {
		return nil, fmt.Errorf("nil submission")
	}
	return o.engine.Evaluate(sub)
}

func (o *Orchestrator) safeGenerate(review *models.ReviewResult, band models.Band) (task *models.NextTask, err error) {
	defer func() {
		if r := recover(); r != nil {
			task, err = nil, fmt.Errorf("next task generator panic: %v", r)
		}
	}()
	if o.generator == nil {
		return nil, fmt.Errorf("no next task generator configured")
	}
	return o.generator.GenerateNextTask(review, band)
}

func submissionID(sub *models.Submission) string {
	if sub == nil {
		return ""
	}
	return sub.ID
}

// shortID returns an id prefix suitable for generated submission ids.
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
