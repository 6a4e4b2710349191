package models

import (
	"strings"
	"time"
)

// Band is a readiness band derived from the aggregate score.
type Band string

const (
	BandPass       Band = "PASS"
	BandBorderline Band = "BORDERLINE"
	BandFail       Band = "FAIL"
)

// Status returns the lower-case status tag used in review results.
func (b Band) Status() string {
	return strings.ToLower(string(b))
}

// Review status tags.
const (
	StatusPass       = "pass"
	StatusBorderline = "borderline"
	StatusFail       = "fail"
)

// ModeRule tags results produced by the rule-based engine.
const ModeRule = "rule"

// Analysis is the three-axis breakdown of a review, each axis 0-100.
type Analysis struct {
	TechnicalQuality  int `json:"technical_quality"`
	Clarity           int `json:"clarity"`
	DisciplineSignals int `json:"discipline_signals"`
}

// Meta carries non-scored evaluation metadata.
type Meta struct {
	EvaluationTimeMs int64  `json:"evaluation_time_ms"`
	Mode             string `json:"mode"`
}

// ReviewResult is the output of one evaluation.
type ReviewResult struct {
	Score            int       `json:"score"`
	ReadinessPercent int       `json:"readiness_percent"`
	Status           string    `json:"status"`
	FailureReasons   []string  `json:"failure_reasons"`
	ImprovementHints []string  `json:"improvement_hints"`
	Analysis         Analysis  `json:"analysis"`
	Meta             Meta      `json:"meta"`
	NextTask         *NextTask `json:"next_task,omitempty"`
}

// NextTaskKind identifies which template a next task came from.
type NextTaskKind string

const (
	NextTaskStretch        NextTaskKind = "stretch"
	NextTaskReinforcement  NextTaskKind = "reinforcement"
	NextTaskCorrection     NextTaskKind = "correction"
	NextTaskSystemFallback NextTaskKind = "system_fallback"
)

// NextTask is a recommended follow-up task.
type NextTask struct {
	Kind       NextTaskKind `json:"kind"`
	Title      string       `json:"title"`
	Objective  string       `json:"objective"`
	FocusArea  string       `json:"focus_area"`
	Difficulty string       `json:"difficulty"`
	Rationale  string       `json:"rationale"`
}

// OrchestrationResult is the response of one orchestration call.
type OrchestrationResult struct {
	Review                  *ReviewResult `json:"review"`
	ReadinessClassification Band          `json:"readiness_classification"`
	NextTask                *NextTask     `json:"next_task"`
}

// ReviewRecord is a persisted orchestration outcome.
type ReviewRecord struct {
	ID                      string    `json:"id"`
	SubmissionID            string    `json:"task_id"`
	Title                   string    `json:"task_title"`
	SubmittedBy             string    `json:"submitted_by"`
	Score                   int       `json:"score"`
	ReadinessPercent        int       `json:"readiness_percent"`
	Status                  string    `json:"status"`
	ReadinessClassification Band      `json:"readiness_classification"`
	FailureReasons          []string  `json:"failure_reasons"`
	ImprovementHints        []string  `json:"improvement_hints"`
	Analysis                Analysis  `json:"analysis"`
	NextTaskTitle           string    `json:"next_task_title"`
	NextTaskDifficulty      string    `json:"next_task_difficulty"`
	EvaluationTimeMs        int64     `json:"evaluation_time_ms"`
	Mode                    string    `json:"mode"`
	CreatedAt               time.Time `json:"created_at"`
}

// NewReviewRecord flattens an orchestration result for persistence.
func NewReviewRecord(sub *Submission, res *OrchestrationResult) *ReviewRecord {
	rec := &ReviewRecord{
		ReadinessClassification: res.ReadinessClassification,
	}
	if sub != nil {
		rec.SubmissionID = sub.ID
		rec.Title = sub.Title
		rec.SubmittedBy = sub.SubmittedBy
	}
	if r := res.Review; r != nil {
		rec.Score = r.Score
		rec.ReadinessPercent = r.ReadinessPercent
		rec.Status = r.Status
		rec.FailureReasons = r.FailureReasons
		rec.ImprovementHints = r.ImprovementHints
		rec.Analysis = r.Analysis
		rec.EvaluationTimeMs = r.Meta.EvaluationTimeMs
		rec.Mode = r.Meta.Mode
	}
	if res.NextTask != nil {
		rec.NextTaskTitle = res.NextTask.Title
		rec.NextTaskDifficulty = res.NextTask.Difficulty
	}
	return rec
}
