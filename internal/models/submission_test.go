package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)

func validInput() SubmissionInput {
	return SubmissionInput{
		Title:       "Implement login",
		Description: "Build the login flow with tests.",
		SubmittedBy: "alice",
	}
}

func TestNewSubmission_TrimsFields(t *testing.T) {
	in := validInput()
	in.Title = "  Implement login  "
	in.SubmittedBy = "\talice\n"

	sub, err := NewSubmission(in, "id-1", now)
	require.NoError(t, err)
	assert.Equal(t, "id-1", sub.ID)
	assert.Equal(t, "Implement login", sub.Title)
	assert.Equal(t, "alice", sub.SubmittedBy)
	assert.Equal(t, now, sub.Timestamp)
}

func TestNewSubmission_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmissionInput)
		errMsg string
	}{
		{"blank title", func(in *SubmissionInput) { in.Title = "   " }, "task_title cannot be empty"},
		{"short title", func(in *SubmissionInput) { in.Title = "abcd" }, "task_title must be at least 5"},
		{"long title", func(in *SubmissionInput) { in.Title = strings.Repeat("a", 101) }, "task_title must be at most 100"},
		{"short description", func(in *SubmissionInput) { in.Description = "too short" }, "task_description must be at least 10"},
		{"long description", func(in *SubmissionInput) { in.Description = strings.Repeat("a", 2001) }, "task_description must be at most 2000"},
		{"short submitter", func(in *SubmissionInput) { in.SubmittedBy = "a" }, "submitted_by must be at least 2"},
		{"long submitter", func(in *SubmissionInput) { in.SubmittedBy = strings.Repeat("a", 51) }, "submitted_by must be at most 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewSubmission(in, "id", now)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewSubmission_CountsRunes(t *testing.T) {
	in := validInput()
	in.Title = "ééééé"
	in.SubmittedBy = strings.Repeat("ü", 50)

	sub, err := NewSubmission(in, "id", now)
	require.NoError(t, err)
	assert.Equal(t, "ééééé", sub.Title)
}

func TestBandStatus(t *testing.T) {
	assert.Equal(t, StatusPass, BandPass.Status())
	assert.Equal(t, StatusBorderline, BandBorderline.Status())
	assert.Equal(t, StatusFail, BandFail.Status())
}

func TestNewReviewRecord(t *testing.T) {
	sub := &Submission{ID: "task-1", Title: "Implement login", SubmittedBy: "alice"}
	res := &OrchestrationResult{
		Review: &ReviewResult{
			Score:            62,
			ReadinessPercent: 55,
			Status:           StatusBorderline,
			FailureReasons:   []string{"Missing tests directory."},
			ImprovementHints: []string{"hint"},
			Analysis:         Analysis{TechnicalQuality: 50, Clarity: 100, DisciplineSignals: 25},
			Meta:             Meta{EvaluationTimeMs: 2, Mode: ModeRule},
		},
		ReadinessClassification: BandBorderline,
		NextTask:                &NextTask{Title: "Refactoring", Difficulty: "medium"},
	}

	rec := NewReviewRecord(sub, res)
	assert.Empty(t, rec.ID)
	assert.Equal(t, "task-1", rec.SubmissionID)
	assert.Equal(t, 62, rec.Score)
	assert.Equal(t, BandBorderline, rec.ReadinessClassification)
	assert.Equal(t, "Refactoring", rec.NextTaskTitle)
	assert.Equal(t, "medium", rec.NextTaskDifficulty)
	assert.Equal(t, int64(2), rec.EvaluationTimeMs)
	assert.Equal(t, ModeRule, rec.Mode)
}
