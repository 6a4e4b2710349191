package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/taskreview/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func sampleRecord(taskID string, score int, status string, created time.Time) *models.ReviewRecord {
	return &models.ReviewRecord{
		SubmissionID:            taskID,
		Title:                   "Implement login",
		SubmittedBy:             "alice",
		Score:                   score,
		ReadinessPercent:        score * 9 / 10,
		Status:                  status,
		ReadinessClassification: models.Band(strings.ToUpper(status)),
		FailureReasons:          []string{"Missing README file."},
		ImprovementHints:        []string{"Add tests."},
		Analysis:                models.Analysis{TechnicalQuality: 30, Clarity: 10, DisciplineSignals: 5},
		NextTaskTitle:           "Core Requirement Implementation",
		NextTaskDifficulty:      "easy",
		EvaluationTimeMs:        3,
		Mode:                    models.ModeRule,
		CreatedAt:               created,
	}
}

func TestReviewSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("task-1", 45, "fail", time.Time{})
	require.NoError(t, s.SaveReview(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.GetReview(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "task-1", got.SubmissionID)
	assert.Equal(t, "Implement login", got.Title)
	assert.Equal(t, 45, got.Score)
	assert.Equal(t, 40, got.ReadinessPercent)
	assert.Equal(t, "fail", got.Status)
	assert.Equal(t, models.BandFail, got.ReadinessClassification)
	assert.Equal(t, []string{"Missing README file."}, got.FailureReasons)
	assert.Equal(t, []string{"Add tests."}, got.ImprovementHints)
	assert.Equal(t, models.Analysis{TechnicalQuality: 30, Clarity: 10, DisciplineSignals: 5}, got.Analysis)
	assert.Equal(t, "easy", got.NextTaskDifficulty)
	assert.Equal(t, models.ModeRule, got.Mode)
}

func TestReviewSave_EmptySlices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("task-1", 95, "pass", time.Time{})
	rec.FailureReasons = nil
	rec.ImprovementHints = []string{}
	require.NoError(t, s.SaveReview(ctx, rec))

	got, err := s.GetReview(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.FailureReasons)
	assert.Equal(t, []string{}, got.ImprovementHints)
}

func TestGetReview_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetReview(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveReview(ctx, sampleRecord("task-1", 20, "fail", base)))
	require.NoError(t, s.SaveReview(ctx, sampleRecord("task-2", 85, "pass", base.Add(time.Minute))))
	require.NoError(t, s.SaveReview(ctx, sampleRecord("task-1", 60, "borderline", base.Add(2*time.Minute))))

	all, err := s.ListReviews(ctx, ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 60, all[0].Score, "newest first")
	assert.Equal(t, 20, all[2].Score)

	byTask, err := s.ListReviews(ctx, ReviewFilter{SubmissionID: "task-1"})
	require.NoError(t, err)
	assert.Len(t, byTask, 2)

	passing, err := s.ListReviews(ctx, ReviewFilter{Status: "PASS"})
	require.NoError(t, err)
	require.Len(t, passing, 1)
	assert.Equal(t, "task-2", passing[0].SubmissionID)

	limited, err := s.ListReviews(ctx, ReviewFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListReviews_Empty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListReviews(context.Background(), ReviewFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
