package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/taskreview/internal/models"
	"github.com/joescharf/taskreview/internal/store"
)

// cmdEnv extends testEnv with a fresh history store and reset command flags.
func cmdEnv(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := testEnv(t)

	dataStore = nil
	t.Cleanup(func() {
		if dataStore != nil {
			_ = dataStore.Close()
			dataStore = nil
		}
	})

	evalTitle, evalDescription, evalSubmittedBy, evalFile = "", "", "", ""
	reviewDescription, reviewRepoURL, reviewDocument, reviewTitle, reviewSubmittedBy = "", "", "", "", ""
	historyLimit, historyTask, historyStatus = 20, "", ""
	jsonOutput = false

	return dir, ui.Out.(*bytes.Buffer)
}

func TestEvaluateRun_Flags(t *testing.T) {
	_, out := cmdEnv(t)
	evalTitle = "Implement login"
	evalDescription = "Objective: build the login flow."
	evalSubmittedBy = "alice"
	jsonOutput = true

	require.NoError(t, evaluateRun())

	var res models.OrchestrationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, models.BandFail, res.ReadinessClassification)
	require.NotNil(t, res.NextTask)
	assert.Equal(t, models.NextTaskCorrection, res.NextTask.Kind)

	reviews, err := dataStore.ListReviews(commandContext(), store.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].SubmittedBy)
}

func TestEvaluateRun_File(t *testing.T) {
	dir, out := cmdEnv(t)

	path := filepath.Join(dir, "submission.yaml")
	content := `task_title: Build the importer
task_description: |
  Objective: ship the importer.

  --- Repository Metrics ---

  {"has_readme": true, "has_tests": true, "commit_count": 40, "file_count": 20}
submitted_by: bob
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	evalFile = path
	evalSubmittedBy = "carol"

	require.NoError(t, evaluateRun())
	assert.Contains(t, out.String(), "50")
	assert.Contains(t, out.String(), "Refactoring & Technical Debt Reduction")

	reviews, err := dataStore.ListReviews(commandContext(), store.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "carol", reviews[0].SubmittedBy, "flags override file values")
	assert.Equal(t, models.BandBorderline, reviews[0].ReadinessClassification)
}

func TestEvaluateRun_JSONFile(t *testing.T) {
	dir, _ := cmdEnv(t)
	path := filepath.Join(dir, "submission.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"task_title":"Build it","task_description":"Objective: build it well.","submitted_by":"dan"}`), 0o644))
	evalFile = path

	assert.NoError(t, evaluateRun())
}

func TestEvaluateRun_Validation(t *testing.T) {
	cmdEnv(t)
	evalTitle = "abc"
	evalDescription = "long enough description"
	evalSubmittedBy = "alice"

	err := evaluateRun()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEvaluateRun_HistoryDisabled(t *testing.T) {
	cmdEnv(t)
	viper.Set("history.enabled", false)
	evalTitle = "Implement login"
	evalDescription = "Objective: build the login flow."
	evalSubmittedBy = "alice"

	require.NoError(t, evaluateRun())
	assert.Nil(t, dataStore)
}

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"80", "PASS"},
		{"79", "BORDERLINE"},
		{"50", "BORDERLINE"},
		{"49", "FAIL"},
		{"0", "FAIL"},
		{"110", "PASS"},
		{"-10", "FAIL"},
	}
	for _, tt := range tests {
		_, out := cmdEnv(t)
		require.NoError(t, classifyRun(tt.arg))
		assert.Equal(t, tt.want, strings.TrimSpace(out.String()), "score %s", tt.arg)
	}

	cmdEnv(t)
	assert.Error(t, classifyRun("abc"))
	assert.Error(t, classifyRun("12.5"))
}

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"full_name":"acme/widgets","default_branch":"main","stargazers_count":3,"forks_count":1,"private":false,"updated_at":"2026-01-01T00:00:00Z"}`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Go":1000}`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `<https://api.github.com/repos/acme/widgets/commits?per_page=1&page=2>; rel="next", <https://api.github.com/repos/acme/widgets/commits?per_page=1&page=30>; rel="last"`)
		_, _ = w.Write([]byte(`[{"sha":"abc"}]`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tree":[{"path":"README.md","type":"blob"},{"path":"tests","type":"tree"},{"path":"tests/a_test.go","type":"blob"},{"path":"main.go","type":"blob"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReviewRun_Repository(t *testing.T) {
	dir, out := cmdEnv(t)
	gh := fakeGitHub(t)
	viper.Set("github.api_url", gh.URL)

	docPath := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(docPath, []byte("# Notes\n\n"+strings.Repeat("word ", 120)), 0o644))

	reviewDescription = "Objective: build the widget pipeline."
	reviewRepoURL = "https://github.com/acme/widgets"
	reviewDocument = docPath
	jsonOutput = true

	require.NoError(t, reviewRun())

	var res models.OrchestrationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	// README, tests and commits (30) + document (30) + objective keyword (10).
	assert.Equal(t, 70, res.Review.Score)
	assert.Equal(t, models.BandBorderline, res.ReadinessClassification)
	assert.Contains(t, res.Review.FailureReasons, "Sparse repository structure.")
}

func TestReviewRun_Errors(t *testing.T) {
	cmdEnv(t)
	reviewRepoURL = "https://github.com/acme/widgets"
	err := reviewRun()
	assert.ErrorIs(t, err, models.ErrValidation)

	cmdEnv(t)
	reviewDocument = filepath.Join(t.TempDir(), "missing.md")
	err = reviewRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document")
}

func TestHistory(t *testing.T) {
	_, out := cmdEnv(t)
	evalTitle = "Implement login"
	evalDescription = "Objective: build the login flow."
	evalSubmittedBy = "alice"
	require.NoError(t, evaluateRun())
	out.Reset()

	require.NoError(t, historyListRun())
	assert.Contains(t, out.String(), "Implement login")

	reviews, err := dataStore.ListReviews(commandContext(), store.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	out.Reset()
	require.NoError(t, historyShowRun(reviews[0].ID))
	assert.Contains(t, out.String(), reviews[0].ID)
	assert.Contains(t, out.String(), "Core Requirement Implementation")

	assert.ErrorIs(t, historyShowRun("missing"), models.ErrNotFound)
}

func TestHistory_Empty(t *testing.T) {
	_, out := cmdEnv(t)
	require.NoError(t, historyListRun())
	assert.Contains(t, out.String(), "No reviews recorded")
}

func TestHistory_Disabled(t *testing.T) {
	cmdEnv(t)
	viper.Set("history.enabled", false)
	err := historyListRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
