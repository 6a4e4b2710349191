package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/taskreview/internal/models"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("done %d", 42)
	assert.Contains(t, out.String(), "done 42")
}

func TestWarning(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog_Enabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestVerboseLog_Disabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = false
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())
}

func TestColorHelpers(t *testing.T) {
	// Color helpers should return non-empty strings
	assert.NotEmpty(t, Cyan("test"))
	assert.NotEmpty(t, Green("test"))
	assert.NotEmpty(t, Yellow("test"))
	assert.NotEmpty(t, Red("test"))
}

func TestStatusColor(t *testing.T) {
	assert.Contains(t, StatusColor("pass"), "pass")
	assert.Contains(t, StatusColor("BORDERLINE"), "BORDERLINE")
	assert.Contains(t, StatusColor("fail"), "fail")
	assert.Equal(t, "unknown", StatusColor("unknown"))
}

func TestScoreColor(t *testing.T) {
	assert.Contains(t, ScoreColor(90), "90")
	assert.Contains(t, ScoreColor(60), "60")
	assert.Contains(t, ScoreColor(30), "30")
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"Task", "Status"})
	require.NotNil(t, table)

	table.Append([]string{"login", "pass"})
	table.Append([]string{"export", "fail"})
	err := table.Render()
	require.NoError(t, err)

	result := out.String()
	assert.True(t, strings.Contains(result, "login") || strings.Contains(result, "LOGIN"),
		"table output should contain task names")
	assert.True(t, strings.Contains(result, "export") || strings.Contains(result, "EXPORT"),
		"table output should contain task names")
}

func TestReview(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = true
	u.Review(&models.OrchestrationResult{
		Review: &models.ReviewResult{
			Score:            42,
			ReadinessPercent: 37,
			Status:           models.StatusFail,
			FailureReasons:   []string{"Missing README file."},
			ImprovementHints: []string{"Add a README."},
			Analysis:         models.Analysis{TechnicalQuality: 25, Clarity: 50, DisciplineSignals: 0},
			Meta:             models.Meta{EvaluationTimeMs: 4, Mode: models.ModeRule},
		},
		ReadinessClassification: models.BandFail,
		NextTask:                &models.NextTask{Title: "Core Requirement Implementation", Difficulty: "easy"},
	})

	result := out.String()
	assert.Contains(t, result, "42")
	assert.Contains(t, result, "37%")
	assert.Contains(t, result, "Missing README file.")
	assert.Contains(t, result, "Add a README.")
	assert.Contains(t, result, "Core Requirement Implementation [easy]")
	assert.Contains(t, result, "evaluated in 4ms")
}

func TestReview_NilReview(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Review(&models.OrchestrationResult{})
	assert.Contains(t, errOut.String(), "no review result")
}
