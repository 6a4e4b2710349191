package output

import (
	"fmt"

	"github.com/joescharf/taskreview/internal/models"
)

// Review prints a human-readable orchestration result.
func (u *UI) Review(res *models.OrchestrationResult) {
	r := res.Review
	if r == nil {
		u.Error("no review result")
		return
	}

	fmt.Fprintf(u.Out, "%s  %s/100  (readiness %d%%)  %s\n",
		Cyan("Score"), ScoreColor(r.Score), r.ReadinessPercent, StatusColor(string(res.ReadinessClassification)))

	table := u.Table([]string{"Axis", "Score"})
	table.Append([]string{"Technical quality", fmt.Sprintf("%d", r.Analysis.TechnicalQuality)})
	table.Append([]string{"Clarity", fmt.Sprintf("%d", r.Analysis.Clarity)})
	table.Append([]string{"Discipline signals", fmt.Sprintf("%d", r.Analysis.DisciplineSignals)})
	_ = table.Render()

	if len(r.FailureReasons) > 0 {
		fmt.Fprintln(u.Out)
		fmt.Fprintln(u.Out, Red("Failure reasons"))
		for _, reason := range r.FailureReasons {
			fmt.Fprintf(u.Out, "  - %s\n", reason)
		}
	}

	if len(r.ImprovementHints) > 0 {
		fmt.Fprintln(u.Out)
		fmt.Fprintln(u.Out, Yellow("Improvement hints"))
		for _, hint := range r.ImprovementHints {
			fmt.Fprintf(u.Out, "  - %s\n", hint)
		}
	}

	if t := res.NextTask; t != nil {
		fmt.Fprintln(u.Out)
		fmt.Fprintf(u.Out, "%s  %s [%s]\n", Green("Next task"), t.Title, t.Difficulty)
		fmt.Fprintf(u.Out, "  %s\n", t.Objective)
		fmt.Fprintf(u.Out, "  Focus: %s\n", t.FocusArea)
	}

	u.VerboseLog("evaluated in %dms (mode %s)", r.Meta.EvaluationTimeMs, r.Meta.Mode)
}
