// Package nexttask maps a readiness band to a fixed follow-up task.
package nexttask

import "github.com/joescharf/taskreview/internal/models"

// Templates are process-wide constants. Callers receive copies.
var (
	// Stretch is recommended for PASS.
	Stretch = models.NextTask{
		Kind:       models.NextTaskStretch,
		Title:      "System Scalability & Performance Optimization",
		Objective:  "Stretch Task: Enhance the current implementation to handle 10x load.",
		FocusArea:  "Performance, Caching, Async Processing",
		Difficulty: "hard",
		Rationale:  "High readiness demonstrates capability for advanced engineering challenges.",
	}

	// Reinforcement is recommended for BORDERLINE.
	Reinforcement = models.NextTask{
		Kind:       models.NextTaskReinforcement,
		Title:      "Refactoring & Technical Debt Reduction",
		Objective:  "Reinforcement Task: Improve code structure and address identified weaknesses.",
		FocusArea:  "Clean Code, Error Handling, Validation",
		Difficulty: "medium",
		Rationale:  "Foundational logic is sound but requires structural reinforcement.",
	}

	// Correction is recommended for FAIL and any unrecognized band.
	Correction = models.NextTask{
		Kind:       models.NextTaskCorrection,
		Title:      "Core Requirement Implementation",
		Objective:  "Correction Task: Re-implement the missing core requirements.",
		FocusArea:  "Basic Requirements, API Contract, Data Integrity",
		Difficulty: "easy",
		Rationale:  "Critical requirements were missed. Focus on basics first.",
	}

	// SystemFallback is used only when next-task selection itself fails.
	SystemFallback = models.NextTask{
		Kind:       models.NextTaskSystemFallback,
		Title:      "General Task Review & Cleanup",
		Objective:  "System Fallback: Review the current state of the project and perform general cleanup.",
		FocusArea:  "Architecture, Cleanup, Documentation",
		Difficulty: "medium",
		Rationale:  "NextTaskGenerator encountered an issue. Reverted to a safe default task to ensure continuity.",
	}
)
