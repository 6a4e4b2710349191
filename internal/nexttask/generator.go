package nexttask

import (
	"strings"

	"github.com/joescharf/taskreview/internal/models"
)

// SequentialGenerator is the default rule-based next-task generator:
// PASS gets a stretch task, BORDERLINE a reinforcement task, everything
// else a correction task.
type SequentialGenerator struct{}

// NewSequentialGenerator returns a SequentialGenerator.
func NewSequentialGenerator() *SequentialGenerator {
	return &SequentialGenerator{}
}

// GenerateNextTask selects the template for band. The review is accepted for
// interface compatibility with generators that look at it; this one does not.
// It never fails.
func (g *SequentialGenerator) GenerateNextTask(_ *models.ReviewResult, band models.Band) (*models.NextTask, error) {
	t := Select(band)
	return &t, nil
}

// Select returns a copy of the template for band, matched case-insensitively.
func Select(band models.Band) models.NextTask {
	switch models.Band(strings.ToUpper(strings.TrimSpace(string(band)))) {
	case models.BandPass:
		return Stretch
	case models.BandBorderline:
		return Reinforcement
	default:
		return Correction
	}
}
