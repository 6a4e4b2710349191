package scoring

import "github.com/joescharf/taskreview/internal/models"

// Readiness thresholds. A score exactly on a threshold takes the higher band.
const (
	PassThreshold       = 80
	BorderlineThreshold = 50
)

// ClassifyReadiness maps a score to its readiness band, clamping to [0,100].
func ClassifyReadiness(score int) models.Band {
	switch {
	case score < 0:
		score = 0
	case score > 100:
		score = 100
	}

	switch {
	case score >= PassThreshold:
		return models.BandPass
	case score >= BorderlineThreshold:
		return models.BandBorderline
	default:
		return models.BandFail
	}
}
