package store

import (
	"context"

	"github.com/joescharf/taskreview/internal/models"
)

// DefaultListLimit caps ListReviews when the caller passes a non-positive limit.
const DefaultListLimit = 50

// ReviewFilter narrows ListReviews.
type ReviewFilter struct {
	SubmissionID string
	Status       string
	Limit        int
}

// Store defines the persistence interface for review history.
type Store interface {
	SaveReview(ctx context.Context, rec *models.ReviewRecord) error
	GetReview(ctx context.Context, id string) (*models.ReviewRecord, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*models.ReviewRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
