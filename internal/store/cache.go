package store

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/joescharf/taskreview/internal/models"
)

// DefaultCacheCapacity is used when a non-positive capacity is requested.
const DefaultCacheCapacity = 1000

// SubmissionCache holds recent submissions in insertion order. When full,
// adding a new id evicts the oldest entry. Re-putting an existing id
// replaces its value without changing its position.
type SubmissionCache struct {
	mu       sync.Mutex
	capacity int
	entries  *orderedmap.OrderedMap[string, *models.Submission]
}

// NewSubmissionCache returns an empty cache holding at most capacity entries.
func NewSubmissionCache(capacity int) *SubmissionCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &SubmissionCache{
		capacity: capacity,
		entries:  orderedmap.New[string, *models.Submission](),
	}
}

// Put stores sub under its ID.
func (c *SubmissionCache) Put(sub *models.Submission) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries.Get(sub.ID); !ok {
		for c.entries.Len() >= c.capacity {
			oldest := c.entries.Oldest()
			if oldest == nil {
				break
			}
			c.entries.Delete(oldest.Key)
		}
	}
	c.entries.Set(sub.ID, sub)
}

// Get returns the submission stored under id, or models.ErrNotFound.
func (c *SubmissionCache) Get(id string) (*models.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.entries.Get(id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	return sub, nil
}

// Len returns the number of cached submissions.
func (c *SubmissionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Capacity returns the maximum number of entries.
func (c *SubmissionCache) Capacity() int {
	return c.capacity
}
