package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/taskreview/internal/models"
)

func sub(id string) *models.Submission {
	return &models.Submission{ID: id, Title: "Title " + id}
}

func TestSubmissionCache_PutGet(t *testing.T) {
	c := NewSubmissionCache(3)
	c.Put(sub("a"))

	got, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Title a", got.Title)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmissionCache_EvictsOldest(t *testing.T) {
	c := NewSubmissionCache(2)
	c.Put(sub("a"))
	c.Put(sub("b"))
	c.Put(sub("c"))

	assert.Equal(t, 2, c.Len())
	_, err := c.Get("a")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = c.Get("b")
	assert.NoError(t, err)
	_, err = c.Get("c")
	assert.NoError(t, err)
}

func TestSubmissionCache_ReplaceKeepsPosition(t *testing.T) {
	c := NewSubmissionCache(2)
	c.Put(sub("a"))
	c.Put(sub("b"))
	c.Put(&models.Submission{ID: "a", Title: "updated"})

	assert.Equal(t, 2, c.Len())
	got, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Title)

	// "a" is still the oldest entry.
	c.Put(sub("c"))
	_, err = c.Get("a")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = c.Get("b")
	assert.NoError(t, err)
}

func TestSubmissionCache_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCacheCapacity, NewSubmissionCache(0).Capacity())
	assert.Equal(t, 5, NewSubmissionCache(5).Capacity())
}

func TestSubmissionCache_Concurrent(t *testing.T) {
	c := NewSubmissionCache(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("%d-%d", n, j)
				c.Put(sub(id))
				_, _ = c.Get(id)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
