// Package cache memoizes completed result documents so repeated reads
// skip the database. The engine does not know the cache exists; it is
// purely a consumer-side collaborator keyed by job id.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"webready/internal/analyzer"
)

// DefaultSize is how many result documents are kept in memory.
const DefaultSize = 64

// ResultCache is a bounded LRU of completed project results.
type ResultCache struct {
	lru *lru.Cache[string, *analyzer.ProjectResult]
}

// New creates a ResultCache holding up to size documents.
func New(size int) (*ResultCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *analyzer.ProjectResult](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &ResultCache{lru: c}, nil
}

// Get returns the cached result for a job id, if present.
func (c *ResultCache) Get(jobID string) (*analyzer.ProjectResult, bool) {
	return c.lru.Get(jobID)
}

// Add stores a completed result under its job id.
func (c *ResultCache) Add(jobID string, result *analyzer.ProjectResult) {
	c.lru.Add(jobID, result)
}

// Remove drops a job's cached result, e.g. after deletion.
func (c *ResultCache) Remove(jobID string) {
	c.lru.Remove(jobID)
}

// Len returns the number of cached documents.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
