package contacts

import (
	"context"
	"strings"
	"sync"

	"speakermap/internal/model"
)

// Cache wraps a Directory with an explicit, injectable per-application
// cache. It is scoped to whatever owns it (the server wires one instance at
// startup; tests build their own against fixture directories), so there is
// no module-level memoized state to leak between meetings.
type Cache struct {
	inner Directory

	mu      sync.Mutex
	byEmail map[string]model.ContactRecord
	// misses remembers emails the directory has already answered "no
	// contact" for, so repeat meetings don't refetch them.
	misses map[string]bool
	byName map[string]*model.ContactRecord
}

// NewCache creates a cache around a directory.
func NewCache(inner Directory) *Cache {
	return &Cache{
		inner:   inner,
		byEmail: make(map[string]model.ContactRecord),
		misses:  make(map[string]bool),
		byName:  make(map[string]*model.ContactRecord),
	}
}

// FindByEmails serves known emails from the cache and fetches only the
// remainder from the underlying directory.
func (c *Cache) FindByEmails(ctx context.Context, emails []string) (map[string]model.ContactRecord, error) {
	result := make(map[string]model.ContactRecord, len(emails))
	var missing []string

	c.mu.Lock()
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			continue
		}
		if rec, ok := c.byEmail[key]; ok {
			result[key] = rec
			continue
		}
		if c.misses[key] {
			continue
		}
		missing = append(missing, key)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.inner.FindByEmails(ctx, missing)
	if err != nil {
		// Partial results from the cache are still useful to the caller.
		return result, err
	}

	c.mu.Lock()
	for _, key := range missing {
		rec, ok := fetched[key]
		if !ok {
			c.misses[key] = true
			continue
		}
		c.byEmail[key] = rec
		result[key] = rec
	}
	c.mu.Unlock()

	return result, nil
}

// FindByName looks up a contact by exact name, caching hits and misses.
func (c *Cache) FindByName(ctx context.Context, name string) (*model.ContactRecord, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}

	c.mu.Lock()
	if rec, ok := c.byName[key]; ok {
		c.mu.Unlock()
		if rec == nil {
			return nil, nil
		}
		recCopy := *rec
		return &recCopy, nil
	}
	c.mu.Unlock()

	rec, err := c.inner.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byName[key] = rec
	c.mu.Unlock()

	if rec == nil {
		return nil, nil
	}
	recCopy := *rec
	return &recCopy, nil
}
