// Package cache models tag-based cache invalidation. Mutations return the
// tags they dirty alongside their result; the boundary layer hands those
// tags to an Invalidator. Invalidation is best-effort and idempotent: it
// signals that cached reads under a tag should be recomputed, it never
// holds data itself.
package cache

import (
	"strconv"
	"sync"
)

// Invalidator marks all cached reads under a tag as stale.
type Invalidator interface {
	Invalidate(tag string)
}

// ListTag keys an entity type's list pages, e.g. "projects:list".
func ListTag(entity string) string {
	return entity + ":list"
}

// DetailTag keys one entity's detail read, e.g. "projects:detail:7".
func DetailTag(entity string, id int64) string {
	return entity + ":detail:" + strconv.FormatInt(id, 10)
}

// VersionTag keys one entity's version history, e.g. "projects:version:7".
func VersionTag(entity string, id int64) string {
	return entity + ":version:" + strconv.FormatInt(id, 10)
}

// Memory is an in-process Invalidator that tracks a generation counter per
// tag. Readers that cache by (tag, generation) recompute when the
// generation moves.
type Memory struct {
	mu          sync.Mutex
	generations map[string]uint64
}

// NewMemory creates an empty in-process invalidator.
func NewMemory() *Memory {
	return &Memory{generations: make(map[string]uint64)}
}

// Invalidate bumps the tag's generation.
func (m *Memory) Invalidate(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[tag]++
}

// Generation reports the current generation for a tag, zero if the tag has
// never been invalidated.
func (m *Memory) Generation(tag string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[tag]
}

// Nop discards invalidations.
type Nop struct{}

func (Nop) Invalidate(string) {}
