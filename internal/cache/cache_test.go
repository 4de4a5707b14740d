package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagFormats(t *testing.T) {
	require.Equal(t, "projects:list", ListTag("projects"))
	require.Equal(t, "tickets:detail:42", DetailTag("tickets", 42))
	require.Equal(t, "members:version:7", VersionTag("members", 7))
}

func TestMemoryGenerations(t *testing.T) {
	m := NewMemory()
	require.Zero(t, m.Generation("projects:list"))

	m.Invalidate("projects:list")
	m.Invalidate("projects:list")
	m.Invalidate("projects:detail:1")

	require.Equal(t, uint64(2), m.Generation("projects:list"))
	require.Equal(t, uint64(1), m.Generation("projects:detail:1"))
	require.Zero(t, m.Generation("members:list"))
}
