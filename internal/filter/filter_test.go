package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyChainKeepsAll(t *testing.T) {
	c := NewChain()
	assert.True(t, c.Match("any/file.txt", false))
	assert.True(t, c.Match("any/dir", true))
	assert.True(t, c.Empty())
}

func TestNilChain(t *testing.T) {
	var c *Chain
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Match("x", false))
}

func TestExcludePattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.log"))

	assert.False(t, c.Match("app.log", false))
	assert.False(t, c.Match("sub/debug.log", false))
	assert.True(t, c.Match("app.txt", false))
	assert.Equal(t, 1, c.Len())
}

func TestIncludeOverridesExclude(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddInclude("important.log"))
	require.NoError(t, c.AddExclude("*.log"))

	assert.True(t, c.Match("important.log", false))
	assert.False(t, c.Match("debug.log", false))
}

func TestFirstMatchWins(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.log"))
	require.NoError(t, c.AddInclude("important.log"))

	assert.False(t, c.Match("important.log", false))
}

func TestSnapshotDirExcluded(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude(".snapshots/"))

	assert.False(t, c.Match(".snapshots", true))
	assert.False(t, c.Match("home/.snapshots", true))
	assert.True(t, c.Match(".snapshots", false)) // a file with that name is kept
}

func TestAnchoredPattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("/root.txt"))

	assert.False(t, c.Match("root.txt", false))
	assert.True(t, c.Match("sub/root.txt", false))
}

func TestEmptyPatternRejected(t *testing.T) {
	c := NewChain()
	assert.Error(t, c.AddExclude("   "))
	assert.True(t, c.Empty())
}

func TestAppendKeepsOrder(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.log"))
	other := NewChain()
	require.NoError(t, other.AddInclude("important.log"))
	require.NoError(t, other.AddExclude("*.tmp"))

	c.Append(other)
	c.Append(nil)

	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Match("important.log", false), "earlier rule still wins")
	assert.False(t, c.Match("x.tmp", false))
}
