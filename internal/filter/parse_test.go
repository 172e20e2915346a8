package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	filterFile := filepath.Join(dir, "filter.rules")

	content := `# snapshot trees hold copies of everything
+ keep/.snapshots/
- .snapshots/

- *.swp
noprefix.txt
`
	require.NoError(t, os.WriteFile(filterFile, []byte(content), 0644))

	c := NewChain()
	require.NoError(t, c.LoadFile(filterFile))

	assert.Len(t, c.rules, 4)
	assert.True(t, c.rules[0].Include)
	assert.False(t, c.rules[1].Include)
	assert.False(t, c.rules[2].Include)
	assert.False(t, c.rules[3].Include)

	assert.True(t, c.Match("keep/.snapshots", true))
	assert.False(t, c.Match("home/.snapshots", true))
	assert.False(t, c.Match("doc/.notes.swp", false))
	assert.False(t, c.Match("noprefix.txt", false))
	assert.True(t, c.Match("data.bin", false))
}

func TestLoadFileEmpty(t *testing.T) {
	dir := t.TempDir()
	filterFile := filepath.Join(dir, "empty.rules")
	require.NoError(t, os.WriteFile(filterFile, []byte("# only comments\n\n"), 0644))

	c := NewChain()
	require.NoError(t, c.LoadFile(filterFile))
	assert.Empty(t, c.rules)
}

func TestLoadFileMissing(t *testing.T) {
	c := NewChain()
	err := c.LoadFile(filepath.Join(t.TempDir(), "nope.rules"))
	assert.Error(t, err)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		line    string
		pattern string
		include bool
		ok      bool
	}{
		{"", "", false, false},
		{"   # comment", "", false, false},
		{"+ *.go", "*.go", true, true},
		{"-  tmp/ ", "tmp/", false, true},
		{"bare", "bare", false, true},
	}
	for _, tt := range tests {
		pattern, include, ok := parseRule(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.pattern, pattern, tt.line)
		assert.Equal(t, tt.include, include, tt.line)
	}
}
