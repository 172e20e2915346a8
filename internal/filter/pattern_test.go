package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.log", "app.log", false, true},
		{"*.log", "dir/app.log", false, true},
		{"*.log", "app.log.bak", false, false},
		{"**/*.img", "vm.img", false, true},
		{"**/*.img", "var/lib/vm.img", false, true},
		{"**/*.img", "vm.iso", false, false},
		{"/root.txt", "root.txt", false, true},
		{"/root.txt", "sub/root.txt", false, false},
		{"sub/dir/*.txt", "sub/dir/file.txt", false, true},
		{"sub/dir/*.txt", "other/sub/dir/file.txt", false, false},
		{"build/", "build", true, true},
		{"build/", "sub/build", true, true},
		{"build/", "build", false, false},
		{"file?.txt", "file1.txt", false, true},
		{"file?.txt", "file12.txt", false, false},
		{"file?.txt", "file/.txt", false, false},
		{"[ab].dat", "a.dat", false, true},
		{"[!ab].dat", "a.dat", false, false},
		{"[!ab].dat", "c.dat", false, true},
		{"cache/**", "cache/x/y", false, true},
		{"weird[name", "weird[name", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.match(tt.path, tt.isDir))
		})
	}
}

func TestPatternString(t *testing.T) {
	p, err := compilePattern("*.tmp")
	require.NoError(t, err)
	assert.Equal(t, "*.tmp", p.String())
}
