package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads filter rules from a file and appends them to the chain.
//
// One rule per line: "+ PATTERN" includes, "- PATTERN" or a bare PATTERN
// excludes. Blank lines and lines starting with # are ignored.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		pattern, include, ok := parseRule(scanner.Text())
		if !ok {
			continue
		}
		if err := c.add(pattern, include); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}

	return scanner.Err()
}

// parseRule splits one filter-file line into its pattern and direction.
// ok is false for blank lines and comments.
func parseRule(line string) (pattern string, include, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false, false
	}
	if rest, found := strings.CutPrefix(line, "+ "); found {
		return strings.TrimSpace(rest), true, true
	}
	if rest, found := strings.CutPrefix(line, "- "); found {
		return strings.TrimSpace(rest), false, true
	}
	return line, false, true
}
