package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// compiledPattern is a glob compiled to a regular expression.
//
// Patterns follow rsync conventions: a trailing / restricts the rule to
// directories, a / anywhere else anchors it to the search root, otherwise
// it matches the final path component(s). * and ? stop at /, ** crosses it.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	dirOnly  bool
}

func compilePattern(pattern string) (*compiledPattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty filter pattern")
	}

	cp := &compiledPattern{original: pattern}
	body := pattern

	if trimmed, ok := strings.CutSuffix(body, "/"); ok {
		cp.dirOnly = true
		body = trimmed
	}

	anchored := strings.Contains(body, "/")
	body = strings.TrimPrefix(body, "/")

	expr := globToRegex(body)
	if anchored {
		expr = "^" + expr + "$"
	} else {
		expr = "(^|/)" + expr + "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("filter pattern %q: %w", pattern, err)
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

func (cp *compiledPattern) String() string { return cp.original }

// globToRegex translates glob syntax into an unanchored regex body.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 2
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		case c == '[':
			end := classEnd(glob, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := glob[i+1 : end]
			if rest, ok := strings.CutPrefix(class, "!"); ok {
				class = "^" + rest
			}
			b.WriteString("[" + class + "]")
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// classEnd returns the index of the ] closing the class opened at start,
// or -1. A ] directly after [ or [! is a literal member.
func classEnd(glob string, start int) int {
	j := start + 1
	if j < len(glob) && glob[j] == '!' {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for ; j < len(glob); j++ {
		if glob[j] == ']' {
			return j
		}
	}
	return -1
}
