package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ExcludeMatcher holds compiled glob-style exclusion patterns. Patterns are
// matched against forward-slash relative paths, the way fnmatch treats them:
// '*' crosses path separators, '?' matches one character, and character
// classes are supported. A pattern matches a path if it matches the full
// relative path or any suffix obtained by dropping leading path components,
// so "test_*.py" excludes a deeply nested test file without needing "**/"
// prefixes. Leading "**/" segments mean "match at any depth".
type ExcludeMatcher struct {
	filePatterns []*regexp.Regexp
	dirPatterns  []*regexp.Regexp // Trailing "/**" stripped, used for subtree pruning
}

// NewExcludeMatcher compiles the given patterns. An invalid pattern is a
// construction-time error, not a silent skip.
func NewExcludeMatcher(patterns []string) (*ExcludeMatcher, error) {
	m := &ExcludeMatcher{}
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}

		fileRe, err := compileGlob(normalizeGlob(pat))
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
		m.filePatterns = append(m.filePatterns, fileRe)

		// A pattern like "**/venv/**" should prune the whole "venv" subtree
		// rather than being tested file by file inside it.
		if trimmed, ok := stripTrailingWildcard(pat); ok {
			dirRe, err := compileGlob(normalizeGlob(trimmed))
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
			}
			m.dirPatterns = append(m.dirPatterns, dirRe)
		}
	}
	return m, nil
}

// MatchFile reports whether the relative file path matches any exclusion
// pattern, either in full or as a path suffix.
func (m *ExcludeMatcher) MatchFile(relPath string) bool {
	return matchAnySuffix(m.filePatterns, NormalizeRelPath(relPath))
}

// MatchDir reports whether a directory at the given relative path should be
// pruned entirely, so that huge dependency trees like venv/ are never walked.
func (m *ExcludeMatcher) MatchDir(relPath string) bool {
	normalized := NormalizeRelPath(relPath)
	if matchAnySuffix(m.dirPatterns, normalized) {
		return true
	}
	return matchAnySuffix(m.filePatterns, normalized)
}

// NormalizeRelPath converts a relative path to forward slashes for pattern
// matching, trimming any leading "./".
func NormalizeRelPath(relPath string) string {
	return strings.TrimPrefix(filepath.ToSlash(relPath), "./")
}

// matchAnySuffix tests the path and every suffix obtained by dropping leading
// components against each compiled pattern.
func matchAnySuffix(patterns []*regexp.Regexp, path string) bool {
	if len(patterns) == 0 || path == "" {
		return false
	}
	parts := strings.Split(path, "/")
	for _, re := range patterns {
		for i := range parts {
			if re.MatchString(strings.Join(parts[i:], "/")) {
				return true
			}
		}
	}
	return false
}

// normalizeGlob collapses "**" segments the way the grading config expects:
// a leading or embedded "**/" means any depth, and a bare "**" degrades to "*".
func normalizeGlob(pat string) string {
	pat = strings.ReplaceAll(pat, "**/", "")
	return strings.ReplaceAll(pat, "**", "*")
}

// stripTrailingWildcard removes a trailing "/**" or "/*" segment, returning
// the directory portion of the pattern and whether anything was stripped.
func stripTrailingWildcard(pat string) (string, bool) {
	if trimmed := strings.TrimSuffix(pat, "/**"); trimmed != pat {
		return trimmed, trimmed != ""
	}
	if trimmed := strings.TrimSuffix(pat, "/*"); trimmed != pat {
		return trimmed, trimmed != ""
	}
	return pat, false
}

// compileGlob translates an fnmatch-style glob into an anchored regular
// expression. Unlike path.Match, '*' here crosses path separators, which is
// what the exclusion semantics call for.
func compileGlob(pat string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pat); i++ {
		switch c := pat[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pat) && (pat[j] == '!' || pat[j] == '^') {
				j++
			}
			if j < len(pat) && pat[j] == ']' {
				j++
			}
			for j < len(pat) && pat[j] != ']' {
				j++
			}
			if j >= len(pat) {
				// Unterminated class, treat the bracket literally
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			class := strings.ReplaceAll(pat[i+1:j], `\`, `\\`)
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
