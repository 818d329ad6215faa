package index

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if a path should be excluded based on the given patterns
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/
//   - Path patterns: build/*, **/cache/*
func shouldExclude(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		normalizedPattern := filepath.ToSlash(pattern)

		switch {
		case strings.HasSuffix(normalizedPattern, "/"):
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			for _, part := range strings.Split(normalizedPath, "/") {
				if matchGlob(part, dirPattern) {
					return true
				}
			}

		case strings.HasPrefix(normalizedPattern, "**/"):
			// **/pattern matches pattern at any depth
			suffix := strings.TrimPrefix(normalizedPattern, "**/")
			if matchGlob(baseName, suffix) || matchGlob(normalizedPath, suffix) {
				return true
			}
			parts := strings.Split(normalizedPath, "/")
			for i := range parts {
				if matchGlob(strings.Join(parts[i:], "/"), suffix) {
					return true
				}
			}

		case strings.Contains(normalizedPattern, "/"):
			if matchGlob(normalizedPath, normalizedPattern) {
				return true
			}

		default:
			if matchGlob(baseName, normalizedPattern) {
				return true
			}
		}
	}

	return false
}

// matchGlob performs glob matching, treating malformed patterns as non-matching
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}
