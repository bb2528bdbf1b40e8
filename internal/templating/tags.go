// Package templating detects {tag} markers in page templates and expands
// them from a variation.
package templating

import "regexp"

// tagPattern matches a template tag token such as {cidade}.
var tagPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DetectTags returns the unique tag names defined in content, in order of
// first appearance. Content without tags yields an empty, non-nil slice.
func DetectTags(content string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}

// IsTagName reports whether name is a valid tag identifier.
func IsTagName(name string) bool {
	return tagNamePattern.MatchString(name)
}

var tagNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
