package templating

import (
	"regexp"
	"sort"
	"strings"
)

// Variation maps tag names to literal values. One variation is one page.
type Variation map[string]string

// GeneratePageContent replaces every case-insensitive {tag} occurrence in
// template with the raw value bound in v. Tags missing from v are left as
// literal text and keys of v that do not occur are ignored.
func GeneratePageContent(template string, v Variation) string {
	return substitute(template, v, identity)
}

// GenerateFileName expands pattern like GeneratePageContent, but slugifies
// each value first so the result never carries spaces, accents or
// punctuation coming from the variation.
func GenerateFileName(pattern string, v Variation) string {
	return substitute(pattern, v, Slugify)
}

func identity(s string) string { return s }

// substitute performs the replacement in a single scan of text. Values are
// written to the output and never rescanned, so a value that itself
// contains a {token} is not expanded again.
func substitute(text string, v Variation, sanitize func(string) string) string {
	if len(v) == 0 {
		return text
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return text
	}
	// Sorted so that keys differing only by case resolve the same way
	// every run: the lexically smallest key wins.
	sort.Strings(keys)

	values := make(map[string]string, len(keys))
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		lower := strings.ToLower(k)
		if _, dup := values[lower]; dup {
			continue
		}
		values[lower] = sanitize(v[k])
		quoted = append(quoted, regexp.QuoteMeta(k))
	}

	re := regexp.MustCompile(`(?i)\{(` + strings.Join(quoted, "|") + `)\}`)
	return re.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.ToLower(match[1 : len(match)-1])
		if val, ok := values[name]; ok {
			return val
		}
		return match
	})
}
