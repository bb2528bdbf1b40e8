package compiler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// Component is a reusable fragment stored under components/.
type Component struct {
	Name    string
	Content string
}

// Components indexes every file under components/ by its name without the
// .html suffix. The result is sorted by name; when two files share a name
// the later one in files wins.
func Components(files []project.File) []Component {
	byName := make(map[string]string)
	for _, f := range files {
		if !f.IsComponent() {
			continue
		}
		name := f.Name
		if name == "" {
			name = f.Path[strings.LastIndex(f.Path, "/")+1:]
		}
		byName[strings.TrimSuffix(name, ".html")] = f.Content
	}

	out := make([]Component, 0, len(byName))
	for name, content := range byName {
		out = append(out, Component{Name: name, Content: content})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolvePlaceholders replaces, for every component, both the {{ name }}
// token and the empty <div id="name-placeholder"></div> element with the
// component content. Matching is case-insensitive and global. Component
// content is inserted literally.
func ResolvePlaceholders(content string, components []Component) string {
	for _, c := range components {
		if c.Name == "" {
			continue
		}
		name := regexp.QuoteMeta(c.Name)
		mustache := regexp.MustCompile(`(?i)\{\{\s*` + name + `\s*\}\}`)
		element := regexp.MustCompile(`(?i)<div[^>]*id=["']` + name + `-placeholder["'][^>]*>\s*</div>`)

		content = mustache.ReplaceAllLiteralString(content, c.Content)
		content = element.ReplaceAllLiteralString(content, c.Content)
	}
	return content
}
