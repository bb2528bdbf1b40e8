// Package compiler assembles the files of a project into one
// self-contained HTML document per entry page. It is pure: the same files
// and entry path always produce byte-identical output, and it never fails.
package compiler

import (
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// DefaultLang is the lang attribute of documents synthesized from fragments.
const DefaultLang = "pt-BR"

// Options control optional parts of a compiled document.
type Options struct {
	// InterceptNavigation adds a script that turns clicks on local page
	// links into {type: "navigate", page} messages to the parent frame.
	InterceptNavigation bool
	// Lang is the lang attribute used when a fragment is wrapped into a
	// document. Empty means DefaultLang.
	Lang string
}

// Compile resolves entryPath (falling back to index.html), replaces every
// component placeholder in it and inlines the project's CSS and JS. It
// returns the empty string when neither entryPath nor index.html exists.
func Compile(files []project.File, entryPath string, opts Options) string {
	entry := ResolveEntry(files, entryPath)
	if entry == nil {
		return ""
	}

	content := ResolvePlaceholders(entry.Content, Components(files))

	var css, js []project.File
	for _, f := range files {
		if f.Path == entry.Path {
			continue
		}
		switch assetKind(f) {
		case project.KindCSS:
			css = append(css, f)
		case project.KindJS:
			js = append(js, f)
		}
	}

	nav := ""
	if opts.InterceptNavigation {
		nav = NavigationScript
	}

	if IsCompleteDocument(content) {
		return injectAssets(content, css, js, nav)
	}
	lang := opts.Lang
	if lang == "" {
		lang = DefaultLang
	}
	return wrapFragment(content, css, js, nav, lang)
}

// assetKind normalizes aliases such as "javascript" and derives the kind
// from the extension when the file carries none.
func assetKind(f project.File) project.FileKind {
	if strings.TrimSpace(string(f.Kind)) == "" {
		return project.KindFromPath(f.Path)
	}
	return project.ParseKind(string(f.Kind))
}

// ResolveEntry returns the file at entryPath, or index.html when entryPath
// does not exist, or nil when neither does.
func ResolveEntry(files []project.File, entryPath string) *project.File {
	var fallback *project.File
	for i := range files {
		switch files[i].Path {
		case entryPath:
			return &files[i]
		case "index.html":
			if fallback == nil {
				fallback = &files[i]
			}
		}
	}
	return fallback
}
