package compiler

import (
	"html"
	"regexp"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
)

// Structure detection and extraction are regex heuristics, not a parser.
// A "<head>" inside a quoted attribute or a script string matches too; the
// injection points stay "before </head>" and "before </body>" either way.
var (
	doctypePattern  = regexp.MustCompile(`(?i)<!doctype\s+html`)
	htmlTagPattern  = regexp.MustCompile(`(?i)<html[\s>]`)
	headClose       = regexp.MustCompile(`(?i)</head\s*>`)
	bodyOpen        = regexp.MustCompile(`(?i)<body(?:\s[^>]*)?>`)
	bodyClose       = regexp.MustCompile(`(?i)</body\s*>`)
	htmlOpen        = regexp.MustCompile(`(?i)<html(?:\s[^>]*)?>`)
	htmlClose       = regexp.MustCompile(`(?i)</html\s*>`)
	headBlock       = regexp.MustCompile(`(?is)<head(?:\s[^>]*)?>(.*?)</head\s*>`)
	bodyBlock       = regexp.MustCompile(`(?is)<body(?:\s[^>]*)?>(.*)</body\s*>`)
	strayStructural = regexp.MustCompile(`(?i)<!doctype[^>]*>|</?html(?:\s[^>]*)?>|</?head(?:\s[^>]*)?>|</?body(?:\s[^>]*)?>`)
)

// IsCompleteDocument reports whether content carries both a doctype and an
// <html> tag.
func IsCompleteDocument(content string) bool {
	return doctypePattern.MatchString(content) && htmlTagPattern.MatchString(content)
}

// injectAssets leaves the document as it is and adds one <style> block
// before </head> and one <script> block before </body>. Without </head>
// the style goes before <body>, or right after <html>. Without </body> the
// script goes before </html>, or at the end.
func injectAssets(doc string, css, js []project.File, nav string) string {
	if style := styleBlock(css); style != "" {
		switch {
		case headClose.MatchString(doc):
			doc = insertBefore(doc, headClose, style)
		case bodyOpen.MatchString(doc):
			doc = insertBefore(doc, bodyOpen, style)
		default:
			doc = insertAfter(doc, htmlOpen, style)
		}
	}

	if script := scriptBlock(js, nav); script != "" {
		switch {
		case bodyClose.MatchString(doc):
			doc = insertBeforeLast(doc, bodyClose, script)
		case htmlClose.MatchString(doc):
			doc = insertBeforeLast(doc, htmlClose, script)
		default:
			doc += script
		}
	}
	return doc
}

// wrapFragment builds a full document around a page fragment, keeping the
// inner content of any <head> and <body> it carries.
func wrapFragment(content string, css, js []project.File, nav, lang string) string {
	head := ""
	if m := headBlock.FindStringSubmatch(content); m != nil {
		head = strings.TrimSpace(m[1])
	}

	var body string
	if m := bodyBlock.FindStringSubmatch(content); m != nil {
		body = m[1]
	} else {
		body = headBlock.ReplaceAllLiteralString(content, "")
		body = strayStructural.ReplaceAllLiteralString(body, "")
	}
	body = strings.TrimSpace(body)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="` + html.EscapeString(lang) + `">` + "\n")
	b.WriteString("<head>\n")
	b.WriteString(`<meta charset="UTF-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	if head != "" {
		b.WriteString(head + "\n")
	}
	b.WriteString(styleBlock(css))
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	if body != "" {
		b.WriteString(body + "\n")
	}
	b.WriteString(scriptBlock(js, nav))
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

func styleBlock(css []project.File) string {
	if len(css) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<style>\n")
	for _, f := range css {
		b.WriteString("/* " + f.Path + " */\n")
		b.WriteString(f.Content)
		b.WriteString("\n")
	}
	b.WriteString("</style>\n")
	return b.String()
}

func scriptBlock(js []project.File, nav string) string {
	if len(js) == 0 && nav == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("<script>\n")
	for _, f := range js {
		b.WriteString("/* " + f.Path + " */\n")
		b.WriteString(f.Content)
		b.WriteString("\n")
	}
	if nav != "" {
		b.WriteString(nav)
	}
	b.WriteString("</script>\n")
	return b.String()
}

func insertBefore(s string, re *regexp.Regexp, text string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + text + s[loc[0]:]
}

func insertBeforeLast(s string, re *regexp.Regexp, text string) string {
	all := re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return s
	}
	at := all[len(all)-1][0]
	return s[:at] + text + s[at:]
}

func insertAfter(s string, re *regexp.Regexp, text string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return text + s
	}
	return s[:loc[1]] + text + s[loc[1]:]
}
