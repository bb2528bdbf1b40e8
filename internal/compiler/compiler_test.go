package compiler

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ziadkadry99/auto-site/internal/project"
)

func file(path, content string) project.File {
	return project.NewFile(path, project.FileFields{Content: content})
}

func TestCompileNothingResolves(t *testing.T) {
	if got := Compile(nil, "missing.html", Options{}); got != "" {
		t.Errorf("Compile(nil) = %q, want empty", got)
	}
	files := []project.File{file("about.html", "<p>about</p>")}
	if got := Compile(files, "missing.html", Options{}); got != "" {
		t.Errorf("Compile without index.html = %q, want empty", got)
	}
}

func TestCompileFallsBackToIndex(t *testing.T) {
	files := []project.File{file("index.html", "<p>home</p>")}
	got := Compile(files, "missing.html", Options{})
	if !strings.Contains(got, "<p>home</p>") {
		t.Errorf("fallback output missing index content:\n%s", got)
	}
	if got != Compile(files, "index.html", Options{}) {
		t.Error("fallback output differs from compiling index.html directly")
	}
}

func TestResolveEntryPrefersExactPath(t *testing.T) {
	files := []project.File{file("index.html", "home"), file("servico.html", "svc")}
	if e := ResolveEntry(files, "servico.html"); e == nil || e.Path != "servico.html" {
		t.Errorf("ResolveEntry = %+v", e)
	}
}

func TestPlaceholdersBothForms(t *testing.T) {
	files := []project.File{
		file("index.html", `<body>{{ header }}<main>x</main><div id="header-placeholder"></div></body>`),
		file("components/header.html", "<nav>H</nav>"),
	}
	got := Compile(files, "index.html", Options{})
	if n := strings.Count(got, "<nav>H</nav>"); n != 2 {
		t.Errorf("component inserted %d times, want 2:\n%s", n, got)
	}
	if strings.Contains(got, "{{") || strings.Contains(got, "placeholder") {
		t.Errorf("unresolved placeholder left:\n%s", got)
	}
}

func TestResolvePlaceholders(t *testing.T) {
	comps := []Component{{Name: "footer", Content: "<footer>F</footer>"}}
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"tight mustache", "{{footer}}", "<footer>F</footer>"},
		{"spaced mustache", "{{   footer  }}", "<footer>F</footer>"},
		{"case insensitive", "{{ FOOTER }}", "<footer>F</footer>"},
		{"element with attributes", `<div class="x" id="footer-placeholder" data-a="1"></div>`, "<footer>F</footer>"},
		{"single quotes", `<div id='footer-placeholder'></div>`, "<footer>F</footer>"},
		{"whitespace inside div", "<div id=\"footer-placeholder\">\n  </div>", "<footer>F</footer>"},
		{"non-empty div untouched", `<div id="footer-placeholder">x</div>`, `<div id="footer-placeholder">x</div>`},
		{"other component untouched", "{{ header }}", "{{ header }}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePlaceholders(tt.content, comps); got != tt.want {
				t.Errorf("ResolvePlaceholders(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestComponentContentIsLiteral(t *testing.T) {
	comps := []Component{{Name: "price", Content: "R$ 10 $1 ${name}"}}
	if got := ResolvePlaceholders("{{ price }}", comps); got != "R$ 10 $1 ${name}" {
		t.Errorf("got %q", got)
	}
}

func TestComponentsIndex(t *testing.T) {
	files := []project.File{
		file("components/nav.html", "n"),
		file("index.html", "i"),
		file("components/footer.html", "f"),
		file("styles.css", "s"),
	}
	got := Components(files)
	if len(got) != 2 || got[0].Name != "footer" || got[1].Name != "nav" {
		t.Errorf("Components = %+v", got)
	}
}

func TestCompleteDocumentPassthrough(t *testing.T) {
	doc := "<!DOCTYPE html>\n<html lang=\"en\">\n<head><title>T</title></head>\n<body><h1>Hi</h1></body>\n</html>"
	files := []project.File{
		file("index.html", doc),
		file("styles.css", "body{color:red}"),
		file("theme.css", "h1{margin:0}"),
		file("app.js", "console.log(1)"),
	}
	got := Compile(files, "index.html", Options{InterceptNavigation: true})

	if strings.Count(got, "<style>") != 1 || strings.Count(got, "<script>") != 1 {
		t.Fatalf("want exactly one style and one script block:\n%s", got)
	}
	if strings.Count(got, "<head>") != 1 || strings.Count(got, "</head>") != 1 ||
		strings.Count(got, "<body>") != 1 || strings.Count(got, "</body>") != 1 {
		t.Fatalf("document structure changed:\n%s", got)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>\n<html lang=\"en\">") {
		t.Errorf("prefix changed:\n%s", got)
	}
	if i, j := strings.Index(got, "</style>"), strings.Index(got, "</head>"); i > j {
		t.Error("style block is not inside head")
	}
	if i, j := strings.Index(got, "</script>"), strings.Index(got, "</body>"); i > j {
		t.Error("script block is not inside body")
	}
	for _, want := range []string{"/* styles.css */", "/* theme.css */", "/* app.js */", "postMessage"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	stripped := strings.Replace(got, got[strings.Index(got, "<style>"):strings.Index(got, "</style>\n")+len("</style>\n")], "", 1)
	stripped = strings.Replace(stripped, stripped[strings.Index(stripped, "<script>"):strings.Index(stripped, "</script>\n")+len("</script>\n")], "", 1)
	if stripped != doc {
		t.Errorf("removing injected blocks does not give back the original:\n%s", stripped)
	}
}

func TestCompleteDocumentWithoutAssets(t *testing.T) {
	doc := "<!doctype html><html><head></head><body>x</body></html>"
	got := Compile([]project.File{file("index.html", doc)}, "index.html", Options{})
	if got != doc {
		t.Errorf("document without assets changed:\n%s", got)
	}
}

func TestCompleteDocumentMissingHeadAndBodyClose(t *testing.T) {
	doc := "<!DOCTYPE html><html><body>x"
	files := []project.File{file("index.html", doc), file("a.css", "a{}"), file("a.js", "f()")}
	got := Compile(files, "index.html", Options{})
	if !strings.Contains(got, "<html><style>") && !strings.Contains(got, "<style>\n/* a.css */\na{}\n</style>\n<body>") {
		t.Errorf("style not placed before <body>:\n%s", got)
	}
	if !strings.HasSuffix(got, "</script>\n") {
		t.Errorf("script not appended at end:\n%s", got)
	}
}

func TestFragmentWrapped(t *testing.T) {
	files := []project.File{
		file("index.html", "<head><title>Loja</title></head><body><h1>Oi</h1><a href=\"contato.html\">c</a></body>"),
		file("styles.css", "h1{}"),
		file("main.js", "init()"),
		file("components/header.html", "<nav></nav>"),
	}
	got := Compile(files, "index.html", Options{InterceptNavigation: true})

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="pt-BR">`,
		`<meta charset="UTF-8">`,
		`<meta name="viewport"`,
		"<title>Loja</title>",
		"/* styles.css */\nh1{}",
		"<h1>Oi</h1>",
		"/* main.js */\ninit()",
		"'navigate'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "<head>") != 1 || strings.Count(got, "<body>") != 1 {
		t.Errorf("duplicated structure:\n%s", got)
	}
	if strings.Contains(got, "/* components/header.html */") {
		t.Error("component inlined as an asset")
	}
}

func TestFragmentWithoutBodyStripsRemnants(t *testing.T) {
	files := []project.File{file("p.html", "<html><head><meta name=\"d\" content=\"x\"></head><section>S</section></html>")}
	got := Compile(files, "p.html", Options{Lang: "en"})
	if !strings.Contains(got, `<html lang="en">`) {
		t.Errorf("lang not applied:\n%s", got)
	}
	if strings.Count(got, "<html") != 1 || strings.Count(got, "<meta name=\"d\"") != 1 {
		t.Errorf("remnants not stripped:\n%s", got)
	}
	body := got[strings.Index(got, "<body>"):]
	if !strings.Contains(body, "<section>S</section>") || strings.Contains(body, "<meta name=\"d\"") {
		t.Errorf("body content wrong:\n%s", body)
	}
}

func TestHeaderTagIsNotHead(t *testing.T) {
	files := []project.File{file("index.html", "<header>Top</header><p>x</p>")}
	got := Compile(files, "index.html", Options{})
	body := got[strings.Index(got, "<body>"):]
	if !strings.Contains(body, "<header>Top</header>") {
		t.Errorf("<header> treated as <head>:\n%s", got)
	}
}

func TestNavigationScriptOnlyWhenRequested(t *testing.T) {
	files := []project.File{file("index.html", "<p>x</p>")}
	if strings.Contains(Compile(files, "index.html", Options{}), "postMessage") {
		t.Error("navigation script emitted without InterceptNavigation")
	}
	if !strings.Contains(Compile(files, "index.html", Options{InterceptNavigation: true}), "postMessage") {
		t.Error("navigation script missing with InterceptNavigation")
	}
}

func TestNavigationScriptFilters(t *testing.T) {
	for _, want := range []string{`indexOf('http') === 0`, `indexOf('//') === 0`, `\.(html|php)$`} {
		if !strings.Contains(NavigationScript, want) {
			t.Errorf("navigation script missing %q", want)
		}
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	files := []project.File{
		file("index.html", "{{ a }}{{ b }}<p>x</p>"),
		file("components/b.html", "B"),
		file("components/a.html", "A{{ b }}"),
		file("x.css", "x"),
		file("y.js", "y"),
	}
	first := Compile(files, "index.html", Options{InterceptNavigation: true})
	for i := 0; i < 5; i++ {
		if got := Compile(files, "index.html", Options{InterceptNavigation: true}); got != first {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestIsCompleteDocument(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<!DOCTYPE html><html>", true},
		{"<!doctype HTML>\n<HTML lang=x>", true},
		{"<html><body></body></html>", false},
		{"<!DOCTYPE html><p>", false},
		{"<htmlx>", false},
	}
	for _, tt := range tests {
		if got := IsCompleteDocument(tt.in); got != tt.want {
			t.Errorf("IsCompleteDocument(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

var safeOutput = regexp.MustCompile(`(?s)^<!DOCTYPE html>.*</html>\n$`)

func TestFragmentOutputShape(t *testing.T) {
	files := []project.File{file("index.html", "plain text")}
	if got := Compile(files, "index.html", Options{}); !safeOutput.MatchString(got) {
		t.Errorf("unexpected document shape:\n%s", got)
	}
}

func TestCompileNormalizesAssetKinds(t *testing.T) {
	files := []project.File{
		{Path: "index.html", Kind: project.KindHTML, Content: "<p>x</p>"},
		{Path: "app.js", Kind: "javascript", Content: "console.log('JSMARK')"},
		{Path: "mod.js", Kind: "MJS", Content: "console.log('MJSMARK')"},
		{Path: "site.css", Kind: "", Content: ".cssmark{}"},
		{Path: "extra.js", Kind: "  ", Content: "console.log('BLANKMARK')"},
		{Path: "notes.txt", Kind: "", Content: "TXTMARK"},
	}
	got := Compile(files, "index.html", Options{})
	for _, mark := range []string{"JSMARK", "MJSMARK", ".cssmark{}", "BLANKMARK"} {
		if !strings.Contains(got, mark) {
			t.Errorf("output missing %q:\n%s", mark, got)
		}
	}
	if strings.Contains(got, "TXTMARK") {
		t.Errorf("non-asset file inlined:\n%s", got)
	}
}
