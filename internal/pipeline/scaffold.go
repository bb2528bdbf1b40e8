package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path"
	"regexp"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/sections"
	"github.com/ziadkadry99/auto-site/internal/templating"
)

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	fontRe     = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
)

var defaultPalette = Palette{
	Primary:    "#1d4ed8",
	Secondary:  "#0f172a",
	Accent:     "#f59e0b",
	Background: "#ffffff",
	Text:       "#1f2937",
}

const defaultFont = "Inter"

var layoutTemplates = template.Must(template.New("layout").Parse(`
{{define "header"}}<header class="site-header">
  <a class="brand" href="index.html">{{.Name}}</a>
  <button class="nav-toggle" aria-label="Menu">&#9776;</button>
  <nav class="site-nav">{{range .Pages}}
    <a href="{{.Path}}">{{.Title}}</a>{{end}}
  </nav>
</header>{{end}}
{{define "footer"}}<footer class="site-footer">
  <p><strong>{{.Name}}</strong>{{if .Tagline}} · {{.Tagline}}{{end}}</p>
</footer>{{end}}
`))

const stylesTemplate = `:root {
  --color-primary: %s;
  --color-secondary: %s;
  --color-accent: %s;
  --color-background: %s;
  --color-text: %s;
  --font-family: '%s', system-ui, sans-serif;
}

* { box-sizing: border-box; }
body { margin: 0; font-family: var(--font-family); color: var(--color-text); background: var(--color-background); line-height: 1.6; }
a { color: var(--color-primary); }
main > section { padding: 4rem 1.5rem; max-width: 1100px; margin: 0 auto; }
.site-header { display: flex; align-items: center; justify-content: space-between; padding: 1rem 1.5rem; background: var(--color-secondary); }
.site-header .brand { color: #fff; font-weight: 700; text-decoration: none; }
.site-nav a { color: #fff; margin-left: 1rem; text-decoration: none; }
.nav-toggle { display: none; background: none; border: 0; color: #fff; font-size: 1.5rem; }
.hero { text-align: center; }
.button { display: inline-block; padding: .75rem 1.5rem; border-radius: .5rem; background: var(--color-accent); color: #fff; text-decoration: none; }
.site-footer { padding: 2rem 1.5rem; text-align: center; background: var(--color-secondary); color: #fff; }

@media (max-width: 768px) {
  .nav-toggle { display: block; }
  .site-nav { display: none; }
  .site-nav.open { display: flex; flex-direction: column; }
}
`

const mainScript = `document.addEventListener('DOMContentLoaded', function () {
  var toggle = document.querySelector('.nav-toggle');
  var nav = document.querySelector('.site-nav');
  if (toggle && nav) {
    toggle.addEventListener('click', function () { nav.classList.toggle('open'); });
  }
});
`

// Scaffold renders plan into site files: header and footer components, a
// stylesheet from the palette, a small script, and one page fragment per
// planned page. Files are always returned; the error joins section
// rendering failures, whose sections are replaced by comments.
func Scaffold(plan *SitePlan) ([]project.File, error) {
	pages := normalizePages(plan)
	view := struct {
		Name    string
		Tagline string
		Pages   []PagePlan
	}{plan.Name, plan.Tagline, pages}

	header, err := execute("header", view)
	if err != nil {
		return nil, err
	}
	footer, err := execute("footer", view)
	if err != nil {
		return nil, err
	}

	files := []project.File{
		project.NewFile("components/header.html", project.FileFields{Content: header}),
		project.NewFile("components/footer.html", project.FileFields{Content: footer}),
		project.NewFile("styles.css", project.FileFields{Content: Stylesheet(plan.Palette, plan.Font)}),
		project.NewFile("main.js", project.FileFields{Content: mainScript}),
	}

	var errs []error
	for _, p := range pages {
		body, err := sections.RenderAll(p.Sections)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Path, err))
		}
		var sb strings.Builder
		sb.WriteString("{{ header }}\n<main>\n")
		sb.WriteString(body)
		sb.WriteString("\n</main>\n<div id=\"footer-placeholder\"></div>\n")
		files = append(files, project.NewFile(p.Path, project.FileFields{Content: sb.String()}))
	}
	if len(errs) > 0 {
		return files, errors.Join(errs...)
	}
	return files, nil
}

// Stylesheet renders the site stylesheet. Colours that are not hex values
// and fonts with unexpected characters are replaced by defaults.
func Stylesheet(p Palette, font string) string {
	if !fontRe.MatchString(font) {
		font = defaultFont
	}
	return fmt.Sprintf(stylesTemplate,
		color(p.Primary, defaultPalette.Primary),
		color(p.Secondary, defaultPalette.Secondary),
		color(p.Accent, defaultPalette.Accent),
		color(p.Background, defaultPalette.Background),
		color(p.Text, defaultPalette.Text),
		font,
	)
}

func color(v, def string) string {
	v = strings.TrimSpace(v)
	if hexColorRe.MatchString(v) {
		return v
	}
	return def
}

// normalizePages gives every planned page a unique .html path and makes sure
// the first page is index.html. A plan without pages gets a single home page
// with a hero.
func normalizePages(plan *SitePlan) []PagePlan {
	if len(plan.Pages) == 0 {
		hero, _ := sections.New(sections.KindHero, sections.HeroContent{Title: plan.Name, Subtitle: plan.Tagline})
		return []PagePlan{{Path: "index.html", Title: "Início", Sections: []sections.Section{hero}}}
	}

	seen := make(map[string]bool)
	out := make([]PagePlan, 0, len(plan.Pages))
	for i, p := range plan.Pages {
		p.Path = pagePath(p)
		if i == 0 && !hasIndex(plan.Pages) {
			p.Path = "index.html"
		}
		if seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		if p.Title == "" {
			p.Title = strings.TrimSuffix(path.Base(p.Path), ".html")
		}
		out = append(out, p)
	}
	return out
}

func pagePath(p PagePlan) string {
	clean := cleanPath(p.Path)
	if clean == "" {
		clean = templating.Slugify(p.Title)
		if clean == "" {
			clean = "pagina"
		}
	}
	if project.KindFromPath(clean) != project.KindHTML {
		clean += ".html"
	}
	return clean
}

func hasIndex(pages []PagePlan) bool {
	for _, p := range pages {
		if cleanPath(p.Path) == "index.html" {
			return true
		}
	}
	return false
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := layoutTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
