// Package site exports a project as a static website and renders its file
// layout as a tree.
package site

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/compiler"
	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// Exporter writes the compiled pages and assets of a project to a directory.
type Exporter struct {
	OutputDir string
	Lang      string
	// BaseURL, when set, is used to write sitemap.xml.
	BaseURL  string
	Log      *zerolog.Logger
	Reporter progress.Reporter
}

// NewExporter creates an Exporter writing into outputDir.
func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// Export compiles every navigable page without navigation interception and
// writes it under its own path, then copies the remaining non-html files
// verbatim. Components are only inlined. Returns the number of pages written.
func (e *Exporter) Export(files []project.File) (int, error) {
	pages := project.Pages(files)
	if len(pages) == 0 {
		return 0, fmt.Errorf("no pages to export")
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}

	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(pages))
	defer reporter.Finish()

	opts := compiler.Options{Lang: e.Lang}
	for i, p := range pages {
		doc := compiler.Compile(files, p.Path, opts)
		if err := e.write(p.Path, doc); err != nil {
			return i, err
		}
		reporter.Update(i+1, p.Path)
	}

	for _, f := range files {
		if f.Kind == project.KindHTML {
			continue
		}
		if err := e.write(f.Path, f.Content); err != nil {
			return len(pages), err
		}
	}

	if e.BaseURL != "" {
		if err := e.writeSitemap(pages); err != nil {
			return len(pages), err
		}
	}

	if e.Log != nil {
		e.Log.Info().Int("pages", len(pages)).Str("dir", e.OutputDir).Msg("site exported")
	}
	return len(pages), nil
}

// write stores content at rel inside the output directory. Paths escaping
// the directory are rejected.
func (e *Exporter) write(rel, content string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to write %q outside the output directory", rel)
	}
	outPath := filepath.Join(e.OutputDir, clean)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

func (e *Exporter) writeSitemap(pages []project.File) error {
	base := strings.TrimSuffix(e.BaseURL, "/")
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		loc := base + "/" + p.Path
		if p.Path == "index.html" {
			loc = base + "/"
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: loc})
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	return e.write("sitemap.xml", xml.Header+string(data)+"\n")
}
