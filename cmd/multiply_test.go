package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/variations"
)

func TestLoadDefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cidades.yml")
	content := `template: servico.html
output_pattern: servico-{cidade}.html
output_folder: cidades
rows: |
  São Paulo, Moema
  Campinas; Cambuí
variations:
  - cidade: Santos
    bairro: Gonzaga
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := loadDefinitionFile(path)
	if err != nil {
		t.Fatalf("loadDefinitionFile: %v", err)
	}
	if def.Template != "servico.html" || def.OutputPattern != "servico-{cidade}.html" || def.OutputFolder != "cidades" {
		t.Errorf("def = %+v", def)
	}
	if def.Rows != "São Paulo, Moema\nCampinas; Cambuí\n" {
		t.Errorf("Rows = %q", def.Rows)
	}
	if len(def.Variations) != 1 || def.Variations[0]["bairro"] != "Gonzaga" {
		t.Errorf("Variations = %v", def.Variations)
	}
}

func TestLoadDefinitionFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadDefinitionFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("variations: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadDefinitionFile(bad); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestMultiplyEntryRecordsCommittedPrefix(t *testing.T) {
	pages := []variations.GeneratedPage{{FilePath: "santos.html"}, {FilePath: "campinas.html"}}
	failure := &variations.MultiplyError{Row: 2, Committed: 2, Err: errors.New("disk full")}

	e := multiplyEntry("p1", "servico.html", pages, failure)
	if e.Outcome != audit.OutcomeFailure || !strings.Contains(e.Detail, "disk full") {
		t.Errorf("entry = %+v, want failure with detail", e)
	}
	if len(e.AffectedPaths) != 2 || e.AffectedPaths[1] != "campinas.html" {
		t.Errorf("affected paths = %v", e.AffectedPaths)
	}
	if e.Action != audit.ActionPagesMultiplied || e.ProjectID != "p1" {
		t.Errorf("entry = %+v", e)
	}

	ok := multiplyEntry("p1", "servico.html", pages, nil)
	if ok.Outcome != "" || ok.Detail != "" {
		t.Errorf("successful run entry = %+v", ok)
	}
}

func TestReportMultiplyListsWrittenPages(t *testing.T) {
	pages := []variations.GeneratedPage{{FilePath: "santos.html"}}

	var buf bytes.Buffer
	reportMultiply(&buf, "p1", pages, errors.New("disk full"))
	out := buf.String()
	if !strings.Contains(out, "stopped after 1 pages") || !strings.Contains(out, "santos.html") {
		t.Errorf("failure report = %q", out)
	}

	buf.Reset()
	reportMultiply(&buf, "p1", pages, nil)
	if !strings.Contains(buf.String(), "1 pages generated in project p1") {
		t.Errorf("success report = %q", buf.String())
	}
}
