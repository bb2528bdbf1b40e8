package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/auto-site/internal/config"
	"github.com/ziadkadry99/auto-site/internal/db"
	"github.com/ziadkadry99/auto-site/internal/llm"
	"github.com/ziadkadry99/auto-site/internal/notifications"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/sections"
)

// --- Mock LLM Provider ---

// scriptedProvider answers each call with the next canned content.
type scriptedProvider struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []llm.CompletionRequest
}

func (m *scriptedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return &llm.CompletionResponse{Content: reply, InputTokens: 100, OutputTokens: 50, Model: "gpt-4o-mini"}, nil
}

func (m *scriptedProvider) Name() string { return "scripted" }

const planJSON = `{
  "name": "Padaria Pão Quente",
  "tagline": "Pão fresco toda manhã",
  "palette": {"primary": "#b45309", "secondary": "#292524", "accent": "#f59e0b", "background": "#fffbeb", "text": "red; }"},
  "font": "Lora",
  "pages": [
    {"path": "index.html", "title": "Início", "sections": [
      {"kind": "hero", "content": {"title": "Padaria Pão Quente", "subtitle": "Desde 1980"}},
      {"kind": "about", "content": {"title": "Sobre", "body": "Fazemos **pão** artesanal."}}
    ]},
    {"path": "./contato", "title": "Contato", "sections": [
      {"kind": "contact", "content": {"title": "Fale conosco", "phone": "(11) 5555-0000"}}
    ]}
  ]
}`

// --- Parsing ---

func TestParseFilesShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare array", `[{"path": "index.html", "content": "<h1>oi</h1>"}]`},
		{"single object", `{"path": "index.html", "content": "<h1>oi</h1>"}`},
		{"wrapped files", `{"files": [{"path": "index.html", "content": "<h1>oi</h1>"}]}`},
		{"wrapped result", `{"result": [{"path": "index.html", "content": "<h1>oi</h1>"}]}`},
		{"wrapped code", `{"code": [{"path": "index.html", "content": "<h1>oi</h1>"}]}`},
		{"wrapped data", `{"data": [{"path": "index.html", "content": "<h1>oi</h1>"}]}`},
		{"wrapped output", `{"output": [{"path": "index.html", "content": "<h1>oi</h1>"}]}`},
		{"fenced", "```json\n[{\"path\": \"index.html\", \"content\": \"<h1>oi</h1>\"}]\n```"},
		{"fenced wrapped", "```\n{\"files\": [{\"path\": \"/index.html\", \"content\": \"<h1>oi</h1>\"}]}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := parseFiles(tt.raw)
			if err != nil {
				t.Fatalf("parseFiles: %v", err)
			}
			if len(files) != 1 {
				t.Fatalf("got %d files, want 1", len(files))
			}
			f := files[0]
			if f.Path != "index.html" || f.Kind != project.KindHTML || f.Content != "<h1>oi</h1>" || f.Name != "index.html" {
				t.Errorf("file = %+v", f)
			}
		})
	}
}

func TestParseFilesKindAliases(t *testing.T) {
	files, err := parseFiles(`[
		{"path": "app.js", "type": "javascript", "content": "x"},
		{"path": "./theme.css", "content": "y"},
		{"path": "", "content": "dropped"}
	]`)
	if err != nil {
		t.Fatalf("parseFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Kind != project.KindJS {
		t.Errorf("app.js kind = %q", files[0].Kind)
	}
	if files[1].Path != "theme.css" || files[1].Kind != project.KindCSS {
		t.Errorf("theme.css = %+v", files[1])
	}
}

func TestParseFilesRejects(t *testing.T) {
	for _, raw := range []string{"", "Here are your files!", `{"files": []}`, `[`, `[]`} {
		if _, err := parseFiles(raw); err == nil {
			t.Errorf("parseFiles(%q) should fail", raw)
		}
	}
	if _, err := parseFiles(`{"files": []}`); !errors.Is(err, ErrNoFiles) {
		t.Errorf("empty wrapper should give ErrNoFiles, got %v", err)
	}
}

func TestMergeOverridesByPath(t *testing.T) {
	base := []project.File{
		{Path: "index.html", Content: "scaffold"},
		{Path: "styles.css", Content: "base"},
	}
	got := merge(base, []project.File{
		{Path: "extra.js", Content: "new"},
		{Path: "index.html", Content: "refined"},
	})
	want := []string{"index.html:refined", "styles.css:base", "extra.js:new"}
	if len(got) != len(want) {
		t.Fatalf("got %d files, want %d", len(got), len(want))
	}
	for i, f := range got {
		if f.Path+":"+f.Content != want[i] {
			t.Errorf("[%d] = %s:%s, want %s", i, f.Path, f.Content, want[i])
		}
	}
	if base[0].Content != "scaffold" {
		t.Error("merge modified its input")
	}
}

// --- Scaffold ---

func TestScaffold(t *testing.T) {
	plan, err := parsePlan(planJSON)
	if err != nil {
		t.Fatalf("parsePlan: %v", err)
	}
	files, err := Scaffold(plan)
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	byPath := make(map[string]project.File)
	for _, f := range files {
		byPath[f.Path] = f
	}
	for _, p := range []string{"components/header.html", "components/footer.html", "styles.css", "main.js", "index.html", "contato.html"} {
		if _, ok := byPath[p]; !ok {
			t.Errorf("missing %s", p)
		}
	}

	index := byPath["index.html"].Content
	if !strings.Contains(index, "{{ header }}") || !strings.Contains(index, `<div id="footer-placeholder"></div>`) {
		t.Errorf("index.html lacks placeholders:\n%s", index)
	}
	if !strings.Contains(index, "<strong>pão</strong>") {
		t.Errorf("about markdown not rendered:\n%s", index)
	}
	if !strings.Contains(byPath["components/header.html"].Content, `href="contato.html"`) {
		t.Errorf("header lacks nav link:\n%s", byPath["components/header.html"].Content)
	}

	css := byPath["styles.css"].Content
	if !strings.Contains(css, "--color-primary: #b45309;") || !strings.Contains(css, "'Lora'") {
		t.Errorf("palette not applied:\n%s", css)
	}
	if strings.Contains(css, "red; }") || !strings.Contains(css, "--color-text: #1f2937;") {
		t.Error("malformed colour should fall back to the default")
	}
}

func TestScaffoldEmptyPlan(t *testing.T) {
	files, err := Scaffold(&SitePlan{Name: "Oficina"})
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	pages := project.Pages(files)
	if len(pages) != 1 || pages[0].Path != "index.html" {
		t.Fatalf("pages = %+v", pages)
	}
	if !strings.Contains(pages[0].Content, "Oficina") {
		t.Errorf("home page lacks hero:\n%s", pages[0].Content)
	}
}

func TestScaffoldUnknownSection(t *testing.T) {
	plan := &SitePlan{Name: "X", Pages: []PagePlan{{
		Path:     "sobre.html",
		Sections: []sections.Section{{Kind: "carousel", Content: json.RawMessage(`{}`)}},
	}}}
	files, err := Scaffold(plan)
	if !errors.Is(err, sections.ErrUnknownKind) {
		t.Fatalf("error = %v, want ErrUnknownKind", err)
	}
	pages := project.Pages(files)
	if len(pages) != 1 || pages[0].Path != "index.html" {
		t.Errorf("first page should become index.html, got %+v", pages)
	}
}

func TestStylesheetRejectsFontInjection(t *testing.T) {
	css := Stylesheet(Palette{}, "Lora'; } body { display:none")
	if !strings.Contains(css, "'Inter'") {
		t.Errorf("font should fall back to Inter:\n%s", css)
	}
}

// --- Generator ---

func TestGenerateFullPipeline(t *testing.T) {
	mock := &scriptedProvider{replies: []string{
		"```json\n" + planJSON + "\n```",
		`{"files": [{"path": "index.html", "kind": "html", "content": "{{ header }}<h1>Refinado</h1>"}, {"path": "extra.css", "content": "h1{}"}]}`,
	}}
	g := NewGenerator(mock, config.QualityNormal, "gpt-4o-mini", nil, nil)

	files, err := g.Generate(context.Background(), Briefing{Description: "Uma padaria de bairro"}, Context{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(mock.requests) != 2 {
		t.Fatalf("calls = %d, want 2", len(mock.requests))
	}
	if !mock.requests[0].JSONMode {
		t.Error("design analysis should use JSON mode")
	}

	var index, extra *project.File
	for i := range files {
		switch files[i].Path {
		case "index.html":
			index = &files[i]
		case "extra.css":
			extra = &files[i]
		}
	}
	if index == nil || index.Content != "{{ header }}<h1>Refinado</h1>" {
		t.Errorf("index.html not overridden: %+v", index)
	}
	if extra == nil || extra.Kind != project.KindCSS {
		t.Errorf("extra.css missing: %+v", extra)
	}

	calls, in, out, _ := g.Usage.Totals()
	if calls != 2 || in != 200 || out != 100 {
		t.Errorf("usage = %d/%d/%d", calls, in, out)
	}
}

func TestGenerateKeepsScaffoldOnBadCodegen(t *testing.T) {
	mock := &scriptedProvider{replies: []string{planJSON, "Sorry, I cannot help with that."}}
	g := NewGenerator(mock, config.QualityNormal, "m", nil, nil)

	files, err := g.Generate(context.Background(), Briefing{Description: "padaria"}, Context{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(project.Pages(files)) != 2 {
		t.Errorf("expected scaffold pages, got %+v", files)
	}
}

func TestGenerateLiteSkipsCodegen(t *testing.T) {
	mock := &scriptedProvider{replies: []string{planJSON}}
	rep := &recordingReporter{}
	g := NewGenerator(mock, config.QualityLite, "m", nil, rep)

	if _, err := g.Generate(context.Background(), Briefing{Description: "padaria"}, Context{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(mock.requests) != 1 {
		t.Errorf("calls = %d, want 1", len(mock.requests))
	}
	if rep.total != 2 || !rep.finished {
		t.Errorf("reporter = %+v", rep)
	}
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(&scriptedProvider{replies: []string{"not json"}}, config.QualityNormal, "m", nil, nil)
	if _, err := g.Generate(context.Background(), Briefing{Description: "x"}, Context{}); !errors.Is(err, errUnparsable) {
		t.Errorf("unparsable plan: err = %v", err)
	}

	g = NewGenerator(&scriptedProvider{}, config.QualityNormal, "m", nil, nil)
	if _, err := g.Generate(context.Background(), Briefing{}, Context{}); err == nil {
		t.Error("empty description should be rejected")
	}

	boom := errors.New("provider down")
	g = NewGenerator(&scriptedProvider{err: boom}, config.QualityNormal, "m", nil, nil)
	if _, err := g.Generate(context.Background(), Briefing{Description: "x"}, Context{}); !errors.Is(err, boom) {
		t.Errorf("provider error: err = %v", err)
	}
}

func TestGenerateQuotesExistingFiles(t *testing.T) {
	mock := &scriptedProvider{replies: []string{planJSON, "[]"}}
	g := NewGenerator(mock, config.QualityNormal, "m", nil, nil)
	c := Context{
		Files:        []project.File{{Path: "index.html", Kind: project.KindHTML, Content: "<h1>Antigo</h1>"}},
		Instructions: "Troque a cor para verde",
	}
	if _, err := g.Generate(context.Background(), Briefing{Description: "x"}, c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	prompt := mock.requests[0].Messages[1].Content
	if !strings.Contains(prompt, "<h1>Antigo</h1>") || !strings.Contains(prompt, "Troque a cor para verde") {
		t.Errorf("design prompt lacks context:\n%s", prompt)
	}
	if !strings.Contains(mock.requests[1].Messages[1].Content, "Troque a cor para verde") {
		t.Error("codegen prompt lacks change request")
	}
}

func TestContextBlockBudget(t *testing.T) {
	big := strings.Repeat("a", contextTokenBudget*4+4)
	block := contextBlock(Context{Files: []project.File{
		{Path: "big.html", Kind: project.KindHTML, Content: big},
		{Path: "small.css", Kind: project.KindCSS, Content: "p{}"},
		{Path: "logo.png", Kind: project.KindOther, Content: "binary"},
	}})
	if strings.Contains(block, big) || !strings.Contains(block, "big.html (omitted)") {
		t.Error("oversized file should be omitted")
	}
	if !strings.Contains(block, "p{}") || strings.Contains(block, "logo.png") {
		t.Errorf("block = %q", block)
	}
}

type recordingReporter struct {
	total    int
	updates  []string
	finished bool
}

func (r *recordingReporter) Start(total int)              { r.total = total }
func (r *recordingReporter) Update(_ int, message string) { r.updates = append(r.updates, message) }
func (r *recordingReporter) Finish()                      { r.finished = true }

// --- Regenerate and routes ---

func setupStore(t *testing.T) (*project.Store, string) {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	store := project.NewStore(d)
	p := &project.Project{Name: "Padaria"}
	if err := store.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return store, p.ID
}

func TestRegenerateReplacesFiles(t *testing.T) {
	store, projectID := setupStore(t)
	ctx := context.Background()
	if err := store.UpsertFile(ctx, projectID, "old.html", project.FileFields{Content: "velho"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	g := NewGenerator(&scriptedProvider{replies: []string{planJSON}}, config.QualityLite, "m", nil, nil)
	files, err := Regenerate(ctx, g, store, projectID, Briefing{Description: "padaria"}, Context{})
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	stored, err := store.ListFiles(ctx, projectID)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(stored) != len(files) {
		t.Errorf("stored %d files, generated %d", len(stored), len(files))
	}
	if _, err := store.GetFile(ctx, projectID, "old.html"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("old.html should be gone, err = %v", err)
	}
}

func TestRegenerateWritesNothingOnFailure(t *testing.T) {
	store, projectID := setupStore(t)
	ctx := context.Background()
	if err := store.UpsertFile(ctx, projectID, "old.html", project.FileFields{Content: "velho"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	g := NewGenerator(&scriptedProvider{replies: []string{"garbage"}}, config.QualityLite, "m", nil, nil)
	if _, err := Regenerate(ctx, g, store, projectID, Briefing{Description: "padaria"}, Context{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := store.GetFile(ctx, projectID, "old.html"); err != nil {
		t.Errorf("old.html should survive, err = %v", err)
	}
}

type recordingListener struct {
	projects []string
}

func (l *recordingListener) FilesChanged(projectID string) {
	l.projects = append(l.projects, projectID)
}

func TestGenerateRoute(t *testing.T) {
	store, projectID := setupStore(t)
	toasts := &notifications.Recorder{}
	listener := &recordingListener{}
	r := chi.NewRouter()
	RegisterRoutes(r, RouteDeps{
		Generator: NewGenerator(&scriptedProvider{replies: []string{planJSON}}, config.QualityLite, "m", nil, nil),
		Files:     store,
		Notifier:  toasts,
		Listener:  listener,
	})

	body, _ := json.Marshal(map[string]interface{}{"description": "Uma padaria", "fresh": true})
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID+"/generate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int      `json:"count"`
		Files []string `json:"files"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 6 || len(resp.Files) != 6 {
		t.Errorf("resp = %+v", resp)
	}
	if len(listener.projects) != 1 {
		t.Errorf("listener calls = %v", listener.projects)
	}
	all := toasts.All()
	if len(all) != 1 || all[0].Level != notifications.LevelSuccess {
		t.Errorf("toasts = %+v", all)
	}
}

func TestGenerateRouteErrors(t *testing.T) {
	store, projectID := setupStore(t)
	toasts := &notifications.Recorder{}
	r := chi.NewRouter()
	RegisterRoutes(r, RouteDeps{
		Generator: NewGenerator(&scriptedProvider{err: errors.New("down")}, config.QualityLite, "m", nil, nil),
		Files:     store,
		Notifier:  toasts,
	})

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown project", "/api/projects/missing/generate", `{"description": "x"}`, http.StatusNotFound},
		{"bad json", "/api/projects/" + projectID + "/generate", `{`, http.StatusBadRequest},
		{"missing description", "/api/projects/" + projectID + "/generate", `{}`, http.StatusBadRequest},
		{"provider failure", "/api/projects/" + projectID + "/generate", `{"description": "x"}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
	}
	all := toasts.All()
	if len(all) != 1 || all[0].Level != notifications.LevelError {
		t.Errorf("toasts = %+v", all)
	}
}
