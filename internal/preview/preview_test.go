package preview

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/auto-site/internal/notifications"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/walker"
)

// memSource is an in-memory ProjectSource holding one project.
type memSource struct {
	mu    sync.Mutex
	id    string
	files []project.File
}

func newMemSource(files ...project.File) *memSource {
	return &memSource{id: "p1", files: files}
}

func (m *memSource) ListFiles(_ context.Context, projectID string) ([]project.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if projectID != m.id {
		return nil, project.ErrNotFound
	}
	return append([]project.File(nil), m.files...), nil
}

func (m *memSource) GetProject(_ context.Context, id string) (*project.Project, error) {
	if id != m.id {
		return nil, project.ErrNotFound
	}
	return &project.Project{ID: id, Name: "Padaria"}, nil
}

func (m *memSource) set(files ...project.File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = files
}

func page(path, content string) project.File {
	return project.NewFile(path, project.FileFields{Content: content})
}

func sampleFiles() []project.File {
	return []project.File{
		page("index.html", `<h1>Home</h1><a href="./servico.html">s</a>`),
		page("servico.html", "<h1>Serviço</h1>"),
		page("components/header.html", "<nav>H</nav>"),
		page("styles.css", "h1{}"),
	}
}

func TestViewportWidths(t *testing.T) {
	tests := []struct {
		in    string
		want  Viewport
		width int
	}{
		{"", Desktop, 1200},
		{"desktop", Desktop, 1200},
		{"tablet", Tablet, 768},
		{"mobile", Mobile, 375},
	}
	for _, tt := range tests {
		v, err := ParseViewport(tt.in)
		if err != nil {
			t.Fatalf("ParseViewport(%q): %v", tt.in, err)
		}
		if v != tt.want || v.Width() != tt.width {
			t.Errorf("ParseViewport(%q) = %s/%d, want %s/%d", tt.in, v, v.Width(), tt.want, tt.width)
		}
	}
	if _, err := ParseViewport("watch"); err == nil {
		t.Error("expected error for unknown viewport")
	}
}

func TestNormalizePage(t *testing.T) {
	if NormalizePage("./servico.html") != NormalizePage("servico.html") {
		t.Error("./servico.html and servico.html should normalize equally")
	}
	if got := NormalizePage("pages/a.html"); got != "pages/a.html" {
		t.Errorf("NormalizePage = %q", got)
	}
}

func TestControllerRender(t *testing.T) {
	c := NewController(newMemSource(sampleFiles()...), "p1")
	ctx := context.Background()

	frame, err := c.Render(ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if frame.Page != "index.html" || frame.Empty || !strings.Contains(frame.HTML, "<h1>Home</h1>") {
		t.Errorf("initial frame = %+v", frame)
	}
	if !strings.Contains(frame.HTML, "postMessage") {
		t.Error("preview frame should intercept navigation")
	}
	if len(frame.Pages) != 2 || frame.Pages[0] != "index.html" || frame.Pages[1] != "servico.html" {
		t.Errorf("pages = %v", frame.Pages)
	}

	if got := c.Navigate("./servico.html"); got != "servico.html" {
		t.Errorf("Navigate returned %q", got)
	}
	c.SetViewport(Mobile)
	frame, _ = c.Render(ctx)
	if frame.Page != "servico.html" || frame.Width != 375 || !strings.Contains(frame.HTML, "Serviço") {
		t.Errorf("frame after navigate = %+v", frame)
	}

	c.Navigate("missing.html")
	frame, _ = c.Render(ctx)
	if frame.Page != "index.html" {
		t.Errorf("missing page should fall back to index.html, got %q", frame.Page)
	}
}

func TestControllerEmpty(t *testing.T) {
	c := NewController(newMemSource(page("about.html", "x")), "p1")
	frame, err := c.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !frame.Empty || frame.HTML != "" {
		t.Errorf("frame = %+v, want empty", frame)
	}
}

func TestRenderShell(t *testing.T) {
	var buf bytes.Buffer
	err := RenderShell(&buf, ShellData{
		ProjectID:   "p1",
		ProjectName: "Padaria",
		Frame:       Frame{Page: "index.html", Viewport: Tablet, Width: 768, HTML: `<p class="x">a & b</p>`, Pages: []string{"index.html"}},
		SocketPath:  "/ws/preview/p1",
	})
	if err != nil {
		t.Fatalf("RenderShell: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`sandbox="allow-scripts"`,
		`srcdoc="&lt;p class=&#34;x&#34;&gt;a &amp; b&lt;/p&gt;"`,
		"width: 768px",
		`"/ws/preview/p1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell missing %q", want)
		}
	}
	if n := strings.Count(out, "addEventListener('message'"); n != 1 {
		t.Errorf("message listener registered %d times, want 1", n)
	}
	if !strings.Contains(out, "removeEventListener('message'") {
		t.Error("message listener never removed")
	}
	if strings.Contains(out, "allow-same-origin") {
		t.Error("frame must not be same-origin")
	}
}

func setupPreviewServer(t *testing.T, src *memSource) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub(src, nil)
	r := chi.NewRouter()
	RegisterRoutes(r, src, hub)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubNavigateRoundTrip(t *testing.T) {
	srv, hub := setupPreviewServer(t, newMemSource(sampleFiles()...))
	conn := dial(t, srv, "/ws/preview/p1?viewport=tablet")
	waitFor(t, func() bool { return hub.Sessions("p1") == 1 })

	if err := conn.WriteJSON(clientMessage{Type: "navigate", Page: "./servico.html"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "document" || msg.Frame == nil {
		t.Fatalf("message = %+v", msg)
	}
	if msg.Frame.Page != "servico.html" || msg.Frame.Viewport != Tablet || !strings.Contains(msg.Frame.HTML, "Serviço") {
		t.Errorf("frame = %+v", msg.Frame)
	}

	if err := conn.WriteJSON(clientMessage{Type: "viewport", Viewport: "mobile"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg = serverMessage{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Frame == nil || msg.Frame.Width != 375 || msg.Frame.Page != "servico.html" {
		t.Errorf("frame after viewport = %+v", msg.Frame)
	}
}

func TestHubRejectsUnknownMessages(t *testing.T) {
	srv, _ := setupPreviewServer(t, newMemSource(sampleFiles()...))
	conn := dial(t, srv, "/ws/preview/p1")

	conn.WriteJSON(clientMessage{Type: "dance"})
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Error, "dance") {
		t.Errorf("message = %+v", msg)
	}
}

func TestHubPushesReloadAndToasts(t *testing.T) {
	src := newMemSource(sampleFiles()...)
	srv, hub := setupPreviewServer(t, src)
	conn := dial(t, srv, "/ws/preview/p1")
	waitFor(t, func() bool { return hub.Sessions("p1") == 1 })

	src.set(page("index.html", "<h1>Novo</h1>"))
	hub.FilesChanged("p1")

	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "reload" || msg.Frame == nil || !strings.Contains(msg.Frame.HTML, "Novo") {
		t.Errorf("reload message = %+v", msg)
	}

	hub.Notify(context.Background(), notifications.Success("p1", "Pages generated", "2 pages generated"))
	msg = serverMessage{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "toast" || msg.Toast == nil || msg.Toast.Message != "2 pages generated" {
		t.Errorf("toast message = %+v", msg)
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	srv, hub := setupPreviewServer(t, newMemSource(sampleFiles()...))
	conn := dial(t, srv, "/ws/preview/p1")
	waitFor(t, func() bool { return hub.Sessions("") == 1 })

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, func() bool { return hub.Sessions("") == 0 })
}

func TestShellRoute(t *testing.T) {
	srv, _ := setupPreviewServer(t, newMemSource(sampleFiles()...))

	resp, err := http.Get(srv.URL + "/preview/p1?page=servico.html&viewport=mobile")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.Contains(body.String(), "width: 375px") || !strings.Contains(body.String(), "page=servico.html") {
		t.Errorf("shell does not reflect query:\n%s", body.String())
	}

	resp, err = http.Get(srv.URL + "/preview/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown project status = %d, want 404", resp.StatusCode)
	}
}

func TestCompileRoute(t *testing.T) {
	src := newMemSource(sampleFiles()...)
	r := chi.NewRouter()
	RegisterRoutes(r, src, NewHub(src, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/p1/compile?entry=./servico.html", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Serviço") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "postMessage") {
		t.Error("compile endpoint should not intercept navigation")
	}

	src.set(page("about.html", "x"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/p1/compile?entry=x.html", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("empty compile status = %d, want 204", w.Code)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>disk</p>"), 0o644)

	src := NewDirSource(walker.Config{RootDir: dir})
	files, err := src.ListFiles(context.Background(), "local")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].Path != "index.html" {
		t.Errorf("files = %+v", files)
	}
	p, _ := src.GetProject(context.Background(), "local")
	if p.Name != filepath.Base(dir) {
		t.Errorf("project name = %q", p.Name)
	}
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	err := Watch(ctx, dir, 20*time.Millisecond, nil, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	os.WriteFile(filepath.Join(dir, "index.html"), []byte("a"), 0o644)
	os.WriteFile(filepath.Join(dir, "index.html"), []byte("b"), 0o644)

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
