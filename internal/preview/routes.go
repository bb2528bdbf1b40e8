package preview

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/auto-site/internal/compiler"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// RegisterRoutes mounts the preview shell, its websocket and the raw
// compile endpoint.
func RegisterRoutes(r chi.Router, source ProjectSource, hub *Hub) {
	h := &handlers{source: source, hub: hub}
	r.Get("/preview/{id}", h.shell)
	r.Get("/ws/preview/{id}", h.socket)
	r.Get("/api/projects/{id}/compile", h.compile)
}

type handlers struct {
	source ProjectSource
	hub    *Hub
}

func (h *handlers) shell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.source.GetProject(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	viewport, err := ParseViewport(r.URL.Query().Get("viewport"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := NewController(h.source, id)
	c.Navigate(r.URL.Query().Get("page"))
	c.SetViewport(viewport)
	frame, err := c.Render(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	q := url.Values{"page": {frame.Page}, "viewport": {string(frame.Viewport)}}
	var buf bytes.Buffer
	err = RenderShell(&buf, ShellData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Frame:       frame,
		SocketPath:  "/ws/preview/" + url.PathEscape(p.ID) + "?" + q.Encode(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.source.GetProject(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	viewport, err := ParseViewport(r.URL.Query().Get("viewport"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.hub.Serve(w, r, id, r.URL.Query().Get("page"), viewport)
}

// compile returns the compiled document of one entry page without the
// navigation script. 204 means nothing could be resolved.
func (h *handlers) compile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.source.GetProject(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	files, err := h.source.ListFiles(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	doc := compiler.Compile(files, NormalizePage(r.URL.Query().Get("entry")), compiler.Options{})
	if doc == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(doc))
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, project.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
