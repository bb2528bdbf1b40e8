package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/notifications"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// RouteDeps are the collaborators of the generate endpoint. Notifier and
// Listener may be nil.
type RouteDeps struct {
	Generator *Generator
	Files     *project.Store
	Notifier  notifications.Notifier
	Listener  project.ChangeListener
	Log       *zerolog.Logger
}

// RegisterRoutes mounts the generate endpoint on the given router.
func RegisterRoutes(r chi.Router, deps RouteDeps) {
	h := &handlers{deps: deps}
	r.Post("/api/projects/{id}/generate", h.generate)
}

type handlers struct {
	deps RouteDeps
}

type generateRequest struct {
	Briefing
	Instructions string `json:"instructions"`
	// Fresh ignores the project's current files.
	Fresh bool `json:"fresh"`
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if _, err := h.deps.Files.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req.Briefing); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := Context{Instructions: req.Instructions}
	if !req.Fresh {
		existing, err := h.deps.Files.ListFiles(r.Context(), projectID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		c.Files = existing
	}

	files, err := Regenerate(r.Context(), h.deps.Generator, h.deps.Files, projectID, req.Briefing, c)
	if err != nil {
		if h.deps.Log != nil {
			h.deps.Log.Error().Err(err).Str("project", projectID).Msg("generation failed")
		}
		h.notify(r, notifications.Failure(projectID, "Generation failed", err.Error()))
		status := http.StatusBadGateway
		if errors.Is(err, ErrNoFiles) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	if h.deps.Listener != nil {
		h.deps.Listener.FilesChanged(projectID)
	}
	h.notify(r, notifications.Success(projectID, "Site generated",
		fmt.Sprintf("%d files generated", len(files))))

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(files),
		"files": paths,
	})
}

func (h *handlers) notify(r *http.Request, n notifications.Notification) {
	if h.deps.Notifier != nil {
		h.deps.Notifier.Notify(r.Context(), n)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, project.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
