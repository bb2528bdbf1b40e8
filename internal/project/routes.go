package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ChangeListener is told when the file set of a project changed, so open
// previews can recompile.
type ChangeListener interface {
	FilesChanged(projectID string)
}

// RegisterRoutes mounts project and file endpoints on the given router.
// listener may be nil.
func RegisterRoutes(r chi.Router, store *Store, listener ChangeListener) {
	h := &handlers{store: store, listener: listener}
	r.Get("/api/projects", h.listProjects)
	r.Post("/api/projects", h.createProject)
	r.Get("/api/projects/{id}", h.getProject)
	r.Delete("/api/projects/{id}", h.deleteProject)
	r.Get("/api/projects/{id}/files", h.listFiles)
	r.Delete("/api/projects/{id}/files", h.deleteAllFiles)
	r.Get("/api/projects/{id}/files/*", h.getFile)
	r.Put("/api/projects/{id}/files/*", h.putFile)
	r.Delete("/api/projects/{id}/files/*", h.deleteFile)
}

type handlers struct {
	store    *Store
	listener ChangeListener
}

func (h *handlers) changed(projectID string) {
	if h.listener != nil {
		h.listener.FilesChanged(projectID)
	}
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.ListProjects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []Project{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	var p Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	p.ID = ""
	if err := h.store.CreateProject(r.Context(), &p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.ListFiles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []File{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *handlers) deleteAllFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteAllFiles(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.changed(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getFile(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.GetFile(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "*"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handlers) putFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path := chi.URLParam(r, "*")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	var fields FileFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := h.store.GetProject(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.store.UpsertFile(r.Context(), id, path, fields); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.changed(id)
	writeJSON(w, http.StatusOK, NewFile(path, fields))
}

func (h *handlers) deleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteFile(r.Context(), id, chi.URLParam(r, "*")); err != nil {
		writeStoreError(w, err)
		return
	}
	h.changed(id)
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
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
