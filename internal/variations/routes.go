package variations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/notifications"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/templating"
)

// RouteDeps are the collaborators of the template and multiplication
// endpoints. Notifier and Listener may be nil.
type RouteDeps struct {
	Templates *Store
	Files     *project.Store
	Notifier  notifications.Notifier
	Listener  project.ChangeListener
	Log       *zerolog.Logger
}

// RegisterRoutes mounts tag detection, bulk import, template CRUD and
// multiplication endpoints on the given router.
func RegisterRoutes(r chi.Router, deps RouteDeps) {
	h := &handlers{deps: deps}
	r.Post("/api/tags/detect", h.detectTags)
	r.Post("/api/variations/import", h.importRows)
	r.Get("/api/projects/{id}/templates", h.listTemplates)
	r.Post("/api/projects/{id}/templates", h.createTemplate)
	r.Get("/api/projects/{id}/templates/{tid}", h.getTemplate)
	r.Put("/api/projects/{id}/templates/{tid}", h.updateTemplate)
	r.Delete("/api/projects/{id}/templates/{tid}", h.deleteTemplate)
	r.Patch("/api/projects/{id}/templates/{tid}/rows", h.editRows)
	r.Post("/api/projects/{id}/templates/{tid}/multiply", h.multiplyTemplate)
	r.Post("/api/projects/{id}/multiply", h.multiply)
}

type handlers struct {
	deps RouteDeps
}

type detectRequest struct {
	Content string `json:"content"`
}

func (h *handlers) detectTags(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": templating.DetectTags(req.Content)})
}

type importRequest struct {
	Tags       []string               `json:"tags" validate:"required,min=1,dive,tag_name"`
	Rows       []templating.Variation `json:"rows"`
	Text       string                 `json:"text"`
	Delimiters []string               `json:"delimiters"`
}

func (h *handlers) importRows(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := NewTable(req.Tags, req.Rows)
	var added int
	if len(req.Delimiters) > 0 {
		added = t.BulkImportWith(req.Text, req.Delimiters)
	} else {
		added = t.BulkImport(req.Text)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":      added,
		"rows":       t.Rows(),
		"incomplete": nonNil(t.IncompleteRows()),
	})
}

func (h *handlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Templates.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []PageTemplate{}
	}
	writeJSON(w, http.StatusOK, result)
}

type templateRequest struct {
	Name           string                 `json:"name" validate:"required"`
	SourceFilePath string                 `json:"source_file_path" validate:"required"`
	OutputPattern  string                 `json:"output_pattern" validate:"required"`
	OutputFolder   string                 `json:"output_folder"`
	Tags           []string               `json:"tags" validate:"omitempty,dive,tag_name"`
	Variations     []templating.Variation `json:"variations"`
}

func (h *handlers) createTemplate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	src, err := h.deps.Files.GetFile(r.Context(), projectID, req.SourceFilePath)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	tags := req.Tags
	if len(tags) == 0 {
		tags = templating.DetectTags(src.Content)
	}

	t := &PageTemplate{
		ProjectID:      projectID,
		Name:           req.Name,
		SourceFilePath: req.SourceFilePath,
		OutputPattern:  req.OutputPattern,
		OutputFolder:   req.OutputFolder,
	}
	t.Apply(NewTable(tags, req.Variations))
	if err := h.deps.Templates.Create(r.Context(), t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handlers) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.Templates.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tid"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handlers) updateTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.Templates.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tid"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := t.Variations
	if req.Variations != nil {
		rows = req.Variations
	}
	table := NewTable(t.Tags, rows)
	if req.Tags != nil {
		table.SetTags(req.Tags)
	}
	t.Name = req.Name
	t.SourceFilePath = req.SourceFilePath
	t.OutputPattern = req.OutputPattern
	t.OutputFolder = req.OutputFolder
	t.Apply(table)

	if err := h.deps.Templates.Update(r.Context(), t); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// rowEdit is one table edit. Index is used by remove_row and update_cell,
// Tag by update_cell, add_tag and remove_tag.
type rowEdit struct {
	Op    string `json:"op" validate:"required,oneof=add_row remove_row update_cell add_tag remove_tag"`
	Index int    `json:"index"`
	Tag   string `json:"tag" validate:"required_if=Op update_cell,required_if=Op add_tag,required_if=Op remove_tag"`
	Value string `json:"value"`
}

type editRowsRequest struct {
	Edits []rowEdit `json:"edits" validate:"required,min=1,dive"`
}

// editRows applies the edits in order and saves the template only when all
// of them succeed.
func (h *handlers) editRows(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.Templates.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tid"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var req editRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table := t.Table()
	for i, e := range req.Edits {
		if err := applyEdit(table, e); err != nil {
			http.Error(w, fmt.Sprintf("edit %d: %v", i, err), http.StatusBadRequest)
			return
		}
	}
	t.Apply(table)

	if err := h.deps.Templates.Update(r.Context(), t); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"template":   t,
		"incomplete": nonNil(table.IncompleteRows()),
	})
}

func applyEdit(table *Table, e rowEdit) error {
	switch e.Op {
	case "add_row":
		table.AddRow()
		return nil
	case "remove_row":
		return table.RemoveRow(e.Index)
	case "update_cell":
		if !slices.Contains(table.Tags(), e.Tag) {
			return fmt.Errorf("tag %q is not active", e.Tag)
		}
		return table.UpdateCell(e.Index, e.Tag, e.Value)
	case "add_tag":
		return table.AddTag(e.Tag)
	case "remove_tag":
		table.RemoveTag(e.Tag)
		return nil
	}
	return fmt.Errorf("unknown op %q", e.Op)
}

func (h *handlers) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Templates.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tid")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) multiplyTemplate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	t, err := h.deps.Templates.Get(r.Context(), projectID, chi.URLParam(r, "tid"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	src, err := h.deps.Files.GetFile(r.Context(), projectID, t.SourceFilePath)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.run(w, r, projectID, MultiplyRequest{
		Template:      *src,
		Tags:          t.Tags,
		Variations:    t.Variations,
		OutputPattern: t.OutputPattern,
		OutputFolder:  t.OutputFolder,
	})
}

type multiplyBody struct {
	TemplatePath  string                 `json:"template_path"`
	Tags          []string               `json:"tags"`
	Variations    []templating.Variation `json:"variations"`
	OutputPattern string                 `json:"output_pattern"`
	OutputFolder  string                 `json:"output_folder"`
}

func (h *handlers) multiply(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	var body multiplyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.TemplatePath == "" {
		http.Error(w, "template_path is required", http.StatusBadRequest)
		return
	}
	src, err := h.deps.Files.GetFile(r.Context(), projectID, body.TemplatePath)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	tags := body.Tags
	if len(tags) == 0 {
		tags = templating.DetectTags(src.Content)
	}
	h.run(w, r, projectID, MultiplyRequest{
		Template:      *src,
		Tags:          tags,
		Variations:    body.Variations,
		OutputPattern: body.OutputPattern,
		OutputFolder:  body.OutputFolder,
	})
}

func (h *handlers) run(w http.ResponseWriter, r *http.Request, projectID string, req MultiplyRequest) {
	if err := Validate(req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrIncomplete) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	driver := NewDriver(h.deps.Files, nil, h.deps.Log)
	pages, err := driver.Multiply(r.Context(), projectID, req)
	if len(pages) > 0 && h.deps.Listener != nil {
		h.deps.Listener.FilesChanged(projectID)
	}

	var merr *MultiplyError
	if errors.As(err, &merr) {
		h.notify(r, notifications.Failure(projectID, "Generation failed",
			fmt.Sprintf("%d of %d pages were saved before an error", merr.Committed, len(req.Variations))))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":     "page generation failed",
			"committed": merr.Committed,
			"pages":     pages,
		})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.notify(r, notifications.Success(projectID, "Pages generated",
		fmt.Sprintf("%d pages generated", len(pages))))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(pages),
		"pages": pages,
	})
}

func (h *handlers) notify(r *http.Request, n notifications.Notification) {
	if h.deps.Notifier != nil {
		h.deps.Notifier.Notify(r.Context(), n)
	}
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, project.ErrNotFound) {
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
