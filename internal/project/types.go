package project

import (
	"path"
	"strings"
	"time"
)

// ComponentsPrefix is the path prefix of reusable fragments. Files under it
// are injected into pages and are never navigable on their own.
const ComponentsPrefix = "components/"

// FileKind determines how the compiler treats a file.
type FileKind string

const (
	KindHTML  FileKind = "html"
	KindCSS   FileKind = "css"
	KindJS    FileKind = "js"
	KindOther FileKind = "other"
)

// ParseKind normalizes a kind label. "javascript" is accepted as js and
// anything unrecognised becomes other.
func ParseKind(s string) FileKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return KindHTML
	case "css":
		return KindCSS
	case "js", "javascript", "mjs":
		return KindJS
	default:
		return KindOther
	}
}

// KindFromPath derives a kind from the file extension.
func KindFromPath(p string) FileKind {
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm":
		return KindHTML
	case ".css":
		return KindCSS
	case ".js", ".mjs":
		return KindJS
	default:
		return KindOther
	}
}

// Project groups the files of one generated website.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// File is a single generated artifact of a project. Path is unique within
// the project and case-sensitive.
type File struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Kind      FileKind  `json:"kind"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// IsComponent reports whether the file lives under components/.
func (f File) IsComponent() bool {
	return strings.HasPrefix(f.Path, ComponentsPrefix)
}

// IsPage reports whether the file can be navigated to as a page.
func (f File) IsPage() bool {
	return f.Kind == KindHTML && !f.IsComponent()
}

// FileFields are the mutable fields of an upsert.
type FileFields struct {
	Name    string   `json:"name"`
	Kind    FileKind `json:"kind"`
	Content string   `json:"content"`
}

// NewFile builds a File with name and kind filled in from the path when
// they are not given.
func NewFile(p string, fields FileFields) File {
	f := File{
		Path:    p,
		Name:    fields.Name,
		Kind:    fields.Kind,
		Content: fields.Content,
	}
	f.Normalize()
	return f
}

// Normalize fills in a missing name and kind and folds kind aliases.
func (f *File) Normalize() {
	if f.Name == "" {
		f.Name = path.Base(f.Path)
	}
	if f.Kind == "" {
		f.Kind = KindFromPath(f.Path)
	} else {
		f.Kind = ParseKind(string(f.Kind))
	}
}

// Pages returns the navigable pages among files, in input order.
func Pages(files []File) []File {
	var pages []File
	for _, f := range files {
		if f.IsPage() {
			pages = append(pages, f)
		}
	}
	return pages
}
