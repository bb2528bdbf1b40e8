// Package pipeline turns a natural-language briefing into the files of a
// static site: an LLM design analysis, a deterministic scaffold, and an
// LLM code generation pass that refines it.
package pipeline

import (
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/sections"
)

// Briefing describes the business the site is for.
type Briefing struct {
	Description  string   `json:"description" yaml:"description" validate:"required"`
	BusinessName string   `json:"business_name" yaml:"business_name,omitempty"`
	Audience     string   `json:"audience" yaml:"audience,omitempty"`
	Language     string   `json:"language" yaml:"language,omitempty"`
	Pages        []string `json:"pages" yaml:"pages,omitempty" validate:"omitempty,dive,required"`
}

// Context carries what already exists for the project. Files are shown to
// the model so edits build on them; Instructions is a free-form change
// request.
type Context struct {
	Files        []project.File
	Instructions string
}

// Palette holds CSS colours. Empty or malformed values fall back to defaults.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// PagePlan is one page of the planned site.
type PagePlan struct {
	Path     string             `json:"path"`
	Title    string             `json:"title"`
	Sections []sections.Section `json:"sections"`
}

// SitePlan is the output of the design analysis stage.
type SitePlan struct {
	Name    string     `json:"name"`
	Tagline string     `json:"tagline"`
	Palette Palette    `json:"palette"`
	Font    string     `json:"font"`
	Pages   []PagePlan `json:"pages"`
}

// generatedFile is one entry of the code generation output.
type generatedFile struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Content string `json:"content"`
}
