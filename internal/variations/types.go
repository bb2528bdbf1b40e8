package variations

import (
	"time"

	"github.com/ziadkadry99/auto-site/internal/templating"
)

// PageTemplate binds a source page of a project to the tags found in it,
// an output filename pattern and the rows to multiply it with.
type PageTemplate struct {
	ID             string                 `json:"id"`
	ProjectID      string                 `json:"project_id"`
	Name           string                 `json:"name"`
	SourceFilePath string                 `json:"source_file_path"`
	Tags           []string               `json:"tags"`
	OutputPattern  string                 `json:"output_pattern"`
	OutputFolder   string                 `json:"output_folder"`
	Variations     []templating.Variation `json:"variations"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Table returns an editable table over the template's tags and rows.
func (p *PageTemplate) Table() *Table {
	return NewTable(p.Tags, p.Variations)
}

// Apply stores the table state back on the template.
func (p *PageTemplate) Apply(t *Table) {
	p.Tags = t.Tags()
	p.Variations = t.Rows()
}

// GeneratedPage is one page written by a multiplication run.
type GeneratedPage struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}
