// Package variations holds the variation table behind a page template and
// multiplies a template into one persisted page per row.
package variations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/templating"
)

// DefaultDelimiters are tried, in order, when splitting an imported line.
var DefaultDelimiters = []string{",", ";", "|", "\t"}

// ErrRowIndex is returned for a row index outside the table.
var ErrRowIndex = errors.New("row index out of range")

// Table is the ordered list of variations for one template together with
// the active tags. A row's position is its only identity.
type Table struct {
	tags []string
	rows []templating.Variation
}

// NewTable builds a table over tags and existing rows. Every row gets an
// empty value for any tag it does not carry yet.
func NewTable(tags []string, rows []templating.Variation) *Table {
	t := &Table{tags: append([]string(nil), tags...)}
	for _, r := range rows {
		t.rows = append(t.rows, cloneRow(r))
	}
	t.fill()
	return t
}

// Tags returns the active tags in order.
func (t *Table) Tags() []string {
	return append([]string(nil), t.tags...)
}

// Rows returns a copy of the variations in order.
func (t *Table) Rows() []templating.Variation {
	out := make([]templating.Variation, len(t.rows))
	for i, r := range t.rows {
		out[i] = cloneRow(r)
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// AddRow appends a row with every tag bound to the empty string and returns
// its index.
func (t *Table) AddRow() int {
	row := make(templating.Variation, len(t.tags))
	for _, tag := range t.tags {
		row[tag] = ""
	}
	t.rows = append(t.rows, row)
	return len(t.rows) - 1
}

// RemoveRow deletes the row at index; later rows shift up by one.
func (t *Table) RemoveRow(index int) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("removing row %d: %w", index, ErrRowIndex)
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}

// UpdateCell sets one value. Other values in the row are untouched.
func (t *Table) UpdateCell(index int, tag, value string) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("updating row %d: %w", index, ErrRowIndex)
	}
	t.rows[index][tag] = value
	return nil
}

// BulkImport appends one row per non-blank line of text using the default
// delimiters and returns the number of rows added.
func (t *Table) BulkImport(text string) int {
	return t.BulkImportWith(text, DefaultDelimiters)
}

// BulkImportWith splits every non-blank line by the first delimiter of
// delimiters that occurs in it and zips the trimmed tokens against the tag
// order. Extra tokens are dropped and missing ones become empty strings.
func (t *Table) BulkImportWith(text string, delimiters []string) int {
	added := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens := splitLine(line, delimiters)
		row := make(templating.Variation, len(t.tags))
		for i, tag := range t.tags {
			if i < len(tokens) {
				row[tag] = strings.TrimSpace(tokens[i])
			} else {
				row[tag] = ""
			}
		}
		t.rows = append(t.rows, row)
		added++
	}
	return added
}

func splitLine(line string, delimiters []string) []string {
	for _, d := range delimiters {
		if d != "" && strings.Contains(line, d) {
			return strings.Split(line, d)
		}
	}
	return []string{line}
}

// AddTag appends tag to the active tags and binds it to the empty string
// in every row. Adding a tag that is already active is a no-op.
func (t *Table) AddTag(tag string) error {
	if !templating.IsTagName(tag) {
		return fmt.Errorf("invalid tag name %q", tag)
	}
	for _, existing := range t.tags {
		if existing == tag {
			return nil
		}
	}
	t.tags = append(t.tags, tag)
	t.fill()
	return nil
}

// RemoveTag drops tag from the active tags and strips it from every row.
func (t *Table) RemoveTag(tag string) {
	kept := t.tags[:0]
	for _, existing := range t.tags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	t.tags = kept
	for _, r := range t.rows {
		delete(r, tag)
	}
}

// SetTags replaces the active tags, usually with the result of
// templating.DetectTags after the template changed. Values of tags that stay
// active are kept; dropped tags are stripped from every row.
func (t *Table) SetTags(tags []string) {
	keep := make(map[string]bool, len(tags))
	for _, tag := range tags {
		keep[tag] = true
	}
	for _, old := range t.tags {
		if !keep[old] {
			for _, r := range t.rows {
				delete(r, old)
			}
		}
	}
	t.tags = append([]string(nil), tags...)
	t.fill()
}

// Complete reports whether the table can be multiplied: at least one tag,
// at least one row, and a non-blank value for every tag in every row.
func (t *Table) Complete() bool {
	return len(t.tags) > 0 && len(t.rows) > 0 && len(t.IncompleteRows()) == 0
}

// IncompleteRows returns the indexes of rows with a blank value for some tag.
func (t *Table) IncompleteRows() []int {
	return incompleteRows(t.tags, t.rows)
}

func incompleteRows(tags []string, rows []templating.Variation) []int {
	var out []int
	for i, r := range rows {
		for _, tag := range tags {
			if strings.TrimSpace(r[tag]) == "" {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

func (t *Table) fill() {
	for _, r := range t.rows {
		for _, tag := range t.tags {
			if _, ok := r[tag]; !ok {
				r[tag] = ""
			}
		}
	}
}

func cloneRow(r templating.Variation) templating.Variation {
	out := make(templating.Variation, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
