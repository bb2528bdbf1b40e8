package variations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/templating"
)

// ErrIncomplete is returned by Validate when some row lacks a value for a
// tag. Callers must not run the driver on such a request.
var ErrIncomplete = errors.New("variations incomplete")

// MultiplyRequest is everything one multiplication run needs.
type MultiplyRequest struct {
	Template      project.File           `json:"template"`
	Tags          []string               `json:"tags" validate:"required,min=1,dive,tag_name"`
	Variations    []templating.Variation `json:"variations" validate:"required,min=1"`
	OutputPattern string                 `json:"output_pattern" validate:"required"`
	OutputFolder  string                 `json:"output_folder"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tag_name", func(fl validator.FieldLevel) bool {
		return templating.IsTagName(fl.Field().String())
	})
	return v
}

// Validate checks req before it is handed to the driver: the template must
// have a path, there must be tags and rows, and every row needs a non-blank
// value for every tag. Incomplete rows yield an error wrapping ErrIncomplete.
func Validate(req MultiplyRequest) error {
	if strings.TrimSpace(req.Template.Path) == "" {
		return errors.New("template path is required")
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid multiply request: %w", err)
	}
	if rows := incompleteRows(req.Tags, req.Variations); len(rows) > 0 {
		return fmt.Errorf("%w: rows %v have blank values", ErrIncomplete, rows)
	}
	return nil
}

// FileUpserter is the persistence the driver writes through. Each call is
// atomic on its own.
type FileUpserter interface {
	UpsertFile(ctx context.Context, projectID, path string, fields project.FileFields) error
}

// MultiplyError reports a run that stopped at Row. The first Committed
// pages were persisted and stay in place.
type MultiplyError struct {
	Row       int
	Committed int
	Err       error
}

func (e *MultiplyError) Error() string {
	return fmt.Sprintf("multiplying row %d (%d pages saved): %v", e.Row, e.Committed, e.Err)
}

func (e *MultiplyError) Unwrap() error { return e.Err }

// Driver expands a template once per variation and upserts each result.
type Driver struct {
	files    FileUpserter
	progress progress.Reporter
	log      *zerolog.Logger
}

// NewDriver creates a driver writing to files. A nil reporter disables
// progress and a nil logger disables logging.
func NewDriver(files FileUpserter, reporter progress.Reporter, log *zerolog.Logger) *Driver {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Driver{files: files, progress: reporter, log: log}
}

// Multiply writes one page per variation, in order, waiting for each upsert
// before starting the next. A repeated run with the same pattern and values
// overwrites the earlier pages. The request is trusted: call Validate first.
//
// On the first persistence failure the pages already written are returned
// together with a *MultiplyError; remaining rows are not attempted and
// nothing is rolled back.
func (d *Driver) Multiply(ctx context.Context, projectID string, req MultiplyRequest) ([]GeneratedPage, error) {
	total := len(req.Variations)
	pages := make([]GeneratedPage, 0, total)

	d.progress.Start(total)
	defer d.progress.Finish()

	for i, v := range req.Variations {
		page := Expand(req.Template.Content, req.OutputPattern, req.OutputFolder, v)

		err := d.files.UpsertFile(ctx, projectID, page.FilePath, project.FileFields{
			Name:    page.FileName,
			Kind:    project.KindHTML,
			Content: page.Content,
		})
		if err != nil {
			d.log.Error().Err(err).
				Str("project", projectID).
				Int("row", i).
				Int("committed", len(pages)).
				Msg("multiplication stopped")
			return pages, &MultiplyError{Row: i, Committed: len(pages), Err: err}
		}

		pages = append(pages, page)
		d.progress.Update(i+1, page.FilePath)
		d.log.Debug().Str("path", page.FilePath).Int("row", i).Msg("page written")
	}

	d.log.Info().Str("project", projectID).Int("pages", len(pages)).Msg("multiplication complete")
	return pages, nil
}

// Expand computes the page one variation yields without persisting it.
func Expand(template, pattern, folder string, v templating.Variation) GeneratedPage {
	name := templating.GenerateFileName(pattern, v)
	path := name
	if folder = strings.Trim(folder, "/"); folder != "" {
		path = folder + "/" + name
	}
	return GeneratedPage{
		FileName: name,
		FilePath: path,
		Content:  templating.GeneratePageContent(template, v),
	}
}
