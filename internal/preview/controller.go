package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ziadkadry99/auto-site/internal/compiler"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// FileSource supplies the current files of a project.
type FileSource interface {
	ListFiles(ctx context.Context, projectID string) ([]project.File, error)
}

// Frame is one rendered state of a preview.
type Frame struct {
	Page     string   `json:"page"`
	Viewport Viewport `json:"viewport"`
	Width    int      `json:"width"`
	HTML     string   `json:"html"`
	Empty    bool     `json:"empty"`
	Pages    []string `json:"pages"`
}

// Controller owns the page and viewport shown by one preview surface and
// compiles the current page on demand. It is safe for concurrent use.
type Controller struct {
	source    FileSource
	projectID string

	mu       sync.Mutex
	page     string
	viewport Viewport
}

// NewController creates a controller showing index.html at desktop width.
func NewController(source FileSource, projectID string) *Controller {
	return &Controller{
		source:    source,
		projectID: projectID,
		page:      "index.html",
		viewport:  Desktop,
	}
}

// NormalizePage strips a leading "./" so that "./servico.html" and
// "servico.html" name the same page.
func NormalizePage(page string) string {
	return strings.TrimPrefix(strings.TrimSpace(page), "./")
}

// Navigate makes page the current page and returns the normalized path.
func (c *Controller) Navigate(page string) string {
	page = NormalizePage(page)
	c.mu.Lock()
	defer c.mu.Unlock()
	if page != "" {
		c.page = page
	}
	return c.page
}

// SetViewport changes the viewport.
func (c *Controller) SetViewport(v Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = v
}

// Page returns the current page path.
func (c *Controller) Page() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// Render compiles the current page with navigation interception. When the
// page does not exist the index fallback applies; when nothing resolves the
// frame is marked Empty.
func (c *Controller) Render(ctx context.Context) (Frame, error) {
	files, err := c.source.ListFiles(ctx, c.projectID)
	if err != nil {
		return Frame{}, fmt.Errorf("loading files: %w", err)
	}

	c.mu.Lock()
	page, viewport := c.page, c.viewport
	c.mu.Unlock()

	frame := Frame{
		Page:     page,
		Viewport: viewport,
		Width:    viewport.Width(),
		Pages:    PagePaths(files),
	}
	if entry := compiler.ResolveEntry(files, page); entry != nil {
		frame.Page = entry.Path
	}
	frame.HTML = compiler.Compile(files, page, compiler.Options{InterceptNavigation: true})
	frame.Empty = frame.HTML == ""
	return frame, nil
}

// PagePaths returns the paths of the navigable pages among files.
func PagePaths(files []project.File) []string {
	paths := []string{}
	for _, f := range project.Pages(files) {
		paths = append(paths, f.Path)
	}
	return paths
}
