package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/compiler"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/templating"
	"github.com/ziadkadry99/auto-site/internal/variations"
)

// handleListProjects lists every project.
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.files.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects failed: %v", err)), nil
	}
	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects yet. Create one with `autosite project create`."), nil
	}

	var sb strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&sb, "- %s: %s\n", p.ID, p.Name)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListPages lists the navigable pages of a project.
func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := request.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project_id"), nil
	}

	files, errResult := s.projectFiles(ctx, projectID)
	if errResult != nil {
		return errResult, nil
	}

	pages := project.Pages(files)
	if len(pages) == 0 {
		return mcp.NewToolResultText("The project has no pages."), nil
	}
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Path)
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleDetectTags returns the tags of a template, one per line.
func (s *Server) handleDetectTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	tags := templating.DetectTags(content)
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags found."), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

// handleCompilePage returns the compiled document of a page.
func (s *Server) handleCompilePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := request.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project_id"), nil
	}
	entry := request.GetString("entry_path", "index.html")

	files, errResult := s.projectFiles(ctx, projectID)
	if errResult != nil {
		return errResult, nil
	}

	doc := compiler.Compile(files, entry, compiler.Options{Lang: s.lang})
	if doc == "" {
		return mcp.NewToolResultError(fmt.Sprintf("No page %q and no index.html in project %s.", entry, projectID)), nil
	}
	return mcp.NewToolResultText(doc), nil
}

// handleMultiplyPages runs the page multiplication driver for a template.
func (s *Server) handleMultiplyPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := request.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project_id"), nil
	}
	templatePath, err := request.RequireString("template_path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: template_path"), nil
	}
	pattern, err := request.RequireString("output_pattern")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: output_pattern"), nil
	}
	csv, err := request.RequireString("variations_csv")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: variations_csv"), nil
	}

	if _, err := s.files.GetProject(ctx, projectID); err != nil {
		return storeError(err, projectID), nil
	}
	tmpl, err := s.files.GetFile(ctx, projectID, templatePath)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No file %q in project %s.", templatePath, projectID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("reading template failed: %v", err)), nil
	}

	tags := templating.DetectTags(tmpl.Content)
	table := variations.NewTable(tags, nil)
	table.BulkImport(csv)

	req := variations.MultiplyRequest{
		Template:      *tmpl,
		Tags:          table.Tags(),
		Variations:    table.Rows(),
		OutputPattern: pattern,
		OutputFolder:  request.GetString("output_folder", ""),
	}
	if err := variations.Validate(req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid request: %v", err)), nil
	}

	pages, err := variations.NewDriver(s.files, nil, s.log).Multiply(ctx, projectID, req)
	if s.trail != nil {
		entry := audit.Entry{
			ProjectID:     projectID,
			ActorType:     audit.ActorAgent,
			ActorID:       "mcp",
			Action:        audit.ActionPagesMultiplied,
			Summary:       fmt.Sprintf("%d pages generated from %s", len(pages), tmpl.Path),
			AffectedPaths: pagePaths(pages),
		}
		if err != nil {
			entry.Outcome = audit.OutcomeFailure
			entry.Detail = err.Error()
		}
		s.trail.Record(ctx, entry)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation stopped after %d pages: %v", len(pages), err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d pages generated:\n", len(pages))
	for _, p := range pages {
		sb.WriteString(p.FilePath)
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func pagePaths(pages []variations.GeneratedPage) []string {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.FilePath
	}
	return paths
}

// projectFiles loads the files of a project, or a tool error result.
func (s *Server) projectFiles(ctx context.Context, projectID string) ([]project.File, *mcp.CallToolResult) {
	if _, err := s.files.GetProject(ctx, projectID); err != nil {
		return nil, storeError(err, projectID)
	}
	files, err := s.files.ListFiles(ctx, projectID)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("listing files failed: %v", err))
	}
	return files, nil
}

func storeError(err error, projectID string) *mcp.CallToolResult {
	if errors.Is(err, project.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No project %q. Use list_projects to find ids.", projectID))
	}
	return mcp.NewToolResultError(fmt.Sprintf("reading project failed: %v", err))
}
