package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listProjectsTool defines the list_projects MCP tool.
var listProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("List the site projects with their ids and names."),
)

// listPagesTool defines the list_pages MCP tool.
var listPagesTool = mcp.NewTool("list_pages",
	mcp.WithDescription("List the navigable pages of a project, excluding components and assets."),
	mcp.WithString("project_id",
		mcp.Required(),
		mcp.Description("Project id"),
	),
)

// detectTagsTool defines the detect_tags MCP tool.
var detectTagsTool = mcp.NewTool("detect_tags",
	mcp.WithDescription("Find the distinct {tag} markers in a template, in order of first appearance."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Template text"),
	),
)

// compilePageTool defines the compile_page MCP tool.
var compilePageTool = mcp.NewTool("compile_page",
	mcp.WithDescription("Compile a page of a project into one self-contained HTML document with components, CSS and JS inlined."),
	mcp.WithString("project_id",
		mcp.Required(),
		mcp.Description("Project id"),
	),
	mcp.WithString("entry_path",
		mcp.Description("Page path, e.g. contato.html (default index.html)"),
	),
)

// multiplyPagesTool defines the multiply_pages MCP tool.
var multiplyPagesTool = mcp.NewTool("multiply_pages",
	mcp.WithDescription("Generate one page per variation row from a template page of the project and save them."),
	mcp.WithString("project_id",
		mcp.Required(),
		mcp.Description("Project id"),
	),
	mcp.WithString("template_path",
		mcp.Required(),
		mcp.Description("Path of the template page inside the project"),
	),
	mcp.WithString("output_pattern",
		mcp.Required(),
		mcp.Description("File name pattern with tags, e.g. servico-{cidade}.html"),
	),
	mcp.WithString("output_folder",
		mcp.Description("Folder for the generated pages (default: project root)"),
	),
	mcp.WithString("variations_csv",
		mcp.Required(),
		mcp.Description("One variation per line, values in tag order separated by comma, semicolon, pipe or tab"),
	),
)
