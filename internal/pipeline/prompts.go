package pipeline

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/auto-site/internal/llm"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/sections"
)

// contextTokenBudget caps how much of the existing site is quoted back to
// the model.
const contextTokenBudget = 12000

const designSystemPrompt = `You are a web designer planning a small static website for a local business. Answer with a single JSON object and nothing else.`

const designPromptTemplate = `Plan a website for this business and return a JSON object with exactly these fields:

{
  "name": "business name",
  "tagline": "one short sentence",
  "palette": {"primary": "#hex", "secondary": "#hex", "accent": "#hex", "background": "#hex", "text": "#hex"},
  "font": "a Google Fonts family name",
  "pages": [
    {
      "path": "index.html",
      "title": "page title",
      "sections": [{"kind": "one of %s", "content": {}}]
    }
  ]
}

Section content schemas:
- hero: {"title", "subtitle", "cta_label", "cta_href"}
- features: {"title", "items": [{"icon", "title", "description"}]}
- about: {"title", "body" (markdown)}
- testimonials: {"title", "items": [{"quote", "author", "role"}]}
- cta: {"title", "description", "button_label", "button_href"}
- contact: {"title", "phone", "email", "address", "whatsapp"}

The first page must be index.html. Write all text in %s.

Business name: %s
Audience: %s
Requested pages: %s

Description:
%s
`

const codegenSystemPrompt = `You are a front-end developer. You refine static sites made of plain HTML, CSS and JavaScript files. Answer with a JSON array of files and nothing else.`

const codegenPromptTemplate = `Improve this scaffolded website. Return a JSON array where each element is {"path": "...", "kind": "html|css|js", "content": "..."}.

Rules:
- Keep the same file paths. You may add new css or js files.
- Pages are HTML fragments: keep the {{ header }} marker and the <div id="footer-placeholder"></div> element where they are.
- Shared markup lives in components/header.html and components/footer.html.
- Links between pages are relative, like href="contato.html".
- Write all text in %s.

Site: %s (%s)

%s`

// buildDesignMessages constructs the design analysis prompt.
func buildDesignMessages(b Briefing, c Context) []llm.Message {
	kinds := make([]string, len(sections.Kinds))
	for i, k := range sections.Kinds {
		kinds[i] = string(k)
	}
	pages := "choose what fits the business"
	if len(b.Pages) > 0 {
		pages = strings.Join(b.Pages, ", ")
	}
	prompt := fmt.Sprintf(designPromptTemplate,
		strings.Join(kinds, ", "),
		orDefault(b.Language, "pt-BR"),
		orDefault(b.BusinessName, "(choose one)"),
		orDefault(b.Audience, "general public"),
		pages,
		b.Description,
	)
	prompt += contextBlock(c)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: designSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

// buildCodegenMessages constructs the code generation prompt around the
// scaffold files.
func buildCodegenMessages(b Briefing, plan *SitePlan, scaffold []project.File, c Context) []llm.Message {
	var sb strings.Builder
	sb.WriteString("Files:\n")
	for _, f := range scaffold {
		fmt.Fprintf(&sb, "\n--- %s (%s)\n%s\n", f.Path, f.Kind, f.Content)
	}
	prompt := fmt.Sprintf(codegenPromptTemplate,
		orDefault(b.Language, "pt-BR"), plan.Name, plan.Tagline, sb.String())
	if c.Instructions != "" {
		prompt += "\nChange request:\n" + c.Instructions + "\n"
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: codegenSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

// contextBlock quotes the existing site and the change request, dropping
// files once the token budget is spent.
func contextBlock(c Context) string {
	if len(c.Files) == 0 && c.Instructions == "" {
		return ""
	}
	var sb strings.Builder
	if c.Instructions != "" {
		sb.WriteString("\nChange request:\n" + c.Instructions + "\n")
	}
	if len(c.Files) > 0 {
		sb.WriteString("\nThe site currently has these files; keep what works:\n")
		used := 0
		for _, f := range c.Files {
			if f.Kind == project.KindOther {
				continue
			}
			cost := llm.EstimateTokens(f.Content)
			if used+cost > contextTokenBudget {
				fmt.Fprintf(&sb, "\n--- %s (omitted)\n", f.Path)
				continue
			}
			used += cost
			fmt.Fprintf(&sb, "\n--- %s\n%s\n", f.Path, f.Content)
		}
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
