package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/templating"
	"github.com/ziadkadry99/auto-site/internal/variations"
)

var multiplyCmd = &cobra.Command{
	Use:   "multiply [project-id]",
	Short: "Generate one page per variation from a template page",
	Long: `Expands a template page of a project once per variation row and saves
every result as a page of the project. The definition comes from flags, from
a YAML definition file (--file) or from a saved page template (--saved).

Definition file:

  template: servico.html
  output_pattern: servico-{cidade}.html
  output_folder: cidades
  rows: |
    São Paulo, Moema
    Campinas; Cambuí
  variations:
    - cidade: Santos
      bairro: Gonzaga`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMultiply,
}

func init() {
	multiplyCmd.Flags().String("template", "", "template page path inside the project")
	multiplyCmd.Flags().String("pattern", "", "output file name pattern, e.g. servico-{cidade}.html")
	multiplyCmd.Flags().String("folder", "", "output folder inside the project")
	multiplyCmd.Flags().String("rows", "", "file with one variation per line (values in tag order)")
	multiplyCmd.Flags().String("file", "", "YAML definition file")
	multiplyCmd.Flags().String("saved", "", "id of a saved page template")
	multiplyCmd.Flags().String("save", "", "save the definition as a page template with this name")
	multiplyCmd.Flags().Bool("dry-run", false, "print the pages that would be written")
	rootCmd.AddCommand(multiplyCmd)
}

// multiplyDef is the YAML definition of a multiplication run.
type multiplyDef struct {
	Template      string                 `yaml:"template"`
	OutputPattern string                 `yaml:"output_pattern"`
	OutputFolder  string                 `yaml:"output_folder"`
	Tags          []string               `yaml:"tags"`
	Rows          string                 `yaml:"rows"`
	Variations    []templating.Variation `yaml:"variations"`
}

func loadDefinitionFile(path string) (*multiplyDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}
	var def multiplyDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", path, err)
	}
	return &def, nil
}

func runMultiply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, files, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	templates := variations.NewStore(database)

	p, err := resolveProject(ctx, files, args)
	if err != nil {
		return err
	}

	def, err := multiplyDefinition(ctx, cmd, templates, p.ID)
	if err != nil {
		return err
	}
	if def.Template == "" || def.OutputPattern == "" {
		return errors.New("a template and an output pattern are required")
	}

	tmpl, err := files.GetFile(ctx, p.ID, def.Template)
	if err != nil {
		return fmt.Errorf("template %s: %w", def.Template, err)
	}

	tags := def.Tags
	if len(tags) == 0 {
		tags = templating.DetectTags(tmpl.Content)
	}
	table := variations.NewTable(tags, def.Variations)
	table.BulkImport(def.Rows)

	req := variations.MultiplyRequest{
		Template:      *tmpl,
		Tags:          table.Tags(),
		Variations:    table.Rows(),
		OutputPattern: def.OutputPattern,
		OutputFolder:  def.OutputFolder,
	}
	if err := variations.Validate(req); err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("save"); name != "" {
		pt := &variations.PageTemplate{
			ProjectID:      p.ID,
			Name:           name,
			SourceFilePath: tmpl.Path,
			OutputPattern:  req.OutputPattern,
			OutputFolder:   req.OutputFolder,
		}
		pt.Apply(table)
		if err := templates.Create(ctx, pt); err != nil {
			return err
		}
		fmt.Printf("Saved page template %s\n", pt.ID)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		for _, v := range req.Variations {
			fmt.Println(variations.Expand(tmpl.Content, req.OutputPattern, req.OutputFolder, v).FilePath)
		}
		return nil
	}

	driver := variations.NewDriver(files, progress.NewReporter("Generating pages"), log)
	pages, err := driver.Multiply(ctx, p.ID, req)
	record(ctx, database, multiplyEntry(p.ID, tmpl.Path, pages, err))
	reportMultiply(os.Stdout, p.ID, pages, err)
	return err
}

// multiplyEntry describes a run for the activity trail, including the
// pages committed before a failure.
func multiplyEntry(projectID, source string, pages []variations.GeneratedPage, err error) audit.Entry {
	paths := make([]string, len(pages))
	for i, pg := range pages {
		paths[i] = pg.FilePath
	}
	e := audit.Entry{
		ProjectID:     projectID,
		ActorType:     audit.ActorUser,
		Action:        audit.ActionPagesMultiplied,
		Summary:       fmt.Sprintf("%d pages generated from %s", len(pages), source),
		AffectedPaths: paths,
	}
	if err != nil {
		e.Outcome = audit.OutcomeFailure
		e.Detail = err.Error()
	}
	return e
}

func reportMultiply(w io.Writer, projectID string, pages []variations.GeneratedPage, err error) {
	if err == nil {
		fmt.Fprintf(w, "\n%d pages generated in project %s\n", len(pages), projectID)
		return
	}
	fmt.Fprintf(w, "\nGeneration stopped after %d pages in project %s\n", len(pages), projectID)
	for _, pg := range pages {
		fmt.Fprintf(w, "  %s\n", pg.FilePath)
	}
}

// multiplyDefinition builds the run definition from --saved, --file and
// the individual flags, in that order of precedence; flags given explicitly
// override the loaded values.
func multiplyDefinition(ctx context.Context, cmd *cobra.Command, templates *variations.Store, projectID string) (*multiplyDef, error) {
	def := &multiplyDef{}

	if id, _ := cmd.Flags().GetString("saved"); id != "" {
		pt, err := templates.Get(ctx, projectID, id)
		if err != nil {
			return nil, fmt.Errorf("page template %s: %w", id, err)
		}
		def = &multiplyDef{
			Template:      pt.SourceFilePath,
			OutputPattern: pt.OutputPattern,
			OutputFolder:  pt.OutputFolder,
			Tags:          pt.Tags,
			Variations:    pt.Variations,
		}
	} else if path, _ := cmd.Flags().GetString("file"); path != "" {
		loaded, err := loadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		def = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("template") {
		def.Template, _ = flags.GetString("template")
	}
	if flags.Changed("pattern") {
		def.OutputPattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("folder") {
		def.OutputFolder, _ = flags.GetString("folder")
	}
	if rowsFile, _ := flags.GetString("rows"); rowsFile != "" {
		data, err := os.ReadFile(rowsFile)
		if err != nil {
			return nil, fmt.Errorf("reading rows: %w", err)
		}
		def.Rows += "\n" + string(data)
	}
	return def, nil
}
