package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/pipeline"
	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/project"
)

var generateCmd = &cobra.Command{
	Use:   "generate [project-id]",
	Short: "Generate a site for a project from a business briefing",
	Long: `Runs the generation pipeline: the LLM plans the site from the briefing,
the plan is rendered into header and footer components, a stylesheet and one
page per planned page, and a second LLM pass refines the files. The project's
files are replaced by the result.

Without a project id a new project is created from the briefing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("briefing", "", "path to a briefing file (.yml or .json)")
	generateCmd.Flags().Bool("interactive", false, "describe the business interactively")
	generateCmd.Flags().String("instructions", "", "change request for an existing site")
	generateCmd.Flags().Bool("fresh", false, "ignore the project's current files")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	briefing, err := collectBriefing(cmd, cfg.Lang, cfg.DataDir)
	if err != nil {
		return err
	}
	if briefing.Language == "" {
		briefing.Language = cfg.Lang
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var projectID string
	if len(args) > 0 {
		if _, err := store.GetProject(ctx, args[0]); err != nil {
			return fmt.Errorf("project %s: %w", args[0], err)
		}
		projectID = args[0]
	} else {
		name := briefing.BusinessName
		if name == "" {
			name = "Novo site"
		}
		p := &project.Project{Name: name, Description: briefing.Description}
		if err := store.CreateProject(ctx, p); err != nil {
			return err
		}
		projectID = p.ID
	}

	c := pipeline.Context{}
	c.Instructions, _ = cmd.Flags().GetString("instructions")
	if fresh, _ := cmd.Flags().GetBool("fresh"); !fresh {
		if c.Files, err = store.ListFiles(ctx, projectID); err != nil {
			return err
		}
	}

	gen := pipeline.NewGenerator(provider, cfg.Quality, cfg.Model, log, progress.NewReporter("Generating site"))
	files, err := pipeline.Regenerate(ctx, gen, store, projectID, *briefing, c)
	if err != nil {
		record(ctx, database, audit.Entry{
			ProjectID: projectID,
			ActorType: audit.ActorUser,
			Action:    audit.ActionSiteGenerated,
			Outcome:   audit.OutcomeFailure,
			Summary:   "Generation failed",
			Detail:    err.Error(),
		})
		return err
	}
	record(ctx, database, audit.Entry{
		ProjectID:     projectID,
		ActorType:     audit.ActorUser,
		Action:        audit.ActionSiteGenerated,
		Summary:       fmt.Sprintf("%d files generated with %s", len(files), cfg.Model),
		AffectedPaths: filePaths(files),
	})

	calls, in, out, cost := gen.Usage.Totals()
	fmt.Printf("\nGenerated %d files for project %s in %s\n", len(files), projectID, time.Since(start).Round(time.Second))
	fmt.Printf("  LLM calls: %d, tokens: %d in / %d out", calls, in, out)
	if cost > 0 {
		fmt.Printf(", estimated cost: $%.4f", cost)
	}
	fmt.Println()
	fmt.Printf("Preview it with `autosite serve` and open /preview/%s\n", projectID)
	return nil
}

// collectBriefing reads the briefing from --briefing, asks for it with
// --interactive, or falls back to the last briefing saved in dataDir.
func collectBriefing(cmd *cobra.Command, lang, dataDir string) (*pipeline.Briefing, error) {
	savePath := filepath.Join(dataDir, "briefing.yml")

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		b, err := pipeline.CollectBriefing(lang)
		if err != nil {
			return nil, fmt.Errorf("collecting briefing: %w", err)
		}
		if err := b.Save(savePath); err != nil {
			log.Warn().Err(err).Msg("could not save briefing")
		}
		return b, nil
	}

	path, _ := cmd.Flags().GetString("briefing")
	if path == "" {
		path = savePath
	}
	b, err := pipeline.LoadBriefing(path)
	if err != nil {
		return nil, fmt.Errorf("%w\nPass --briefing <file> or --interactive", err)
	}
	return b, nil
}
