package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/walker"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a site folder into a project",
	Long: `Reads the HTML, CSS and JS files of a folder (honouring .gitignore and
the include/exclude globs of the config) and stores them in a project. A new
project named after the folder is created unless --project is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("project", "", "import into an existing project")
	importCmd.Flags().Bool("replace", false, "delete the project's current files first")
	importCmd.Flags().Bool("skip-other", false, "skip files that are not html, css or js")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wcfg := walkerConfig(cfg, args[0])
	wcfg.SkipOther, _ = cmd.Flags().GetBool("skip-other")
	files, err := walker.Load(wcfg)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	if len(project.Pages(files)) == 0 {
		return fmt.Errorf("no html pages found in %s", args[0])
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	projectID, _ := cmd.Flags().GetString("project")
	if projectID == "" {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		p := &project.Project{Name: filepath.Base(abs), Description: "Imported from " + abs}
		if err := store.CreateProject(ctx, p); err != nil {
			return err
		}
		projectID = p.ID
	} else if _, err := store.GetProject(ctx, projectID); err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}

	replace, _ := cmd.Flags().GetBool("replace")
	if replace {
		err = store.ReplaceFiles(ctx, projectID, files)
	} else {
		for _, f := range files {
			if err = store.UpsertFile(ctx, projectID, f.Path, project.FileFields{Name: f.Name, Kind: f.Kind, Content: f.Content}); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("saving files: %w", err)
	}
	record(ctx, database, audit.Entry{
		ProjectID:     projectID,
		ActorType:     audit.ActorUser,
		Action:        audit.ActionFilesImported,
		Summary:       fmt.Sprintf("%d files imported from %s", len(files), args[0]),
		AffectedPaths: filePaths(files),
	})

	log.Info().Str("project", projectID).Int("files", len(files)).Msg("site imported")
	fmt.Println(projectID)
	return nil
}
