package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/progress"
	"github.com/ziadkadry99/auto-site/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build [project-id]",
	Short: "Export a project as a static website",
	Long: `Compiles every page of the project into a standalone HTML file and copies
its assets into the output directory, ready to be served by any web server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		p, err := resolveProject(ctx, store, args)
		if err != nil {
			return err
		}
		files, err := store.ListFiles(ctx, p.ID)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.OutputDir
		}
		baseURL, _ := cmd.Flags().GetString("base-url")

		exp := site.NewExporter(out)
		exp.Lang = cfg.Lang
		exp.BaseURL = baseURL
		exp.Log = log
		exp.Reporter = progress.NewReporter("Exporting pages")

		n, err := exp.Export(files)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", p.Name, err)
		}
		record(ctx, database, audit.Entry{
			ProjectID: p.ID,
			ActorType: audit.ActorUser,
			Action:    audit.ActionSiteExported,
			Summary:   fmt.Sprintf("%d pages exported to %s", n, out),
		})
		fmt.Printf("\n%d pages written to %s\n", n, out)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default from config)")
	buildCmd.Flags().String("base-url", "", "public URL of the site, enables sitemap.xml")
	rootCmd.AddCommand(buildCmd)
}
