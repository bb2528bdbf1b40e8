package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/compiler"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/walker"
)

var compileCmd = &cobra.Command{
	Use:   "compile [project-id]",
	Short: "Compile one page into a self-contained HTML document",
	Long: `Resolves the components of a page and inlines the project's CSS and JS,
printing the resulting document or writing it to --out. With --dir the files
are read from a folder instead of a stored project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("entry", "index.html", "page to compile")
	compileCmd.Flags().StringP("out", "o", "", "write the document to this file instead of stdout")
	compileCmd.Flags().String("dir", "", "compile from a site folder instead of a project")
	compileCmd.Flags().Bool("intercept", false, "include the preview navigation script")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entry, _ := cmd.Flags().GetString("entry")
	out, _ := cmd.Flags().GetString("out")
	dir, _ := cmd.Flags().GetString("dir")
	intercept, _ := cmd.Flags().GetBool("intercept")

	var files []project.File
	if dir != "" {
		files, err = walker.Load(walkerConfig(cfg, dir))
		if err != nil {
			return fmt.Errorf("loading %s: %w", dir, err)
		}
	} else {
		ctx := context.Background()
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		p, err := resolveProject(ctx, store, args)
		if err != nil {
			return err
		}
		if files, err = store.ListFiles(ctx, p.ID); err != nil {
			return err
		}
	}

	doc := compiler.Compile(files, entry, compiler.Options{
		InterceptNavigation: intercept,
		Lang:                cfg.Lang,
	})
	if doc == "" {
		return fmt.Errorf("nothing to compile: neither %s nor index.html exists", entry)
	}

	if out == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Info().Str("entry", entry).Str("out", out).Msg("page compiled")
	return nil
}
