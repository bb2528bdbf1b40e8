package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/site"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage site projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		projects, err := store.ListProjects(context.Background())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		description, _ := cmd.Flags().GetString("description")
		p := &project.Project{Name: args[0], Description: description}
		ctx := context.Background()
		if err := store.CreateProject(ctx, p); err != nil {
			return err
		}
		record(ctx, database, audit.Entry{
			ProjectID: p.ID,
			ActorType: audit.ActorUser,
			Action:    audit.ActionProjectCreated,
			Summary:   "Project " + p.Name + " created",
		})
		fmt.Println(p.ID)
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Print the file tree of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := context.Background()
		p, err := resolveProject(ctx, store, args)
		if err != nil {
			return err
		}
		files, err := store.ListFiles(ctx, p.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s): %d files, %d pages\n", p.Name, p.ID, len(files), len(project.Pages(files)))
		tree := site.BuildTree(files)
		tree.Name = p.Name
		tree.Write(os.Stdout)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project with its files and templates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := store.DeleteProject(context.Background(), args[0]); err != nil {
			return err
		}
		log.Info().Str("project", args[0]).Msg("project deleted")
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("description", "", "project description")
	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectShowCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
