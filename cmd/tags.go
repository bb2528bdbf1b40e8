package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/templating"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "List the {tag} markers of a template",
	Long: `Prints the distinct {tag} markers of a template in order of first
appearance. The file is read from disk, or from a project with --project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readTemplate(cmd, args[0])
		if err != nil {
			return err
		}
		for _, tag := range templating.DetectTags(content) {
			fmt.Println(tag)
		}
		return nil
	},
}

func init() {
	tagsCmd.Flags().String("project", "", "read the file from this project")
	rootCmd.AddCommand(tagsCmd)
}

// readTemplate returns the content of path, from the project given by
// --project or from disk.
func readTemplate(cmd *cobra.Command, path string) (string, error) {
	projectID, _ := cmd.Flags().GetString("project")
	if projectID == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return "", err
	}
	defer database.Close()

	f, err := store.GetFile(context.Background(), projectID, path)
	if err != nil {
		return "", fmt.Errorf("%s in project %s: %w", path, projectID, err)
	}
	return f.Content, nil
}
