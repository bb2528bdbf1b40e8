package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/config"
	"github.com/ziadkadry99/auto-site/internal/db"
	"github.com/ziadkadry99/auto-site/internal/llm"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/walker"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `autosite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if cfg.LogLevel != "" && !rootCmd.PersistentFlags().Changed("log-level") && !verbose {
		log = loggerFor(cfg.LogLevel)
	}
	return cfg, nil
}

// openStore opens the project database under the configured data dir.
// The caller closes the returned DB.
func openStore(cfg *config.Config) (*db.DB, *project.Store, error) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, project.NewStore(database), nil
}

// record adds an entry to the project's activity trail. Failures are only
// logged.
func record(ctx context.Context, database *db.DB, e audit.Entry) {
	audit.NewTrail(audit.NewStore(database), log).Record(ctx, e)
}

func filePaths(files []project.File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited and retried.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.Wrap(p, llm.Options{
		RequestsPerMinute: cfg.RequestsPerMinute,
		MaxRetries:        cfg.MaxRetries,
	}), nil
}

// walkerConfig maps the import settings of cfg onto a walk of dir.
func walkerConfig(cfg *config.Config, dir string) walker.Config {
	return walker.Config{
		RootDir: dir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	}
}

// resolveProject returns the project named by args[0], or asks the user to
// pick one when no argument was given.
func resolveProject(ctx context.Context, store *project.Store, args []string) (*project.Project, error) {
	if len(args) > 0 && args[0] != "" {
		p, err := store.GetProject(ctx, args[0])
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", args[0], err)
		}
		return p, nil
	}

	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	switch len(projects) {
	case 0:
		return nil, fmt.Errorf("no projects yet; create one with `autosite project create <name>`")
	case 1:
		return &projects[0], nil
	}

	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	picker := promptui.Select{
		Label: "Select project",
		Items: labels,
	}
	idx, _, err := picker.Run()
	if err != nil {
		return nil, fmt.Errorf("project selection: %w", err)
	}
	return &projects[idx], nil
}
