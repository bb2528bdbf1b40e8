package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/config"
	"github.com/ziadkadry99/auto-site/internal/logger"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string

	log *zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autosite",
	Short: "AI-generated static sites with page multiplication and live preview",
	Long: `autosite turns a business briefing into a static website with an LLM,
keeps the site's files per project, multiplies template pages with {tag}
markers into one page per variation, previews the compiled site at desktop,
tablet and mobile widths, and exports it as plain HTML.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if verbose {
			level = "debug"
		}
		log = loggerFor(level)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log = logger.Nop()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logger.DefaultLogLevel, "log level: debug, info, warn, error")
}

func loggerFor(level string) *zerolog.Logger {
	return logger.New(logger.WithLevel(level))
}
