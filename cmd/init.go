package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize autosite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the LLM provider, quality tier and site language, and writes a .autosite.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
