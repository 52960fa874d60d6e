package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"webready/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize webready configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure webready for your project and generates a .webready.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
