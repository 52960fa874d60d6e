package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "webready",
	Short: "Score how much of a Python desktop app can move behind a web API",
	Long: `Webready statically analyzes a PyQt, PySide, tkinter or wxPython
codebase, separates UI-bound code from reusable business logic, and
produces a web conversion guide with extraction and refactoring
suggestions.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".webready.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
