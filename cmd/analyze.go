package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"webready/internal/config"
	"webready/internal/engine"
	"webready/internal/export"
	"webready/internal/progress"
	"webready/internal/toolkit"
	"webready/internal/walker"
)

var (
	analyzeFormat  string
	analyzeOutput  string
	analyzeWorkers int
	analyzeName    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a Python project's readiness for a web backend",
	Long: `Scans the Python files under the given path (default: current
directory), classifies each file as UI, logic or mixed, and writes a
web-readiness report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if analyzeWorkers > 0 {
			cfg.MaxWorkers = analyzeWorkers
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		format, err := export.ParseFormat(analyzeFormat)
		if err != nil {
			return err
		}

		infos, err := walker.Walk(walker.Config{
			RootDir:  root,
			Include:  cfg.Include,
			Exclude:  cfg.Exclude,
			MaxFiles: cfg.MaxFiles,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", root, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "found %d Python files under %s\n", len(infos), root)
		}

		files := make([]engine.SourceFile, 0, len(infos))
		for _, info := range infos {
			content, err := os.ReadFile(info.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", info.Path, err)
			}
			files = append(files, engine.SourceFile{Path: info.RelPath, Content: content})
		}

		name := analyzeName
		if name == "" {
			name = cfg.ProjectName
		}
		if name == "" {
			abs, err := filepath.Abs(root)
			if err != nil {
				abs = root
			}
			name = filepath.Base(abs)
		}

		eng := engine.New(toolkit.DefaultRegistry(), cfg.Thresholds, cfg.MaxWorkers)
		reporter := progress.NewReporter()
		result, err := eng.Run(cmd.Context(), name, files, reporter.Sink())
		reporter.Finish()
		if err != nil {
			return err
		}

		out, _, err := export.Render(result, string(format))
		if err != nil {
			return err
		}

		if analyzeOutput == "" || analyzeOutput == "-" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := os.WriteFile(analyzeOutput, out, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", analyzeOutput)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "output format: json, markdown or html")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "override the number of parallel workers")
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "project name used in the report")
	rootCmd.AddCommand(analyzeCmd)
}
