package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard interactively builds a Config and returns it. Used by the
// init command to bootstrap .webready.yml in a new project.
func RunWizard() (*Config, error) {
	cfg := DefaultConfig()

	// 1. Project name, defaulting to the working directory's base name.
	wd, _ := os.Getwd()
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: filepath.Base(wd),
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name prompt: %w", err)
	}
	cfg.ProjectName = name

	// 2. Parallel workers.
	workersPrompt := promptui.Prompt{
		Label:   "Parallel analysis workers",
		Default: strconv.Itoa(cfg.MaxWorkers),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	workersStr, err := workersPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("workers prompt: %w", err)
	}
	cfg.MaxWorkers, _ = strconv.Atoi(workersStr)

	// 3. Server port (only matters for `webready serve`).
	portPrompt := promptui.Prompt{
		Label:   "API server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a valid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Whether tests should be analyzed too.
	testsPrompt := promptui.Select{
		Label: "Include test files in analysis",
		Items: []string{"no", "yes"},
	}
	idx, _, err := testsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("test selection: %w", err)
	}
	if idx == 0 {
		cfg.Exclude = append(cfg.Exclude, "test_*.py", "**/tests/**")
	}

	return cfg, nil
}
