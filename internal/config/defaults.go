package config

// DefaultExcludes are glob patterns excluded from analysis by default.
var DefaultExcludes = []string{
	"__pycache__/**",
	".git/**",
	".venv/**",
	"venv/**",
	"env/**",
	"build/**",
	"dist/**",
	"*.egg-info/**",
	".tox/**",
	".pytest_cache/**",
}

// DefaultThresholds returns the classification and suggestion constants
// the engine ships with. The 80/20 file boundaries are inclusive: a file
// at exactly 80% is UI, a file at exactly 20% with a pure function is
// Logic.
func DefaultThresholds() Thresholds {
	return Thresholds{
		UIFilePercent:      80,
		LogicFilePercent:   20,
		ExtractionMinLines: 3,
		RefactorMinLines:   5,
		RefactorMaxUICalls: 2,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Include:    []string{"**/*.py"},
		Exclude:    DefaultExcludes,
		MaxWorkers: 4,
		MaxFiles:   1000,
		Thresholds: DefaultThresholds(),
		Server: ServerConfig{
			Port:    8080,
			DataDir: ".webready",
		},
	}
}
