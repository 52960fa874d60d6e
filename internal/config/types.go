package config

// Thresholds collects every fixed constant the classifier and
// suggestion passes decide with, so the whole decision table sits in
// one auditable place instead of scattered literals.
type Thresholds struct {
	// UIFilePercent: files at or above this UI percentage classify UI.
	UIFilePercent float64 `yaml:"ui_file_percent" koanf:"ui_file_percent"`
	// LogicFilePercent: files at or below this UI percentage classify
	// Logic, provided at least one pure function exists.
	LogicFilePercent float64 `yaml:"logic_file_percent" koanf:"logic_file_percent"`
	// ExtractionMinLines: minimum line span for a pure function to be
	// proposed for extraction.
	ExtractionMinLines int `yaml:"extraction_min_lines" koanf:"extraction_min_lines"`
	// RefactorMinLines: minimum line span for a near-pure function to
	// be proposed for refactoring.
	RefactorMinLines int `yaml:"refactor_min_lines" koanf:"refactor_min_lines"`
	// RefactorMaxUICalls: maximum distinct UI calls a function may make
	// and still be proposed for refactoring.
	RefactorMaxUICalls int `yaml:"refactor_max_ui_calls" koanf:"refactor_max_ui_calls"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port     int    `yaml:"port" koanf:"port"`
	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
	AllowAll bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level webready configuration, corresponding to
// .webready.yml.
type Config struct {
	ProjectName string       `yaml:"project_name" koanf:"project_name"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	MaxWorkers  int          `yaml:"max_workers" koanf:"max_workers"`
	MaxFiles    int          `yaml:"max_files" koanf:"max_files"`
	Thresholds  Thresholds   `yaml:"thresholds" koanf:"thresholds"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
}
