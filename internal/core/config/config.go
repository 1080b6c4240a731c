package config

// AppConfig represents the top-level configuration. Every value is a default
// that command-line flags override.
type AppConfig struct {
	AWS     AWSConfig     `yaml:"aws"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// AWSConfig holds client resolution defaults.
type AWSConfig struct {
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// OutputConfig holds output rendering defaults.
type OutputConfig struct {
	Format   string `yaml:"format"` // jsonl, json, tsv, csv, table
	NoHeader bool   `yaml:"no_header"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
