package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultProfile is used when neither config, flags nor environment name a
// profile.
const DefaultProfile = "sandbox"

// Load reads configuration from a YAML file. A missing file is not an error:
// the config file is optional and defaults apply. Environment variables in
// the file are expanded before parsing.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = "jsonl"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}

func defaults() *AppConfig {
	profile := os.Getenv("PROFILE_NAME")
	if profile == "" {
		profile = DefaultProfile
	}
	return &AppConfig{
		AWS: AWSConfig{
			Profile: profile,
			Region:  os.Getenv("AWS_DEFAULT_REGION"),
		},
		Output:  OutputConfig{Format: "jsonl"},
		Logging: LoggingConfig{Level: "info"},
	}
}
