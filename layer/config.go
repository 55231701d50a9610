package layer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the object-storage addressing options for an environment.
type Profile struct {
	// Bucket is the object-storage bucket artifacts and files are uploaded to.
	Bucket string `yaml:"bucket" json:"bucket"`
	// S3Prefix is an optional namespace root prepended to every uploaded key.
	S3Prefix string `yaml:"s3prefix,omitempty" json:"s3prefix,omitempty"`
}

// Config holds humilis configuration options shared across layers.
type Config struct {
	Profile Profile `yaml:"profile" json:"profile"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfigFromString(string(data))
}

// LoadConfigFromString parses a Config from YAML content.
func LoadConfigFromString(content string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
