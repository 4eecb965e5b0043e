package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Values act as
// defaults; flags set explicitly on the command line win.
type FileConfig struct {
	Source   EndpointConfig `yaml:"source"`
	Target   EndpointConfig `yaml:"target"`
	Timeout  int            `yaml:"timeout"`
	Insecure bool           `yaml:"insecure"`
}

// EndpointConfig describes one repository manager endpoint.
type EndpointConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoadFile reads and parses a configuration file. Environment
// references like ${NEXUS_PASSWORD} are expanded before parsing, so
// secrets stay out of the file itself.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FileConfig) validate() error {
	if c.Source.URL == "" {
		return errors.New("config file: source.url is required")
	}
	if c.Timeout < 0 {
		return errors.New("config file: timeout must not be negative")
	}
	return nil
}

// ApplyFile folds file values into Global for every flag the user did
// not set explicitly.
func ApplyFile(flags *pflag.FlagSet, file *FileConfig) {
	apply := func(name string, set func()) {
		if !flags.Changed(name) {
			set()
		}
	}

	if file.Source.URL != "" {
		apply("source-url", func() { Global.SourceURL = file.Source.URL })
	}
	if file.Source.Username != "" {
		apply("source-user", func() { Global.SourceUsername = file.Source.Username })
	}
	if file.Source.Password != "" {
		apply("source-password", func() { Global.SourcePassword = file.Source.Password })
	}
	if file.Target.URL != "" {
		apply("target-url", func() { Global.TargetURL = file.Target.URL })
	}
	if file.Target.Username != "" {
		apply("target-user", func() { Global.TargetUsername = file.Target.Username })
	}
	if file.Target.Password != "" {
		apply("target-password", func() { Global.TargetPassword = file.Target.Password })
	}
	if file.Timeout > 0 {
		apply("timeout", func() { Global.Timeout = file.Timeout })
	}
	if file.Insecure {
		apply("insecure", func() { Global.Insecure = true })
	}
}
