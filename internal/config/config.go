package config

import (
	"github.com/spf13/viper"
)

// Config represents the enumerator configuration
type Config struct {
	// Walk settings
	Roots       []string `mapstructure:"roots"`        // directories to enumerate when none are given on the command line
	StrictPaths bool     `mapstructure:"strict_paths"` // abort on a path that is not valid UTF-8 instead of skipping it

	// Record stamps
	Host    string `mapstructure:"host"`    // overrides the machine hostname
	Fetched string `mapstructure:"fetched"` // overrides the scan start timestamp

	// Output settings
	Output    string `mapstructure:"output"`     // output file path, "-" for stdout
	FlushEach bool   `mapstructure:"flush_each"` // flush the sink after every record
}

// StdoutPath is the output path that selects standard output
const StdoutPath = "-"

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("roots", []string{})
	v.SetDefault("strict_paths", true)
	v.SetDefault("host", "")
	v.SetDefault("fetched", "")
	v.SetDefault("output", StdoutPath)
	v.SetDefault("flush_each", false)

	// Read environment variables
	v.SetEnvPrefix("UNIXFILES")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WritesToStdout reports whether records go to standard output
func (c *Config) WritesToStdout() bool {
	return c.Output == "" || c.Output == StdoutPath
}
