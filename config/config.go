// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

const (
	// DefaultOverlapMin is the shortest overlap tried when detecting overlaps
	DefaultOverlapMin = 10

	// DefaultOverlapMax is the longest overlap tried when detecting overlaps
	DefaultOverlapMax = 200

	// DefaultMaxSteps is how many nodes a trace walks past its start
	DefaultMaxSteps = 15

	// DefaultProgressInterval is the least time between progress lines
	DefaultProgressInterval = 2 * time.Second
)

var validate = validator.New()

// OverlapConfig bounds exact overlap detection
type OverlapConfig struct {
	// the shortest overlap to test
	Min int `mapstructure:"min" validate:"min=1"`

	// the longest overlap to test
	Max int `mapstructure:"max" validate:"gtefield=Min"`
}

// TraceConfig is settings for walking the graph
type TraceConfig struct {
	// the maximum number of nodes added past a walk's origin
	MaxSteps int `mapstructure:"max-steps" validate:"min=1"`

	// how often a long walk logs its progress
	ProgressInterval time.Duration `mapstructure:"progress-interval" validate:"gt=0"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	Overlap OverlapConfig `mapstructure:"overlap"`

	Trace TraceConfig `mapstructure:"trace"`

	// seed for the random start of overlap detection. 0 picks one at random
	Seed uint64 `mapstructure:"seed"`

	// whether to log progress to stderr
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers every setting's default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("overlap.min", DefaultOverlapMin)
	v.SetDefault("overlap.max", DefaultOverlapMax)
	v.SetDefault("trace.max-steps", DefaultMaxSteps)
	v.SetDefault("trace.progress-interval", DefaultProgressInterval)
	v.SetDefault("seed", 0)
	v.SetDefault("verbose", false)
}

// New returns a Config populated by the global Viper instance
func New() (*Config, error) {
	return Load(viper.GetViper())
}

// Load reads the settings file named by the "settings" key, if any, over the
// defaults, then unmarshals and validates v's settings. Flags bound to v win
// over the file
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	if settings := v.GetString("settings"); settings != "" {
		v.SetConfigFile(settings)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", settings, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every setting is in range
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// OverlapRange is the range overlap detection searches
func (c *Config) OverlapRange() graph.OverlapRange {
	return graph.OverlapRange{Min: c.Overlap.Min, Max: c.Overlap.Max}
}
