package workload

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a reproducible stream of bag operations.
type Config struct {
	Seed           int64   `yaml:"seed"`
	InitialSize    int     `yaml:"initial_size"`
	Operations     int     `yaml:"operations"`
	RemoveFraction float64 `yaml:"remove_fraction"`
	ProbeFraction  float64 `yaml:"probe_fraction"`
	// ValueRange bounds generated values to [0, ValueRange).  Small ranges produce many duplicates.
	ValueRange  int   `yaml:"value_range"`
	Percentiles []int `yaml:"percentiles"`
	LogEvery    int   `yaml:"log_every"`
	// VerifyEvery runs a full structural check of the bag every so many operations, 0 to only
	// check at the end.
	VerifyEvery int `yaml:"verify_every"`
}

// DefaultConfig returns a mid-sized mixed workload that only verifies the bag at the end.
func DefaultConfig() Config {
	return Config{
		Seed:           1,
		InitialSize:    10_000,
		Operations:     100_000,
		RemoveFraction: 0.3,
		ProbeFraction:  0.1,
		ValueRange:     1_000_000,
		Percentiles:    []int{0, 50, 90, 99, 100},
		LogEvery:       25_000,
		VerifyEvery:    0,
	}
}

// LoadConfig reads a YAML workload file.  Fields absent from the file keep their defaults, and
// a path that does not exist yields the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "reading workload config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing workload config %s", path)
	}
	return cfg, cfg.Validate()
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports the first field that is out of range.
func (c Config) Validate() error {
	switch {
	case c.InitialSize < 0:
		return errors.Errorf("initial_size must not be negative, got %d", c.InitialSize)
	case c.Operations < 0:
		return errors.Errorf("operations must not be negative, got %d", c.Operations)
	case c.ValueRange <= 0:
		return errors.Errorf("value_range must be positive, got %d", c.ValueRange)
	case c.RemoveFraction < 0 || c.ProbeFraction < 0:
		return errors.New("remove_fraction and probe_fraction must not be negative")
	case c.RemoveFraction+c.ProbeFraction > 1:
		return errors.Errorf("remove_fraction + probe_fraction must not exceed 1, got %g",
			c.RemoveFraction+c.ProbeFraction)
	case c.LogEvery < 0 || c.VerifyEvery < 0:
		return errors.New("log_every and verify_every must not be negative")
	}
	for _, p := range c.Percentiles {
		if p < 0 || p > 100 {
			return errors.Errorf("percentile %d is outside [0,100]", p)
		}
	}
	return nil
}
