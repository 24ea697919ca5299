package minikanren

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("minikanren: invalid config")

// Config holds the settings of a Runner.
type Config struct {
	// ReifyMaxDepth bounds how deeply values are nested when a Runner's
	// searches read them, both for results and for the inputs of Assert, Map
	// and Project. List length does not count. If 0, defaults to
	// DefaultReifyMaxDepth.
	ReifyMaxDepth int `yaml:"reify_max_depth"`

	// MaxSolutions caps the number of solutions a Runner collects when the
	// caller asks for all of them. If 0, there is no cap.
	MaxSolutions int `yaml:"max_solutions"`

	// Parallelism is the number of goals RunEach evaluates at once.
	// If 0, defaults to runtime.NumCPU().
	Parallelism int `yaml:"parallelism"`

	// TraceSearch traces the searches the Runner starts to the Runner's
	// logger, tagged with their run id. Other searches are unaffected.
	TraceSearch bool `yaml:"trace_search"`
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	return Config{
		ReifyMaxDepth: DefaultReifyMaxDepth,
		Parallelism:   runtime.NumCPU(),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.ReifyMaxDepth < 0:
		return fmt.Errorf("%w: reify_max_depth must not be negative, got %d", ErrInvalidConfig, c.ReifyMaxDepth)
	case c.MaxSolutions < 0:
		return fmt.Errorf("%w: max_solutions must not be negative, got %d", ErrInvalidConfig, c.MaxSolutions)
	case c.Parallelism < 0:
		return fmt.Errorf("%w: parallelism must not be negative, got %d", ErrInvalidConfig, c.Parallelism)
	}
	return nil
}

// withDefaults fills zero settings with their defaults.
func (c Config) withDefaults() Config {
	if c.ReifyMaxDepth == 0 {
		c.ReifyMaxDepth = DefaultReifyMaxDepth
	}
	if c.Parallelism == 0 {
		c.Parallelism = runtime.NumCPU()
	}
	return c
}

// LoadConfig reads a YAML configuration. Settings missing from the document
// keep their defaults; unknown settings are rejected.
//
// Example document:
//
//	reify_max_depth: 4096
//	max_solutions: 100
//	parallelism: 4
//	trace_search: false
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
