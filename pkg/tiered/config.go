package tiered

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/RDFacendola/Syntropy-sub008/internal/logger"
)

// Config describes a tier. Sizes accept human-readable units in YAML
// ("64KB", "1GB"); units are binary.
type Config struct {
	Virtual VirtualConfig `yaml:"virtual"`
	Stack   StackConfig   `yaml:"stack"`
	Log     LogConfig     `yaml:"log"`
}

// VirtualConfig configures the primary virtual stack.
type VirtualConfig struct {
	Capacity    datasize.ByteSize `yaml:"capacity"`    // address space to reserve
	Granularity datasize.ByteSize `yaml:"granularity"` // commit step, rounded up to the page size
}

// StackConfig configures the heap-backed fallback stack.
type StackConfig struct {
	Granularity datasize.ByteSize `yaml:"granularity"` // minimum chunk size
}

// LogConfig configures lifecycle logging.
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn or error
	Format  string `yaml:"format"` // text or json
}

// DefaultConfig returns the configuration used for fields a YAML document
// leaves out.
func DefaultConfig() Config {
	return Config{
		Virtual: VirtualConfig{
			Capacity:    1 * datasize.GB,
			Granularity: 64 * datasize.KB,
		},
		Stack: StackConfig{
			Granularity: 64 * datasize.KB,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig decodes a YAML document over DefaultConfig and validates the
// result. Unknown fields are rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("tiered: decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field. The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Virtual.Capacity == 0:
		return invalid("virtual.capacity", "must be positive")
	case c.Virtual.Capacity.Bytes() > math.MaxInt:
		return invalid("virtual.capacity", "%s exceeds the address space", c.Virtual.Capacity)
	case c.Virtual.Granularity == 0:
		return invalid("virtual.granularity", "must be positive")
	case c.Virtual.Granularity > c.Virtual.Capacity:
		return invalid("virtual.granularity", "%s exceeds capacity %s", c.Virtual.Granularity, c.Virtual.Capacity)
	case c.Stack.Granularity == 0:
		return invalid("stack.granularity", "must be positive")
	case c.Stack.Granularity.Bytes() > math.MaxInt:
		return invalid("stack.granularity", "%s exceeds the address space", c.Stack.Granularity)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", "unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return invalid("log.format", "unknown format %q", c.Log.Format)
	}
	return nil
}

// loggerOptions maps the log section to logger options.
func (c LogConfig) loggerOptions() logger.Options {
	return logger.Options{
		Enabled: c.Enabled,
		Level:   logger.ParseLevel(c.Level),
		JSON:    strings.EqualFold(c.Format, "json"),
	}
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}
