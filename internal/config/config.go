package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/bstindex/internal/dataset"
)

// Config is the top-level configuration struct for bstindex.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Index     IndexConfig     `mapstructure:"index"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// IndexConfig holds the shape of the index built from a dataset.
type IndexConfig struct {
	KeyType string `mapstructure:"key_type"`
	Unique  bool   `mapstructure:"unique"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	ServiceName     string        `mapstructure:"service_name"`
	Environment     string        `mapstructure:"environment"`
	OTLPEndpoint    string        `mapstructure:"otlp_endpoint"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	OTLPInsecure    bool          `mapstructure:"otlp_insecure"`
}

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Sentinel validation errors.
var (
	// ErrInvalidKeyType indicates index.key_type names no known key type.
	ErrInvalidKeyType = errors.New("index.key_type is not a known key type")
	// ErrInvalidLogLevel indicates logging.level is not a slog level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates logging.format is neither text nor json.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
	// ErrInvalidSampleRatio indicates the sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidShutdownTimeout indicates the shutdown timeout is not positive.
	ErrInvalidShutdownTimeout = errors.New("telemetry.shutdown_timeout must be positive")
	// ErrEmptyServiceName indicates telemetry.service_name is blank.
	ErrEmptyServiceName = errors.New("telemetry.service_name must not be empty")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	_, err := dataset.ParseKeyType(c.Index.KeyType)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidKeyType, c.Index.KeyType)
	}

	loggingErr := c.validateLogging()
	if loggingErr != nil {
		return loggingErr
	}

	return c.validateTelemetry()
}

func (c *Config) validateLogging() error {
	_, err := c.Logging.SlogLevel()
	if err != nil {
		return err
	}

	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

func (c *Config) validateTelemetry() error {
	if c.Telemetry.ServiceName == "" {
		return ErrEmptyServiceName
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	if c.Telemetry.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidShutdownTimeout, c.Telemetry.ShutdownTimeout)
	}

	return nil
}

// SlogLevel parses Level into a [slog.Level].
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// KeyType returns the parsed index key type. It is only meaningful on a
// validated Config.
func (c *Config) KeyType() dataset.KeyType {
	kt, _ := dataset.ParseKeyType(c.Index.KeyType)

	return kt
}
