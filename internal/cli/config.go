package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrConfig is wrapped by every configuration error.
var ErrConfig = errors.New("invalid configuration")

// Config is the run profile shared by every command.
// It is read from an optional YAML file; command-line flags override it.
type Config struct {
	Mode         string        `mapstructure:"mode"`
	HeaderPolicy string        `mapstructure:"header_policy"`
	StepLimit    uint64        `mapstructure:"step_limit"`
	TraceWindow  int           `mapstructure:"trace_window"`
	LogLevel     string        `mapstructure:"log_level"`
	MachinesDir  string        `mapstructure:"machines_dir"`
	StoreDir     string        `mapstructure:"store_dir"`
	RedisURL     string        `mapstructure:"redis_url"`
	RedisTTL     time.Duration `mapstructure:"redis_ttl"`
	Concurrency  int           `mapstructure:"concurrency"`

	// EncryptionKey is a hex encoded AES-256 key. When set, run records are
	// sealed before they reach the store.
	EncryptionKey          string   `mapstructure:"encryption_key"`
	EncryptionFallbackKeys []string `mapstructure:"encryption_fallback_keys"`
	// RecordTapeRadius clips stored tapes to this many cells around the
	// final head. Zero keeps the whole tape.
	RecordTapeRadius int `mapstructure:"record_tape_radius"`
}

// DefaultConfig returns the profile used when no file or flag says otherwise.
func DefaultConfig() Config {
	return Config{
		Mode:         domain.ModeStrict.String(),
		HeaderPolicy: domain.HeaderLenient.String(),
		StepLimit:    domain.DefaultStepLimit,
		TraceWindow:  domain.DefaultTraceWindow,
		LogLevel:     "warn",
		MachinesDir:  ".",
		Concurrency:  4,
	}
}

// LoadConfig reads a YAML profile on top of DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.decodeYAML(data); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return cfg, cfg.Validate()
}

// decodeYAML overlays the keys present in data onto c.
// Unknown keys are an error so that typos do not go unnoticed.
func (c *Config) decodeYAML(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(raw)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := domain.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseHeaderPolicy(c.HeaderPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.StepLimit == 0 {
		errs = append(errs, errors.New("step_limit must be positive"))
	}
	if c.TraceWindow < 0 {
		errs = append(errs, errors.New("trace_window cannot be negative"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, errors.New("concurrency must be at least 1"))
	}
	if c.RecordTapeRadius < 0 {
		errs = append(errs, errors.New("record_tape_radius cannot be negative"))
	}
	if _, err := c.encryptionConfig(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// encryptionConfig decodes the hex keys. It returns nil when encryption is off.
func (c Config) encryptionConfig() (*middleware.EncryptionConfig, error) {
	if c.EncryptionKey == "" {
		if len(c.EncryptionFallbackKeys) > 0 {
			return nil, errors.New("encryption_fallback_keys requires encryption_key")
		}
		return nil, nil
	}
	decode := func(field, s string) ([]byte, error) {
		key, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%s: %w", field, middleware.ErrInvalidKey)
		}
		return key, nil
	}

	active, err := decode("encryption_key", c.EncryptionKey)
	if err != nil {
		return nil, err
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range c.EncryptionFallbackKeys {
		key, err := decode(fmt.Sprintf("encryption_fallback_keys[%d]", i), s)
		if err != nil {
			return nil, err
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, nil
}
