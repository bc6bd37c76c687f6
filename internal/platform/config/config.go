// Package config loads the service configuration with koanf and validates
// it before anything starts.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// OpenAIKeyEnv is read when services.completion.api_key is not set.
const OpenAIKeyEnv = "OPENAI_API_KEY"

const envPrefix = "APP_"

// Transport pool sizes used when a client is built without explicit
// settings.
const (
	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
//
// RequestTimeout bounds the catalog API and DraftingTimeout bounds
// /generate and /readwise. Both must fit inside WriteTimeout or the
// connection would be cut before the handler gives up.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s,ltefield=WriteTimeout"`
	DraftingTimeout time.Duration `koanf:"drafting_timeout" validate:"required,min=1s,ltefield=WriteTimeout"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings shared by the provider clients.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}

// ServicesConfig contains configuration for the external providers.
type ServicesConfig struct {
	Readwise   ReadwiseConfig   `koanf:"readwise"   validate:"required"`
	Completion CompletionConfig `koanf:"completion" validate:"required"`
}

// ReadwiseConfig configures the highlight export client. The credential is
// supplied per request by the caller, never stored here.
//
// CircuitBreaker is off by default: the breaker is shared by every caller,
// so one caller's failing credential or flaky fetch would fail everyone
// else's ingestion fast.
type ReadwiseConfig struct {
	BaseURL        string `koanf:"base_url"        validate:"required,url"`
	Name           string `koanf:"name"            validate:"required"`
	RetryAttempts  int    `koanf:"retry_attempts"  validate:"required,min=1,max=10"`
	CircuitBreaker bool   `koanf:"circuit_breaker"`
}

// CompletionConfig configures the chat completion provider.
type CompletionConfig struct {
	BaseURL       string  `koanf:"base_url"       validate:"required,url"`
	Name          string  `koanf:"name"           validate:"required"`
	Model         string  `koanf:"model"          validate:"required"`
	Temperature   float32 `koanf:"temperature"    validate:"min=0,max=2"`
	MaxTokens     int     `koanf:"max_tokens"     validate:"required,min=1,max=16384"`
	RetryAttempts int     `koanf:"retry_attempts" validate:"required,min=1,max=10"`

	// CircuitBreaker guards the single service-wide key.
	CircuitBreaker bool `koanf:"circuit_breaker"`

	// APIKey may be empty; generation then fails with a configuration error
	// while the rest of the service keeps working.
	APIKey string `koanf:"api_key"`
}

// Load layers, lowest first: the embedded defaults, configs/base.yaml,
// configs/<profile>.yaml, APP_* variables, then overrides, which are keyed
// like "server.port" and come from the command line. Missing files are
// skipped. An empty completion key falls back to OPENAI_API_KEY.
func Load(profile string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawYAML(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{"configs/base.yaml"}
	if profile != "" {
		files = append(files, filepath.Join("configs", profile+".yaml"))
	}

	for _, path := range files {
		if err := loadOptional(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Services.Completion.APIKey == "" {
		cfg.Services.Completion.APIKey = os.Getenv(OpenAIKeyEnv)
	}

	return &cfg, nil
}

// envKeyMapper turns APP_SERVICES_READWISE_BASE_URL into
// services.readwise.base_url. Underscores are ambiguous, so variables
// naming a known key map to it exactly and the rest split on every
// underscore.
func envKeyMapper(keys []string) func(string) string {
	byEnv := make(map[string]string, len(keys))
	for _, key := range keys {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func loadOptional(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// rawYAML is a koanf.Provider over an in-memory document.
type rawYAML []byte

func (r rawYAML) ReadBytes() ([]byte, error) { return r, nil }

func (r rawYAML) Read() (map[string]any, error) {
	return nil, errors.New("rawYAML provider requires a parser")
}
