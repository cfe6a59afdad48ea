// Package config loads the module's YAML configuration and assembles the
// runtime pieces from it: the ranked provider registry, the goal evaluator
// strategy and the logger. Provider selection is purely configuration —
// reordering the providers list changes the fallback ranking without
// touching any orchestration code.
package config

import (
	"fmt"
	"os"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"gopkg.in/yaml.v3"

	"github.com/talecard/talecard/goal"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
	"github.com/talecard/talecard/provider/anthropic"
	"github.com/talecard/talecard/provider/gemini"
	"github.com/talecard/talecard/provider/openai"
)

// Config holds all turn engine configuration.
type Config struct {
	// Providers in priority order; the first entry is tried first.
	Providers []ProviderConfig `yaml:"providers"`

	// Turn tunes the engine's per-turn behavior.
	Turn TurnConfig `yaml:"turn"`

	// Evaluator selects the goal evaluation strategy.
	Evaluator EvaluatorConfig `yaml:"evaluator"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures one backend adapter.
type ProviderConfig struct {
	ID          string  `yaml:"id"` // openai, anthropic, gemini
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// TurnConfig tunes the engine.
type TurnConfig struct {
	Timeout        string `yaml:"timeout"`         // per-turn, e.g. "90s"
	AdapterTimeout string `yaml:"adapter_timeout"` // per-adapter, e.g. "30s"
	MaxConcurrent  int64  `yaml:"max_concurrent"`
}

// EvaluatorConfig selects and tunes the goal evaluator.
type EvaluatorConfig struct {
	Strategy string `yaml:"strategy"` // heuristic (default) or model
	Timeout  string `yaml:"timeout"`  // model strategy only
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Default returns a configuration that works without a file: OpenAI first,
// Anthropic second, heuristic evaluation, JSON info logging. API keys come
// from the conventional environment variables.
func Default() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{ID: "openai"},
			{ID: "anthropic"},
		},
		Turn:      TurnConfig{Timeout: "90s", AdapterTimeout: "30s", MaxConcurrent: 64},
		Evaluator: EvaluatorConfig{Strategy: "heuristic", Timeout: "15s"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads and validates a YAML config file, filling unset fields from
// Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the constructors below could not honor.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("config: at least one provider is required")
	}
	for _, p := range c.Providers {
		switch p.ID {
		case "openai", "anthropic", "gemini":
		default:
			return fmt.Errorf("config: unknown provider %q", p.ID)
		}
	}
	switch c.Evaluator.Strategy {
	case "", "heuristic", "model":
	default:
		return fmt.Errorf("config: unknown evaluator strategy %q", c.Evaluator.Strategy)
	}
	if _, err := c.TurnTimeout(); err != nil {
		return err
	}
	if _, err := c.AdapterTimeout(); err != nil {
		return err
	}
	return nil
}

// TurnTimeout returns the parsed per-turn timeout.
func (c *Config) TurnTimeout() (time.Duration, error) {
	return parseDuration("turn.timeout", c.Turn.Timeout, 90*time.Second)
}

// AdapterTimeout returns the parsed per-adapter timeout.
func (c *Config) AdapterTimeout() (time.Duration, error) {
	return parseDuration("turn.adapter_timeout", c.Turn.AdapterTimeout, 30*time.Second)
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	return d, nil
}

// BuildRegistry assembles the ranked adapter registry from the providers
// list. API keys fall back to the conventional environment variables
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).
func (c *Config) BuildRegistry(logger logging.Logger) (*provider.Registry, error) {
	adapters := make([]provider.Adapter, 0, len(c.Providers))
	for _, pc := range c.Providers {
		adapter, err := buildAdapter(pc)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	adapterTimeout, err := c.AdapterTimeout()
	if err != nil {
		return nil, err
	}
	return provider.NewRegistry(adapters, func(o *provider.RegistryOptions) {
		o.AdapterTimeout = adapterTimeout
		o.Logger = logger
	}), nil
}

func buildAdapter(pc ProviderConfig) (provider.Adapter, error) {
	switch pc.ID {
	case "openai":
		optFn := func(o *openai.Options) {
			if pc.Model != "" {
				o.Model = pc.Model
			}
			if pc.Temperature > 0 {
				o.Temperature = pc.Temperature
			}
			if pc.MaxTokens > 0 {
				o.MaxCompletionTokens = pc.MaxTokens
			}
		}
		if key := apiKey(pc, "OPENAI_API_KEY"); key != "" {
			client := openaisdk.NewClient(openaioption.WithAPIKey(key))
			return openai.NewFromClient(&client, optFn), nil
		}
		return openai.New(optFn), nil
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if pc.Model != "" {
				o.Model = anthropicsdk.Model(pc.Model)
			}
			if pc.Temperature > 0 {
				o.Temperature = pc.Temperature
			}
			if pc.MaxTokens > 0 {
				o.MaxTokens = pc.MaxTokens
			}
			o.APIKey = apiKey(pc, "ANTHROPIC_API_KEY")
		}), nil
	case "gemini":
		return gemini.New(func(o *gemini.Options) {
			if pc.Model != "" {
				o.Model = pc.Model
			}
			if pc.Temperature > 0 {
				o.Temperature = float32(pc.Temperature)
			}
			if pc.MaxTokens > 0 {
				o.MaxOutputTokens = int32(pc.MaxTokens)
			}
			o.APIKey = apiKey(pc, "GEMINI_API_KEY")
		})
	default:
		return nil, fmt.Errorf("config: unknown provider %q", pc.ID)
	}
}

func apiKey(pc ProviderConfig, envVar string) string {
	if pc.APIKey != "" {
		return pc.APIKey
	}
	return os.Getenv(envVar)
}

// BuildEvaluator assembles the configured goal evaluation strategy. The
// model strategy judges through completer, normally the same registry used
// for generation.
func (c *Config) BuildEvaluator(completer provider.Completer, logger logging.Logger) (goal.Evaluator, error) {
	switch c.Evaluator.Strategy {
	case "", "heuristic":
		return goal.NewHeuristic(), nil
	case "model":
		timeout, err := parseDuration("evaluator.timeout", c.Evaluator.Timeout, 15*time.Second)
		if err != nil {
			return nil, err
		}
		return goal.NewModelAssisted(completer, func(o *goal.ModelAssistedOptions) {
			o.Timeout = timeout
			o.Logger = logger
		}), nil
	default:
		return nil, fmt.Errorf("config: unknown evaluator strategy %q", c.Evaluator.Strategy)
	}
}

// BuildLogger assembles the configured logger.
func (c *Config) BuildLogger() *logging.TurnLogger {
	cfg := logging.DefaultConfig()
	if c.Logging.Level != "" {
		cfg.Level = logging.ParseLevel(c.Logging.Level)
	}
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	return logging.NewTurnLogger(cfg)
}
