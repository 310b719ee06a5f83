package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

// Config aggregates every setting of the service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	AI         AIConfig         `yaml:"ai"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig selects the session slot backend.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Options converts to storage options.
func (c StorageConfig) Options() storage.Options {
	return storage.Options{Backend: c.Backend, Dir: c.Dir, SQLitePath: c.SQLitePath}
}

// LoggingConfig configures slog and the rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SimulationConfig holds the fake latencies of the mock backend.
type SimulationConfig struct {
	AuthDelay  time.Duration `yaml:"auth_delay"`
	OrderDelay time.Duration `yaml:"order_delay"`
	ChatDelay  time.Duration `yaml:"chat_delay"`
	QuoteDelay time.Duration `yaml:"quote_delay"`
}

// RateLimitConfig bounds auth requests per device.
type RateLimitConfig struct {
	AuthPerMinute int `yaml:"auth_per_minute"`
}

// AIConfig describes the optional Ark model.
type AIConfig struct {
	APIKey         string   `yaml:"-"`
	AccessKey      string   `yaml:"-"`
	SecretKey      string   `yaml:"-"`
	Model          string   `yaml:"model"`
	BaseURL        string   `yaml:"base_url"`
	Region         string   `yaml:"region"`
	Temperature    *float64 `yaml:"temperature"`
	TopP           *float64 `yaml:"top_p"`
	MaxTokens      *int     `yaml:"max_tokens"`
	StreamResponse bool     `yaml:"stream_response"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Storage: StorageConfig{
			Backend:    storage.BackendMemory,
			Dir:        "data/slots",
			SQLitePath: "data/tradewise.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Simulation: SimulationConfig{
			AuthDelay:  time.Second,
			OrderDelay: 1500 * time.Millisecond,
			ChatDelay:  time.Second,
			QuoteDelay: 500 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{AuthPerMinute: 30},
		AI: AIConfig{
			BaseURL:        "https://ark.cn-beijing.volces.com/api/v3",
			Region:         "cn-beijing",
			StreamResponse: true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE when set, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = storage.BackendMemory
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	for name, d := range map[string]time.Duration{
		"auth_delay":  c.Simulation.AuthDelay,
		"order_delay": c.Simulation.OrderDelay,
		"chat_delay":  c.Simulation.ChatDelay,
		"quote_delay": c.Simulation.QuoteDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.RateLimit.AuthPerMinute < 0 {
		return fmt.Errorf("auth_per_minute must not be negative")
	}
	return nil
}

// Enabled reports whether Ark credentials and a model are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates the Ark chat model.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY (or ARK_ACCESS_KEY and ARK_SECRET_KEY) and ARK_MODEL")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr, err := parseAddr(port)
		if err != nil {
			return err
		}
		cfg.Server.Addr = addr
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	cfg.Storage.Backend = getEnvOrDefault("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Dir = getEnvOrDefault("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.Storage.SQLitePath)

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = getEnvOrDefault("LOG_FILE", cfg.Logging.File)

	delays := []struct {
		key string
		dst *time.Duration
	}{
		{"AUTH_DELAY", &cfg.Simulation.AuthDelay},
		{"ORDER_DELAY", &cfg.Simulation.OrderDelay},
		{"CHAT_DELAY", &cfg.Simulation.ChatDelay},
		{"QUOTE_DELAY", &cfg.Simulation.QuoteDelay},
	}
	for _, d := range delays {
		val, err := parseOptionalDurationEnv(d.key)
		if err != nil {
			return err
		}
		if val != nil {
			*d.dst = *val
		}
	}

	rate, err := parseOptionalIntEnv("AUTH_RATE_PER_MINUTE")
	if err != nil {
		return err
	}
	if rate != nil {
		cfg.RateLimit.AuthPerMinute = *rate
	}

	return applyAIEnv(&cfg.AI)
}

func applyAIEnv(ai *AIConfig) error {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return err
	}
	if temperature != nil {
		ai.Temperature = temperature
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return err
	}
	if topP != nil {
		ai.TopP = topP
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return err
	}
	if maxTokens != nil {
		ai.MaxTokens = maxTokens
	}

	stream, err := parseBoolEnv("ARK_STREAM", ai.StreamResponse)
	if err != nil {
		return err
	}
	ai.StreamResponse = stream

	ai.APIKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	ai.AccessKey = strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
	ai.SecretKey = strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
	ai.Model = getEnvOrDefault("ARK_MODEL", ai.Model)
	ai.BaseURL = getEnvOrDefault("ARK_BASE_URL", ai.BaseURL)
	ai.Region = getEnvOrDefault("ARK_REGION", ai.Region)
	return nil
}

// parseAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func parseAddr(port string) (string, error) {
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	return ":" + port, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

// parseOptionalDurationEnv accepts Go durations ("750ms") or bare
// milliseconds ("750").
func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	if ms, err := strconv.Atoi(value); err == nil {
		d := time.Duration(ms) * time.Millisecond
		return &d, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &d, nil
}
