package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/kelseyhightower/envconfig"
)

// Generator backends accepted by BOT_GENERATOR.
const (
	GeneratorAuto   = "auto"
	GeneratorEcho   = "echo"
	GeneratorArk    = "ark"
	GeneratorGemini = "gemini"
)

// Config aggregates the server configuration.
type Config struct {
	Server ServerConfig
	Bot    BotConfig
	AI     AIConfig
	Gemini GeminiConfig
	Log    LogConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	bot, err := loadBotConfig()
	if err != nil {
		return nil, err
	}

	var ai AIConfig
	if err := envconfig.Process("ark", &ai); err != nil {
		return nil, fmt.Errorf("invalid ARK configuration: %w", err)
	}

	var gemini GeminiConfig
	if err := envconfig.Process("gemini", &gemini); err != nil {
		return nil, fmt.Errorf("invalid GEMINI configuration: %w", err)
	}

	log, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Bot: bot, AI: ai, Gemini: gemini, Log: log}, nil
}

// ServerConfig describes the HTTP server.
type ServerConfig struct {
	Port          string `envconfig:"PORT" default:"8080"`
	StaticDir     string `envconfig:"STATIC_DIR" default:"static"`
	SecureCookies bool   `envconfig:"COOKIE_SECURE" default:"false"`

	// Addr is derived from Port.
	Addr string `ignored:"true"`
}

// loadServerConfig resolves the listen address.
func loadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server configuration: %w", err)
	}

	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "8080"
	}

	switch {
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	case strings.Contains(port, ":"):
		// Accept ":8080" or "127.0.0.1:8080" as is.
		cfg.Addr = port
	default:
		cfg.Addr = ":" + port
	}
	return cfg, nil
}

// BotConfig controls the chat bot and its dialog storage.
type BotConfig struct {
	MaxContextLen int    `envconfig:"MAX_CONTEXT_LEN" default:"5"`
	StorageSize   int    `envconfig:"STORAGE_SIZE" default:"100"`
	ProfileDir    string `envconfig:"PROFILE_DIR"`
	Generator     string `envconfig:"GENERATOR" default:"auto"`
	Instruction   string `envconfig:"INSTRUCTION"`
}

func loadBotConfig() (BotConfig, error) {
	var cfg BotConfig
	if err := envconfig.Process("bot", &cfg); err != nil {
		return BotConfig{}, fmt.Errorf("invalid BOT configuration: %w", err)
	}

	if cfg.MaxContextLen < 1 {
		return BotConfig{}, fmt.Errorf("invalid BOT_MAX_CONTEXT_LEN value %d: must be at least 1", cfg.MaxContextLen)
	}
	if cfg.StorageSize < 1 {
		return BotConfig{}, fmt.Errorf("invalid BOT_STORAGE_SIZE value %d: must be at least 1", cfg.StorageSize)
	}

	cfg.Generator = strings.ToLower(strings.TrimSpace(cfg.Generator))
	if cfg.Generator == "" {
		cfg.Generator = GeneratorAuto
	}
	switch cfg.Generator {
	case GeneratorAuto, GeneratorEcho, GeneratorArk, GeneratorGemini:
	default:
		return BotConfig{}, fmt.Errorf("invalid BOT_GENERATOR value %q", cfg.Generator)
	}
	return cfg, nil
}

// AIConfig describes the Ark chat model.
type AIConfig struct {
	APIKey      string   `envconfig:"API_KEY"`
	AccessKey   string   `envconfig:"ACCESS_KEY"`
	SecretKey   string   `envconfig:"SECRET_KEY"`
	Model       string   `envconfig:"MODEL"`
	BaseURL     string   `envconfig:"BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `envconfig:"REGION" default:"cn-beijing"`
	Temperature *float64 `envconfig:"TEMPERATURE"`
	TopP        *float64 `envconfig:"TOP_P"`
	MaxTokens   *int     `envconfig:"MAX_TOKENS"`
}

// Enabled reports whether a model and credentials were supplied.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
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

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// GeminiConfig describes the Gemini reply generator.
type GeminiConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"gemini-2.5-flash"`
}

// Enabled reports whether an API key was supplied.
func (c GeminiConfig) Enabled() bool {
	return c.APIKey != ""
}

// LogConfig selects the zap level and destination.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Output string `envconfig:"OUTPUT" default:"stderr"`
}

func loadLogConfig() (LogConfig, error) {
	var cfg LogConfig
	if err := envconfig.Process("log", &cfg); err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG configuration: %w", err)
	}
	return cfg, nil
}

// ClientConfig configures the chatclient binary. Flags override these values.
type ClientConfig struct {
	ServerURL string        `envconfig:"SERVER_URL" default:"http://localhost:8080"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"0s"`
	LogFile   string        `envconfig:"LOG_FILE"`
}

// LoadClient reads CHAT_* variables.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process("chat", &cfg); err != nil {
		return nil, fmt.Errorf("invalid CHAT configuration: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid CHAT_TIMEOUT value %s: must not be negative", cfg.Timeout)
	}
	return &cfg, nil
}
