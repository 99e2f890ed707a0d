package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/registry"
)

const (
	configPathEnv     = "CONVERSATION_VIEWER_CONFIG"
	listenAddrEnv     = "LISTEN_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	storageBackendEnv = "STORAGE_BACKEND"
	conversationsEnv  = "CONVERSATIONS_DIR"
	databaseDSNEnv    = "DATABASE_DSN"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	chatGPTURLEnv     = "CHATGPT_ENDPOINT"
	tokenSecretEnv    = "AUTH_TOKEN_SECRET"
	tokenIssuerEnv    = "AUTH_TOKEN_ISSUER"
	tokenAudienceEnv  = "AUTH_TOKEN_AUDIENCE"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	ChatGPT ChatGPTConfig `yaml:"chatgpt"`
	News    NewsConfig    `yaml:"news"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
	// RateLimit is requests per second per client on generation routes; zero disables it.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig describes how bearer tokens are verified.
type AuthConfig struct {
	TokenSecret string `yaml:"tokenSecret"`
	Issuer      string `yaml:"issuer"`
	Audience    string `yaml:"audience"`
}

// StorageConfig picks the conversation store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	DSN     string `yaml:"dsn"`
}

// ChatGPTConfig defines how to contact the completion API.
type ChatGPTConfig struct {
	Endpoint     string   `yaml:"endpoint"`
	Model        string   `yaml:"model"`
	APIKey       string   `yaml:"apiKey"`
	SystemPrompt string   `yaml:"systemPrompt"`
	Timeout      Duration `yaml:"timeout"`
}

// NewsConfig tunes the recommendation pipeline.
type NewsConfig struct {
	FetchTimeout    Duration      `yaml:"fetchTimeout"`
	Workers         int           `yaml:"workers"`
	FeedsPerTopic   int           `yaml:"feedsPerTopic"`
	ArticlesPerFeed int           `yaml:"articlesPerFeed"`
	CandidateLimit  int           `yaml:"candidateLimit"`
	HeadlineLimit   int           `yaml:"headlineLimit"`
	DedupeByURL     bool          `yaml:"dedupeByUrl"`
	UserAgent       string        `yaml:"userAgent"`
	Topics          []TopicConfig `yaml:"topics"`
}

// TopicConfig lists the feeds queried for one topic label.
type TopicConfig struct {
	Name  string   `yaml:"name"`
	Feeds []string `yaml:"feeds"`
}

// Duration reads Go duration strings ("8s", "2m") from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ReadFile parses a YAML file without applying defaults.
func ReadFile(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return cfg, nil
}

// Registry builds the topic registry from configured topics, or the built-in table.
func (c Config) Registry() (*registry.Registry, error) {
	if len(c.News.Topics) == 0 {
		return registry.New(registry.Defaults())
	}
	entries := make([]registry.TopicFeeds, 0, len(c.News.Topics))
	for _, topic := range c.News.Topics {
		entries = append(entries, registry.TopicFeeds{
			Topic: domain.Topic(topic.Name),
			Feeds: topic.Feeds,
		})
	}
	return registry.New(entries)
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{listenAddrEnv, &c.Server.Addr},
		{logLevelEnv, &c.Logging.Level},
		{logFormatEnv, &c.Logging.Format},
		{storageBackendEnv, &c.Storage.Backend},
		{conversationsEnv, &c.Storage.Dir},
		{databaseDSNEnv, &c.Storage.DSN},
		{chatGPTAPIKeyEnv, &c.ChatGPT.APIKey},
		{chatGPTModelEnv, &c.ChatGPT.Model},
		{chatGPTURLEnv, &c.ChatGPT.Endpoint},
		{tokenSecretEnv, &c.Auth.TokenSecret},
		{tokenIssuerEnv, &c.Auth.Issuer},
		{tokenAudienceEnv, &c.Auth.Audience},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func mergeConfig(base, override Config) Config {
	mergeString(&base.Server.Addr, override.Server.Addr)
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if override.Server.RateLimit > 0 {
		base.Server.RateLimit = override.Server.RateLimit
	}
	if override.Server.RateBurst > 0 {
		base.Server.RateBurst = override.Server.RateBurst
	}

	mergeString(&base.Logging.Level, override.Logging.Level)
	mergeString(&base.Logging.Format, override.Logging.Format)

	mergeString(&base.Auth.TokenSecret, override.Auth.TokenSecret)
	mergeString(&base.Auth.Issuer, override.Auth.Issuer)
	mergeString(&base.Auth.Audience, override.Auth.Audience)

	mergeString(&base.Storage.Backend, override.Storage.Backend)
	mergeString(&base.Storage.Dir, override.Storage.Dir)
	mergeString(&base.Storage.DSN, override.Storage.DSN)

	mergeString(&base.ChatGPT.Endpoint, override.ChatGPT.Endpoint)
	mergeString(&base.ChatGPT.Model, override.ChatGPT.Model)
	mergeString(&base.ChatGPT.APIKey, override.ChatGPT.APIKey)
	mergeString(&base.ChatGPT.SystemPrompt, override.ChatGPT.SystemPrompt)
	if override.ChatGPT.Timeout > 0 {
		base.ChatGPT.Timeout = override.ChatGPT.Timeout
	}

	news := override.News
	if news.FetchTimeout > 0 {
		base.News.FetchTimeout = news.FetchTimeout
	}
	mergeInt(&base.News.Workers, news.Workers)
	mergeInt(&base.News.FeedsPerTopic, news.FeedsPerTopic)
	mergeInt(&base.News.ArticlesPerFeed, news.ArticlesPerFeed)
	mergeInt(&base.News.CandidateLimit, news.CandidateLimit)
	mergeInt(&base.News.HeadlineLimit, news.HeadlineLimit)
	if news.DedupeByURL {
		base.News.DedupeByURL = true
	}
	mergeString(&base.News.UserAgent, news.UserAgent)
	if len(news.Topics) > 0 {
		base.News.Topics = news.Topics
	}

	return base
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(10 * time.Second),
			RateLimit:       2,
			RateBurst:       5,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Auth:    AuthConfig{},
		Storage: StorageConfig{Backend: BackendFile, Dir: "conversations"},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You help people review their recorded conversations.",
			Timeout:      Duration(60 * time.Second),
		},
		News: NewsConfig{
			FetchTimeout:    Duration(8 * time.Second),
			Workers:         8,
			FeedsPerTopic:   5,
			ArticlesPerFeed: 3,
			CandidateLimit:  15,
			HeadlineLimit:   3,
			UserAgent:       "ConversationViewer/1.0",
		},
	}
}
