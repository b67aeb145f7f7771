package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ExchangeConfig describes one connected venue. BaseURL may point at
// any Binance-compatible REST endpoint; credentials are optional and
// only needed for balance queries and order placement.
type ExchangeConfig struct {
	Name      string `yaml:"name"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// Config holds all application configuration.
type Config struct {
	DataDir     string           `yaml:"data_dir"`
	QuoteAsset  string           `yaml:"quote_asset"`
	AutoExecute bool             `yaml:"auto_execute"`
	Exchanges   []ExchangeConfig `yaml:"exchanges"`
	Schedule    struct {
		CheckCron    string `yaml:"check_cron"`
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Discord struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"discord"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("OMNITRADE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("OMNITRADE_AUTO_EXECUTE"); v == "true" {
		cfg.AutoExecute = true
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.ensureExchange("binance").APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.ensureExchange("binance").APISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".omnitrade")
	}
	if cfg.QuoteAsset == "" {
		cfg.QuoteAsset = "USDT"
	}
	if len(cfg.Exchanges) == 0 {
		cfg.Exchanges = []ExchangeConfig{{Name: "binance"}}
	}
	if cfg.Schedule.CheckCron == "" {
		cfg.Schedule.CheckCron = "0 * * * * *" // every minute
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 0 * * * *" // hourly
	}

	return cfg, nil
}

func (c *Config) ensureExchange(name string) *ExchangeConfig {
	for i := range c.Exchanges {
		if c.Exchanges[i].Name == name {
			return &c.Exchanges[i]
		}
	}
	c.Exchanges = append(c.Exchanges, ExchangeConfig{Name: name})
	return &c.Exchanges[len(c.Exchanges)-1]
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.QuoteAsset == "" {
		return fmt.Errorf("quote_asset is required")
	}
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("at least one exchange must be configured")
	}
	seen := make(map[string]bool)
	for _, ex := range c.Exchanges {
		if ex.Name == "" {
			return fmt.Errorf("exchange name is required")
		}
		if seen[ex.Name] {
			return fmt.Errorf("duplicate exchange %q", ex.Name)
		}
		seen[ex.Name] = true
	}
	return nil
}
