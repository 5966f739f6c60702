// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Search criteria
	Keywords         []string `yaml:"keywords"`
	RelevantKeywords []string `yaml:"relevant_keywords"`
	RecencyDays      int      `yaml:"recency_days"`
	MaxPages         int      `yaml:"max_pages"`

	// Paths
	DataDir  string `yaml:"data_dir"`
	CacheDir string `yaml:"cache_dir"`

	// Optional backends
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	// Notifications
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	// Cron spec for periodic runs; empty means run once and exit
	RunEvery string `yaml:"run_every"`
}

func Load() *Config {
	_ = godotenv.Load()

	// Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	// Override with env vars
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	// Set default values if not set
	if cfg.RecencyDays == 0 {
		cfg.RecencyDays = 7
	}

	if cfg.MaxPages == 0 {
		cfg.MaxPages = 5
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = cfg.DataDir
	}

	// Validate required fields
	if len(cfg.Keywords) == 0 {
		log.Fatal("At least one search keyword is required")
	}

	return cfg
}
