package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DBConfig 数据库配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// MQConfig 消息队列配置
type MQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `yaml:"port"`
}

// AIConfig Gemini 规划服务配置
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// ScraperConfig Brightspace 抓取配置
type ScraperConfig struct {
	CalendarURL           string `yaml:"calendar_url"`
	LoginTimeoutSeconds   int    `yaml:"login_timeout_seconds"`
	SettleDelaySeconds    int    `yaml:"settle_delay_seconds"`
	RowsTimeoutSeconds    int    `yaml:"rows_timeout_seconds"`
	OverallTimeoutSeconds int    `yaml:"overall_timeout_seconds"`
	// Headless must stay false for Brightspace: the operator completes
	// the DUO login in the visible window.
	Headless bool `yaml:"headless"`
	// PublishEvents controls whether scraped tasks are announced on MQ
	// for background import.
	PublishEvents bool `yaml:"publish_events"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
	MQ      MQConfig      `yaml:"mq"`
	JWT     JWTConfig     `yaml:"jwt"`
	AI      AIConfig      `yaml:"ai"`
	Scraper ScraperConfig `yaml:"scraper"`
}

// Load 加载配置：base.yaml + 环境覆盖文件 + 环境变量
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	cfg := &Config{}
	if err := loadYAMLInto(filepath.Join(configDir, "base.yaml"), cfg); err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	env := GetEnv("CONFIG_ENV", "local")
	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
		if _, err := os.Stat(envFile); err == nil {
			if err := loadYAMLInto(envFile, cfg); err != nil {
				return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
		}
	}

	OverrideDBFromEnv(&cfg.DB)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideRedisFromEnv(&cfg.Redis)
	OverrideJWTFromEnv(&cfg.JWT)
	OverrideServerFromEnv(&cfg.Server)
	OverrideAIFromEnv(&cfg.AI)
	OverrideScraperFromEnv(&cfg.Scraper)

	return cfg, nil
}

func loadYAMLInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c ScraperConfig) LoginTimeout() time.Duration {
	return secondsOrDefault(c.LoginTimeoutSeconds, 120)
}

func (c ScraperConfig) SettleDelay() time.Duration {
	return secondsOrDefault(c.SettleDelaySeconds, 5)
}

func (c ScraperConfig) RowsTimeout() time.Duration {
	return secondsOrDefault(c.RowsTimeoutSeconds, 15)
}

func (c ScraperConfig) OverallTimeout() time.Duration {
	return secondsOrDefault(c.OverallTimeoutSeconds, 300)
}

func secondsOrDefault(s int, def int) time.Duration {
	if s <= 0 {
		s = def
	}
	return time.Duration(s) * time.Second
}

// OverrideDBFromEnv 从环境变量覆盖数据库配置
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideMQFromEnv 从环境变量覆盖MQ配置
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideRedisFromEnv 从环境变量覆盖Redis配置
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideJWTFromEnv 从环境变量覆盖JWT配置
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv 从环境变量覆盖服务器配置
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideAIFromEnv 从环境变量覆盖 AI 配置
func OverrideAIFromEnv(cfg *AIConfig) {
	if key := os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		cfg.Model = model
	}
	if base := os.Getenv("AI_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
}

// OverrideScraperFromEnv 从环境变量覆盖抓取配置
func OverrideScraperFromEnv(cfg *ScraperConfig) {
	if url := os.Getenv("BRIGHTSPACE_CALENDAR_URL"); url != "" {
		cfg.CalendarURL = url
	}
}

// GetEnv 获取环境变量，如果未设置则返回默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
