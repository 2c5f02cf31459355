// Package config 讀取出餐畫面與訂單表伺服器的設定
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Sync     SyncConfig     `yaml:"sync"`
	Terminal TerminalConfig `yaml:"terminal"`
	NATS     NATSConfig     `yaml:"nats"`
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StoreConfig 是遠端訂單表（Apps Script Web App 或 kitchen serve）的位址
type StoreConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"` // 單次 HTTP 請求
}

type SyncConfig struct {
	Interval string `yaml:"interval"`
	Workers  int    `yaml:"workers"`
}

type TerminalConfig struct {
	Name string `yaml:"name"` // 變更通知的來源名稱，每台畫面應不同
}

// NATSConfig 留空代表不啟用跨畫面通知
type NATSConfig struct {
	URL string `yaml:"url"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Backend string `yaml:"backend"` // memory, postgres, sqlite
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig 留空代表不使用快取
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // 空白代表 stderr
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Endpoint: "http://localhost:8080/exec",
			Timeout:  "15s",
		},
		Sync: SyncConfig{
			Interval: "30s",
			Workers:  2,
		},
		Terminal: TerminalConfig{
			Name: defaultTerminalName(),
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Backend: BackendMemory,
		},
		Redis: RedisConfig{
			TTL: "10s",
		},
		SQLite: SQLiteConfig{
			Path: "kitchen.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(os.TempDir(), "kitchen.log"),
		},
	}
}

// Load 讀取 YAML 設定，檔案不存在時使用預設值；環境變數優先於檔案
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KITCHEN_ENDPOINT"); v != "" {
		c.Store.Endpoint = v
	}
	if v := os.Getenv("KITCHEN_POLL_INTERVAL"); v != "" {
		c.Sync.Interval = v
	}
	if v := os.Getenv("KITCHEN_TERMINAL"); v != "" {
		c.Terminal.Name = v
	}
	if v := os.Getenv("KITCHEN_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("KITCHEN_BACKEND"); v != "" {
		c.Server.Backend = v
	}
	if v := os.Getenv("KITCHEN_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("KITCHEN_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KITCHEN_SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}
	if v := os.Getenv("KITCHEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Save 寫出 YAML 設定檔
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetPollInterval 解析失敗時回傳 0，由 Validate 擋下
func (c *Config) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) GetStoreTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Store.Timeout); err == nil && d > 0 {
		return d
	}
	return 15 * time.Second
}

func (c *Config) GetRedisTTL() time.Duration {
	if d, err := time.ParseDuration(c.Redis.TTL); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

func (c *Config) Validate() error {
	var errs []error

	if c.Store.Endpoint == "" {
		errs = append(errs, errors.New("store.endpoint is required"))
	}
	if c.GetPollInterval() <= 0 {
		errs = append(errs, fmt.Errorf("sync.interval must be a positive duration, got %q", c.Sync.Interval))
	}
	if c.Sync.Workers < 1 {
		errs = append(errs, fmt.Errorf("sync.workers must be at least 1, got %d", c.Sync.Workers))
	}

	switch c.Server.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("server.backend must be memory, postgres or sqlite, got %q", c.Server.Backend))
	}

	return errors.Join(errs...)
}

func defaultTerminalName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "kitchen-" + strconv.Itoa(os.Getpid())
	}
	return host
}
