package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 主配置结构
type Config struct {
	App       App       `yaml:"app"`
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Database  DB        `yaml:"database"`
	Cache     Cache     `yaml:"cache"`
	Auth      Auth      `yaml:"auth"`
	RateLimit Limit     `yaml:"rate_limit"`
	Links     Links     `yaml:"links"`
	Slug      Slug      `yaml:"slug"`
	Quota     Quota     `yaml:"quota"`
	Retention Retention `yaml:"retention"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// 数据库配置, driver 取值 mysql / postgres / sqlite
type DB struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	SSLMode  string `yaml:"ssl_mode"`
	// sqlite 文件路径
	Path string `yaml:"path"`
}

// 缓存配置（Redis）, host 为空时不启用
type Cache struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// 限流配置
type Limit struct {
	Enabled   bool          `yaml:"enabled"`
	Requests  int64         `yaml:"requests_per_minute"`
	Burst     int64         `yaml:"burst"`
	IdleTTL   time.Duration `yaml:"idle_ttl"`
	SkipPaths []string      `yaml:"skip_paths"`
}

// 地理链接配置
type Links struct {
	PublicBaseURL string        `yaml:"public_base_url"`
	QRBaseURL     string        `yaml:"qr_base_url"`
	MinRadius     float64       `yaml:"min_radius"`
	TTL           time.Duration `yaml:"ttl"`
}

// 短码配置
type Slug struct {
	Length      int `yaml:"length"`
	MaxAttempts int `yaml:"max_attempts"`
}

// DefaultQuota 未配置 quota.default 时每个用户可创建的链接数量
const DefaultQuota = 3

// 每个用户可创建的链接数量, plans 按套餐覆盖默认值, <= 0 表示不限
type Quota struct {
	Default int            `yaml:"default"`
	Plans   map[string]int `yaml:"plans"`
}

// 过期数据清理
type Retention struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// 加载配置: yaml 文件 -> .env -> GEOQR_* 环境变量
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// quota.default 写 0 表示不限, 只有未配置时才使用默认值
	cfg := Config{Quota: Quota{Default: DefaultQuota}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.App.Mode = getEnv("GEOQR_MODE", c.App.Mode)
	c.Server.Port = getEnvInt("GEOQR_PORT", c.Server.Port)

	c.Database.Driver = getEnv("GEOQR_DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("GEOQR_DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("GEOQR_DB_PORT", c.Database.Port)
	c.Database.User = getEnv("GEOQR_DB_USER", c.Database.User)
	c.Database.Password = getEnv("GEOQR_DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("GEOQR_DB_NAME", c.Database.Name)
	c.Database.Path = getEnv("GEOQR_DB_PATH", c.Database.Path)

	c.Cache.Host = getEnv("GEOQR_REDIS_HOST", c.Cache.Host)
	c.Cache.Port = getEnvInt("GEOQR_REDIS_PORT", c.Cache.Port)
	c.Cache.Password = getEnv("GEOQR_REDIS_PASSWORD", c.Cache.Password)

	c.Auth.Secret = getEnv("GEOQR_JWT_SECRET", c.Auth.Secret)
	c.Links.PublicBaseURL = getEnv("GEOQR_PUBLIC_BASE_URL", c.Links.PublicBaseURL)
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "geoqr"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "geoqr"
	}
	if c.Auth.ExpirationHours == 0 {
		c.Auth.ExpirationHours = 72
	}
	if c.RateLimit.IdleTTL == 0 {
		c.RateLimit.IdleTTL = 10 * time.Minute
	}
	if c.Links.QRBaseURL == "" {
		c.Links.QRBaseURL = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="
	}
	if c.Links.MinRadius == 0 {
		c.Links.MinRadius = 50
	}
	if c.Slug.Length == 0 {
		c.Slug.Length = 6
	}
	if c.Slug.MaxAttempts == 0 {
		c.Slug.MaxAttempts = 10
	}
	if c.Retention.Interval == 0 {
		c.Retention.Interval = time.Hour
	}
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port 非法: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.Host == "" {
			return errors.New("database.host 不能为空")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path 不能为空")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret 不能为空")
	}
	if c.Links.MinRadius < 0 {
		return errors.New("links.min_radius 不能为负数")
	}
	if c.Links.TTL < 0 {
		return errors.New("links.ttl 不能为负数")
	}
	if c.Slug.Length < 4 || c.Slug.Length > 16 {
		return fmt.Errorf("slug.length 必须在 4-16 之间: %d", c.Slug.Length)
	}
	if c.Slug.MaxAttempts < 1 {
		return errors.New("slug.max_attempts 至少为 1")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate_limit 开启时 requests_per_minute 和 burst 必须大于 0")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
