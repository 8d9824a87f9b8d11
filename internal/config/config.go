package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается при ошибке чтения или разбора файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация приложения
type Config struct {
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Database      DatabaseConfig      `toml:"database"`
	Server        ServerConfig        `toml:"server"`
	Auth          AuthConfig          `toml:"auth"`
	Business      BusinessConfig      `toml:"business"`
	Redis         RedisConfig         `toml:"redis"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq (используется и для sql.Open, и для pq.Listener)
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// BusinessConfig параметры барбершопа, не хранящиеся в БД
type BusinessConfig struct {
	Name               string `toml:"name"`
	Timezone           string `toml:"timezone"`
	Location           string `toml:"location"`
	OwnerEmail         string `toml:"owner_email"`
	ReservationTimeout int    `toml:"reservation_timeout"` // секунды
}

// Loc возвращает часовой пояс барбершопа
func (b BusinessConfig) Loc() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig параметры token bucket для ограничения частоты запросов
type RateLimitConfig struct {
	Enabled        bool   `toml:"enabled"`
	Capacity       int    `toml:"capacity"`
	RefillTokens   int    `toml:"refill_tokens"`
	RefillInterval int    `toml:"refill_interval_ms"`
	TTL            int    `toml:"ttl"` // секунды
	Prefix         string `toml:"prefix"`
}

// NotificationsConfig настройки доставки уведомлений
type NotificationsConfig struct {
	Enabled        bool    `toml:"enabled"`
	AMQPURL        string  `toml:"amqp_url"`
	Queue          string  `toml:"queue"`
	RelayInterval  int     `toml:"relay_interval_ms"`
	BatchSize      int     `toml:"batch_size"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	MaxAttempts    int     `toml:"max_attempts"`
	RetryBackoffMs int     `toml:"retry_backoff_ms"`
}

// Load читает конфигурацию из TOML файла, затем подгружает .env (если есть)
// и переопределяет секреты из переменных окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrReadConfig, path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: load .env: %v", ErrReadConfig, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logs: LogsConfig{Level: "info", File: "logs/app.log"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "barbershop",
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    0,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Business: BusinessConfig{
			Timezone:           "UTC",
			ReservationTimeout: 5,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		RateLimit: RateLimitConfig{
			Capacity:       10,
			RefillTokens:   1,
			RefillInterval: 1000,
			TTL:            600,
			Prefix:         "rl",
		},
		Notifications: NotificationsConfig{
			Queue:          "barbershop.notifications",
			RelayInterval:  2000,
			BatchSize:      50,
			RatePerSecond:  5,
			MaxAttempts:    5,
			RetryBackoffMs: 30000,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		c.Notifications.AMQPURL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret (or JWT_SECRET) is required")
	}
	if _, err := c.Business.Loc(); err != nil {
		problems = append(problems, fmt.Sprintf("business.timezone: %v", err))
	}
	if c.Business.ReservationTimeout <= 0 {
		problems = append(problems, "business.reservation_timeout must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Capacity < 1 || c.RateLimit.RefillTokens < 1 || c.RateLimit.RefillInterval <= 0) {
		problems = append(problems, "rate_limit: capacity, refill_tokens and refill_interval_ms must be positive")
	}
	if c.Notifications.Enabled && c.Notifications.AMQPURL == "" {
		problems = append(problems, "notifications.amqp_url (or AMQP_URL) is required when notifications are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
