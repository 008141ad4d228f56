package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// Драйверы уведомлений
const (
	NotificationDriverLog  = "log"
	NotificationDriverSMTP = "smtp"
	NotificationDriverAMQP = "amqp"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
// Секреты (пароли, ключи) переопределяются переменными окружения
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Reservation    ReservationConfig    `toml:"reservation"`
	Auth           AuthConfig           `toml:"auth"`
	VenueDirectory VenueDirectoryConfig `toml:"venue_directory"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"DB_HOST"`
	Port            int    `toml:"port" envconfig:"DB_PORT"`
	User            string `toml:"user" envconfig:"DB_USER"`
	Password        string `toml:"password" envconfig:"DB_PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"DB_NAME"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level" envconfig:"LOG_LEVEL"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ReservationConfig struct {
	SlotGranularityMinutes int `toml:"slot_granularity_minutes"`
	ClaimTTLSeconds        int `toml:"claim_ttl_seconds"`
	SweepIntervalSeconds   int `toml:"sweep_interval_seconds"`
}

// ClaimTTL время жизни непривязанного захвата
func (c ReservationConfig) ClaimTTL() time.Duration {
	return time.Duration(c.ClaimTTLSeconds) * time.Second
}

// SweepInterval период очистки просроченных захватов
func (c ReservationConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" envconfig:"JWT_SECRET"`
	Issuer    string `toml:"issuer"`
}

type VenueDirectoryConfig struct {
	URL     string `toml:"url" envconfig:"VENUE_DIRECTORY_URL"`
	Timeout int    `toml:"timeout"` // секунды
}

type NotificationsConfig struct {
	Driver      string     `toml:"driver" envconfig:"NOTIFICATIONS_DRIVER"`
	QueueSize   int        `toml:"queue_size"`
	Workers     int        `toml:"workers"`
	SendTimeout int        `toml:"send_timeout"` // секунды
	SMTP        SMTPConfig `toml:"smtp"`
	AMQP        AMQPConfig `toml:"amqp"`
}

type SMTPConfig struct {
	Host     string `toml:"host" envconfig:"SMTP_HOST"`
	Port     int    `toml:"port" envconfig:"SMTP_PORT"`
	Username string `toml:"username" envconfig:"SMTP_USERNAME"`
	Password string `toml:"password" envconfig:"SMTP_PASSWORD"`
	From     string `toml:"from"`
	TLS      bool   `toml:"tls"`
}

type AMQPConfig struct {
	URL      string `toml:"url" envconfig:"AMQP_URL"`
	Exchange string `toml:"exchange"`
}

type RateLimitConfig struct {
	Enabled       bool        `toml:"enabled"`
	Requests      int         `toml:"requests"`
	WindowSeconds int         `toml:"window_seconds"`
	Redis         RedisConfig `toml:"redis"`
}

// Window длина окна ограничения
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `toml:"addr" envconfig:"REDIS_ADDR"`
	Password string `toml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `toml:"db"`
}

// Load загружает конфигурацию из TOML файла
// Порядок: значения по умолчанию -> файл -> .env -> переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: Load - decode %s: %v", ErrInvalidConfig, path, err)
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: Load - read .env: %v", ErrInvalidConfig, err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("%w: Load - env overrides: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "hall_booking_service",
		},
		Reservation: ReservationConfig{
			SlotGranularityMinutes: domain.DefaultSlotGranularityMinutes,
			ClaimTTLSeconds:        int(domain.DefaultClaimTTL / time.Second),
			SweepIntervalSeconds:   int(domain.DefaultSweepInterval / time.Second),
		},
		Auth:           AuthConfig{Issuer: "smc-auth"},
		VenueDirectory: VenueDirectoryConfig{Timeout: 5},
		Notifications: NotificationsConfig{
			Driver:      NotificationDriverLog,
			QueueSize:   256,
			Workers:     2,
			SendTimeout: 10,
			SMTP:        SMTPConfig{Port: 587, TLS: true},
			AMQP:        AMQPConfig{Exchange: "hall_bookings"},
		},
		RateLimit: RateLimitConfig{
			Requests:      10,
			WindowSeconds: 60,
			Redis:         RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if err := domain.ValidateGranularity(c.Reservation.SlotGranularityMinutes); err != nil {
		return fmt.Errorf("%w: reservation.slot_granularity_minutes: %v", ErrInvalidConfig, err)
	}
	if c.Reservation.ClaimTTLSeconds <= 0 {
		return fmt.Errorf("%w: reservation.claim_ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.Reservation.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: reservation.sweep_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (JWT_SECRET)", ErrInvalidConfig)
	}
	if c.VenueDirectory.URL == "" {
		return fmt.Errorf("%w: venue_directory.url is required", ErrInvalidConfig)
	}

	n := c.Notifications
	if n.QueueSize <= 0 || n.Workers <= 0 || n.SendTimeout <= 0 {
		return fmt.Errorf("%w: notifications queue_size, workers and send_timeout must be positive", ErrInvalidConfig)
	}
	switch n.Driver {
	case NotificationDriverLog:
	case NotificationDriverSMTP:
		if n.SMTP.Host == "" || n.SMTP.From == "" {
			return fmt.Errorf("%w: notifications.smtp host and from are required", ErrInvalidConfig)
		}
	case NotificationDriverAMQP:
		if n.AMQP.URL == "" || n.AMQP.Exchange == "" {
			return fmt.Errorf("%w: notifications.amqp url and exchange are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifications.driver %q", ErrInvalidConfig, n.Driver)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("%w: rate_limit requests and window_seconds must be positive", ErrInvalidConfig)
		}
		if c.RateLimit.Redis.Addr == "" {
			return fmt.Errorf("%w: rate_limit.redis.addr is required", ErrInvalidConfig)
		}
	}

	return nil
}
