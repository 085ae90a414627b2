// Package config loads MyHome configuration from defaults, an optional YAML
// file, a .env file and MYHOME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Mail      MailConfig      `mapstructure:"mail"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Files     FilesConfig     `mapstructure:"files"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honored.
	// Empty means the client IP is always the connection address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig selects the storage backend. Driver "memory" keeps
// everything in process and is meant for local runs.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type MailConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	ConfirmURL string `mapstructure:"confirm_url"`
}

type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	RelayInterval time.Duration `mapstructure:"relay_interval"`
	BatchSize     int           `mapstructure:"batch_size"`
	MaxRetry      int           `mapstructure:"max_retry"`
}

type FilesConfig struct {
	MaxSizeKBytes           int64 `mapstructure:"max_size_kbytes"`
	CompressionBorderKBytes int64 `mapstructure:"compression_border_kbytes"`
	CompressedImageQuality  int   `mapstructure:"compressed_image_quality"`
	MaxImageDimension       int   `mapstructure:"max_image_dimension"`
	MaxImagePixels          int64 `mapstructure:"max_image_pixels"`
}

type TokensConfig struct {
	EmailConfirmTTL time.Duration `mapstructure:"email_confirm_ttl"`
	ResetTTL        time.Duration `mapstructure:"reset_ttl"`
	PurgeCron       string        `mapstructure:"purge_cron"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. An empty configPath looks for config.yaml in the
// working directory and ./config; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("MYHOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:4200"})
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "myhome:myhome@tcp(127.0.0.1:3306)/myhome?charset=utf8mb4&parseTime=True")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "MyHome <no-reply@myhome.local>")
	v.SetDefault("mail.confirm_url", "http://localhost:8080")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "myhome.events")
	v.SetDefault("kafka.relay_interval", "1s")
	v.SetDefault("kafka.batch_size", 200)
	v.SetDefault("kafka.max_retry", 5)

	v.SetDefault("files.max_size_kbytes", 10240)
	v.SetDefault("files.compression_border_kbytes", 1024)
	v.SetDefault("files.compressed_image_quality", 75)
	v.SetDefault("files.max_image_dimension", 1920)
	v.SetDefault("files.max_image_pixels", 40_000_000)

	v.SetDefault("tokens.email_confirm_ttl", "72h")
	v.SetDefault("tokens.reset_ttl", "1h")
	v.SetDefault("tokens.purge_cron", "@hourly")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for the mysql driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("jwt expiration must be positive")
	}

	if c.Files.MaxSizeKBytes <= 0 {
		return fmt.Errorf("files max size must be positive")
	}
	if c.Files.CompressionBorderKBytes < 0 || c.Files.CompressionBorderKBytes > c.Files.MaxSizeKBytes {
		return fmt.Errorf("files compression border must be between 0 and max size")
	}
	if c.Files.CompressedImageQuality < 1 || c.Files.CompressedImageQuality > 100 {
		return fmt.Errorf("compressed image quality must be between 1 and 100: %d", c.Files.CompressedImageQuality)
	}
	if c.Files.MaxImageDimension <= 0 {
		return fmt.Errorf("max image dimension must be positive")
	}
	if c.Files.MaxImagePixels <= 0 {
		return fmt.Errorf("max image pixels must be positive")
	}

	if c.Tokens.EmailConfirmTTL <= 0 || c.Tokens.ResetTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests per second must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are set")
	}
	if c.Kafka.RelayInterval <= 0 || c.Kafka.BatchSize <= 0 || c.Kafka.MaxRetry <= 0 {
		return fmt.Errorf("kafka relay interval, batch size and max retry must be positive")
	}
	return nil
}

// MaxFileBytes is the upload ceiling in bytes.
func (f FilesConfig) MaxFileBytes() int64 { return f.MaxSizeKBytes * 1024 }

// CompressionBorderBytes is the size above which images get recompressed.
func (f FilesConfig) CompressionBorderBytes() int64 { return f.CompressionBorderKBytes * 1024 }
