package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnv(t *testing.T) {
	t.Setenv("MYHOME_JWT_SECRET", "test-secret")
	t.Setenv("MYHOME_DATABASE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, int64(10240*1024), cfg.Files.MaxFileBytes())
	assert.Equal(t, int64(1024*1024), cfg.Files.CompressionBorderBytes())
	assert.Equal(t, "@hourly", cfg.Tokens.PurgeCron)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, int64(40_000_000), cfg.Files.MaxImagePixels)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myhome.yaml")
	content := `
server:
  addr: ":9000"
database:
  driver: memory
jwt:
  secret: from-file
  expiration: 2h
files:
  max_size_kbytes: 2048
  compression_border_kbytes: 512
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, int64(2048), cfg.Files.MaxSizeKBytes)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "myhome.events", cfg.Kafka.Topic)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "mysql", DSN: "dsn"},
			JWT:      JWTConfig{Secret: "s", Expiration: time.Hour},
			Files: FilesConfig{
				MaxSizeKBytes:           100,
				CompressionBorderKBytes: 10,
				CompressedImageQuality:  80,
				MaxImageDimension:       100,
				MaxImagePixels:          1_000_000,
			},
			Tokens:    TokensConfig{EmailConfirmTTL: time.Hour, ResetTTL: time.Hour},
			RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1},
			Kafka:     KafkaConfig{Topic: "t", RelayInterval: time.Second, BatchSize: 10, MaxRetry: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "memory driver needs no dsn", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: "memory"} }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: true},
		{name: "border above max", mutate: func(c *Config) { c.Files.CompressionBorderKBytes = 200 }, wantErr: true},
		{name: "quality out of range", mutate: func(c *Config) { c.Files.CompressedImageQuality = 0 }, wantErr: true},
		{name: "zero image pixels", mutate: func(c *Config) { c.Files.MaxImagePixels = 0 }, wantErr: true},
		{name: "zero reset ttl", mutate: func(c *Config) { c.Tokens.ResetTTL = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: true},
		{name: "rate limit disabled ignores burst", mutate: func(c *Config) { c.RateLimit = RateLimitConfig{} }},
		{name: "brokers without topic", mutate: func(c *Config) { c.Kafka = KafkaConfig{Brokers: []string{"k:9092"}, RelayInterval: time.Second, BatchSize: 1, MaxRetry: 1} }, wantErr: true},
		{name: "zero batch size", mutate: func(c *Config) { c.Kafka.BatchSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
