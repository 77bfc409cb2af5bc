// Package config loads storefront settings from defaults, an optional YAML file named
// by STOREFRONT_CONFIG, and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFileEnv = "STOREFRONT_CONFIG"

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPPort           string        `yaml:"http_port"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`

	Gateway  GatewayConfig  `yaml:"gateway"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Storage  StorageConfig  `yaml:"storage"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Log      LogConfig      `yaml:"log"`
}

type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout of zero leaves gateway calls bounded only by the caller.
	Timeout            time.Duration `yaml:"timeout"`
	BreakerMaxFailures uint32        `yaml:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout"`
}

type CheckoutConfig struct {
	MerchantKey string `yaml:"merchant_key"`
	Currency    string `yaml:"currency"`
	MinorUnits  int32  `yaml:"minor_units"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	SQLitePath    string `yaml:"sqlite_path"`
}

// KafkaConfig is optional; with no brokers settlement events are not published.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Mode  string `yaml:"mode"`
}

func Default() *Config {
	return &Config{
		HTTPPort:           "8080",
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		Gateway: GatewayConfig{
			BaseURL:            "http://localhost:5000/api",
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Checkout: CheckoutConfig{
			Currency:   "INR",
			MinorUnits: 2,
		},
		Storage: StorageConfig{
			Backend:       BackendMemory,
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "storefront",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "storefront",
			SQLitePath:    "storefront.db",
		},
		Kafka: KafkaConfig{
			Topic: "checkout.settled",
		},
		Log: LogConfig{
			Level: "info",
			Mode:  "production",
		},
	}
}

// Load builds the config from defaults, then the YAML file, then the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.Gateway.BaseURL = getEnv("GATEWAY_URL", c.Gateway.BaseURL)
	c.Checkout.MerchantKey = getEnv("MERCHANT_KEY", c.Checkout.MerchantKey)
	c.Checkout.Currency = getEnv("CHECKOUT_CURRENCY", c.Checkout.Currency)
	c.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", c.Storage.Backend))
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = getEnv("REDIS_PASSWORD", c.Storage.RedisPassword)
	c.Storage.RedisPrefix = getEnv("REDIS_PREFIX", c.Storage.RedisPrefix)
	c.Storage.MongoURI = getEnv("MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getEnv("MONGO_DATABASE", c.Storage.MongoDatabase)
	c.Storage.SQLitePath = getEnv("SQLITE_PATH", c.Storage.SQLitePath)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Mode = getEnv("LOG_MODE", c.Log.Mode)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}

	var err error
	if c.Gateway.Timeout, err = getEnvDuration("GATEWAY_TIMEOUT", c.Gateway.Timeout); err != nil {
		return err
	}
	if c.Gateway.BreakerOpenTimeout, err = getEnvDuration("BREAKER_OPEN_TIMEOUT", c.Gateway.BreakerOpenTimeout); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	maxFailures, err := getEnvInt("BREAKER_MAX_FAILURES", int(c.Gateway.BreakerMaxFailures))
	if err != nil {
		return err
	}
	if maxFailures < 0 {
		return fmt.Errorf("%w: BREAKER_MAX_FAILURES must not be negative", ErrInvalidConfig)
	}
	c.Gateway.BreakerMaxFailures = uint32(maxFailures)
	minorUnits, err := getEnvInt("CHECKOUT_MINOR_UNITS", int(c.Checkout.MinorUnits))
	if err != nil {
		return err
	}
	c.Checkout.MinorUnits = int32(minorUnits)
	if c.Storage.RedisDB, err = getEnvInt("REDIS_DB", c.Storage.RedisDB); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("%w: gateway base url is required", ErrInvalidConfig)
	}
	if c.Checkout.Currency == "" {
		return fmt.Errorf("%w: checkout currency is required", ErrInvalidConfig)
	}
	if c.Checkout.MinorUnits < 0 || c.Checkout.MinorUnits > 4 {
		return fmt.Errorf("%w: minor units must be between 0 and 4, got %d", ErrInvalidConfig, c.Checkout.MinorUnits)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, key, value)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
