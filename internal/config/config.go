package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultStorageKey is the key the garage snapshot is stored under.
const DefaultStorageKey = "garagemInteligenteDadosV2"

// Config holds every runtime setting of the garage tools.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Log       LogConfig       `yaml:"log"`
	Display   DisplayConfig   `yaml:"display"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // memory | sqlite | postgres | mongo | redis
	Key      string         `yaml:"key"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// MQTTConfig enables publishing notifications to a broker. An empty Broker
// keeps notifications in the log only.
type MQTTConfig struct {
	Broker   string        `yaml:"broker"`
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"client_id"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type DisplayConfig struct {
	DateStyle string `yaml:"date_style"` // DD/MM/AAAA | ISO
}

type SimulatorConfig struct {
	Ticks    int           `yaml:"ticks"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Key:     DefaultStorageKey,
			SQLite:  SQLiteConfig{Path: "garage.db"},
			Mongo: MongoConfig{
				Database:   "garage",
				Collection: "snapshots",
			},
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "garage:",
			},
		},
		MQTT: MQTTConfig{
			Topic:    "garage/notifications",
			ClientID: "smart-garage",
			Timeout:  5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Display: DisplayConfig{DateStyle: "DD/MM/AAAA"},
		Simulator: SimulatorConfig{
			Ticks:    20,
			Interval: 500 * time.Millisecond,
		},
	}
}

// Load builds the configuration: defaults, then the optional .env file, then
// the YAML file at path (missing file is fine), then environment overrides.
// An empty path falls back to GARAGE_CONFIG.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("GARAGE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Storage.Backend = strings.ToLower(getEnv("GARAGE_STORAGE", c.Storage.Backend))
	c.Storage.Key = getEnv("GARAGE_STORAGE_KEY", c.Storage.Key)
	c.Storage.SQLite.Path = getEnv("SQLITE_PATH", c.Storage.SQLite.Path)
	c.Storage.Postgres.DSN = getEnv("POSTGRES_DSN", c.Storage.Postgres.DSN)
	c.Storage.Mongo.URI = getEnv("MONGO_URI", c.Storage.Mongo.URI)
	c.Storage.Mongo.Database = getEnv("MONGO_DB", c.Storage.Mongo.Database)
	c.Storage.Mongo.Collection = getEnv("MONGO_COLLECTION", c.Storage.Mongo.Collection)
	c.Storage.Redis.Addr = getEnv("REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnv("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getIntEnv("REDIS_DB", c.Storage.Redis.DB)
	c.Storage.Redis.Prefix = getEnv("REDIS_PREFIX", c.Storage.Redis.Prefix)

	c.MQTT.Broker = getEnv("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.Topic = getEnv("MQTT_TOPIC", c.MQTT.Topic)
	c.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.Timeout = getDurationEnv("MQTT_TIMEOUT", c.MQTT.Timeout)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Display.DateStyle = getEnv("GARAGE_DATE_STYLE", c.Display.DateStyle)

	c.Simulator.Ticks = getIntEnv("SIM_TICKS", c.Simulator.Ticks)
	c.Simulator.Interval = getDurationEnv("SIM_INTERVAL", c.Simulator.Interval)
}

// Validate rejects settings no backend can run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("sqlite backend requires a path")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("postgres backend requires POSTGRES_DSN")
		}
	case "mongo":
		if c.Storage.Mongo.Database == "" || c.Storage.Mongo.Collection == "" {
			return fmt.Errorf("mongo backend requires a database and collection")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("redis backend requires an address")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Simulator.Ticks < 0 {
		return fmt.Errorf("simulator ticks must not be negative")
	}
	if c.Simulator.Interval <= 0 {
		return fmt.Errorf("simulator interval must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
