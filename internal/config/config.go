package config

import (
	"time"

	pkgconfig "github.com/MuhammadYassa/WatchMate/pkg/config"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Events   pubsub.Config `mapstructure:"events"`
	Kafka    KafkaConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// KafkaConfig configures the user directory CDC consumer. Empty brokers disable it.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8096)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "watchmate")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/social.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("events.driver", pubsub.DriverNone)
	v.SetDefault("events.redis.address", "localhost:6379")
	v.SetDefault("events.redis.db", 0)
	v.SetDefault("events.redis.pool_size", 10)
	v.SetDefault("events.redis.read_timeout", "3s")
	v.SetDefault("events.redis.write_timeout", "3s")
	v.SetDefault("events.kafka.brokers", "localhost:9092")
	v.SetDefault("events.kafka.partitions", 3)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "dbserver1.public.users")
	v.SetDefault("kafka.group_id", "social-service")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Bind environment variables
	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                "PORT",
		"server.shutdown_timeout":    "SHUTDOWN_TIMEOUT",
		"database.driver":            "DB_DRIVER",
		"database.host":              "DB_HOST",
		"database.port":              "DB_PORT",
		"database.user":              "DB_USER",
		"database.password":          "DB_PASSWORD",
		"database.dbname":            "DB_NAME",
		"database.sslmode":           "DB_SSLMODE",
		"database.file_path":         "DB_FILE_PATH",
		"database.max_idle_conns":    "DB_MAX_IDLE_CONNS",
		"database.max_open_conns":    "DB_MAX_OPEN_CONNS",
		"database.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",
		"database.log_level":         "DB_LOG_LEVEL",
		"events.driver":              "EVENTS_DRIVER",
		"events.redis.address":       "REDIS_ADDRESS",
		"events.redis.password":      "REDIS_PASSWORD",
		"events.redis.db":            "REDIS_DB",
		"events.kafka.brokers":       "EVENTS_KAFKA_BROKERS",
		"kafka.brokers":              "KAFKA_BROKERS",
		"kafka.topic":                "KAFKA_TOPIC",
		"kafka.group_id":             "KAFKA_GROUP_ID",
		"auth.jwt_secret":            "JWT_SECRET",
		"auth.issuer":                "JWT_ISSUER",
		"log.level":                  "LOG_LEVEL",
		"log.pretty":                 "LOG_PRETTY",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
