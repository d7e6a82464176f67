package config

import (
	"time"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/cache"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/consumer"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/provider"
	pkgconfig "github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/config"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/database"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

type Config struct {
	Server        ServerConfig      `mapstructure:"server"`
	Scout         ScoutConfig       `mapstructure:"scout"`
	Elasticsearch provider.Config   `mapstructure:"elasticsearch"`
	Database      database.Config   `mapstructure:"database"`
	Redis         cache.RedisConfig `mapstructure:"redis"`
	Cache         CacheConfig       `mapstructure:"cache"`
	Kafka         KafkaConfig       `mapstructure:"kafka"`
	Auth          AuthConfig        `mapstructure:"auth"`
	Log           log.Config        `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ScoutConfig struct {
	Driver    string `mapstructure:"driver"`
	ChunkSize int    `mapstructure:"chunk_size"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	consumer.Config `mapstructure:",squash"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	AdminRole string `mapstructure:"admin_role"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("scout.driver", "elasticsearch")
	v.SetDefault("scout.chunk_size", 500)
	v.SetDefault("elasticsearch.hosts", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index", "articles")
	v.SetDefault("elasticsearch.ssl.enabled", false)
	v.SetDefault("elasticsearch.mapping_types", false)
	v.SetDefault("elasticsearch.create_index", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "scout.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.prefix", "scout")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "articles.changes")
	v.SetDefault("kafka.group_id", "scout-elasticsearch")
	v.SetDefault("auth.admin_role", "admin")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "scout-elasticsearch")

	// Bind environment variables
	err = pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                   "PORT",
		"elasticsearch.hosts":           "ES_HOSTS",
		"elasticsearch.index":           "ES_INDEX",
		"elasticsearch.username":        "ES_USERNAME",
		"elasticsearch.password":        "ES_PASSWORD",
		"elasticsearch.ssl.enabled":     "ES_SSL_ENABLED",
		"elasticsearch.ssl.certificate": "ES_SSL_CERTIFICATE",
		"database.driver":               "DB_DRIVER",
		"database.host":                 "DB_HOST",
		"database.password":             "DB_PASSWORD",
		"redis.address":                 "REDIS_ADDRESS",
		"redis.password":                "REDIS_PASSWORD",
		"kafka.brokers":                 "KAFKA_BROKERS",
		"auth.jwt_secret":               "JWT_SECRET",
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
