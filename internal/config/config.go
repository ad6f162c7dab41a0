package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	MinIO    MinIOConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type JWTConfig struct {
	Secret string
}

var (
	instance *Config
	once     sync.Once
)

// LoadConfig reads configuration from the environment with sane defaults.
// Kafka and MinIO are optional: empty broker list / endpoint disables them.
func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("LINKUP_HOST", "")
		viper.SetDefault("LINKUP_PORT", "8080")
		viper.SetDefault("LINKUP_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("LINKUP_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("LINKUP_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("LINKUP_JWT_SECRET", "secret")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_DB", "linkup")
		viper.SetDefault("POSTGRES_SSLMODE", "disable")
		viper.SetDefault("REDIS_ADDR", "localhost:6379")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_TOPIC", "linkup.events")
		viper.SetDefault("MINIO_ENDPOINT", "")
		viper.SetDefault("MINIO_BUCKET", "linkup-avatars")
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("LINKUP_HOST"),
				Port:         viper.GetString("LINKUP_PORT"),
				ReadTimeout:  viper.GetDuration("LINKUP_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("LINKUP_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("LINKUP_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("POSTGRES_HOST"),
				Port:     viper.GetString("POSTGRES_PORT"),
				User:     viper.GetString("POSTGRES_USER"),
				Password: viper.GetString("POSTGRES_PASSWORD"),
				DBName:   viper.GetString("POSTGRES_DB"),
				SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			},
			Redis: RedisConfig{
				Addr:     viper.GetString("REDIS_ADDR"),
				Password: viper.GetString("REDIS_PASSWORD"),
				DB:       viper.GetInt("REDIS_DB"),
				PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
			},
			Kafka: KafkaConfig{
				Brokers: splitNonEmpty(viper.GetString("KAFKA_BROKERS")),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			MinIO: MinIOConfig{
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
			},
			JWT: JWTConfig{
				Secret: viper.GetString("LINKUP_JWT_SECRET"),
			},
		}
	})

	return instance, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
