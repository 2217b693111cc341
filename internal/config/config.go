package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

type Key string

const (
	KeyLogger      Key = "logger"
	KeyMetrics     Key = "metrics"
	KeyUserID      Key = "user_id"
	KeyWorkspaceID Key = "ws_id"
	KeyRequestID   Key = "request_id"
)

type Config struct {
	Service  Service
	Postgres Postgres
	Logger   Logger
	Metrics  Metrics
	Kafka    Kafka
	Platform Platform
	Auth     Auth
}

type Service struct {
	Name string `env:"SERVICE_NAME" env-default:"notify-service"`
	Port string `env:"SERVICE_PORT" env-default:"8080"`
}

type Postgres struct {
	User     string `env:"NOTIFY_SERVICE_POSTGRES_USER" env-required:"true"`
	Password string `env:"NOTIFY_SERVICE_POSTGRES_PASSWORD" env-required:"true"`
	Database string `env:"NOTIFY_SERVICE_POSTGRES_DB" env-required:"true"`
	Host     string `env:"NOTIFY_SERVICE_POSTGRES_HOST" env-required:"true"`
	Port     string `env:"NOTIFY_SERVICE_POSTGRES_PORT" env-default:"5432"`
}

type Logger struct {
	Host string `env:"LOGGER_HOST"`
	Port string `env:"LOGGER_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Kafka struct {
	Host      string `env:"KAFKA_HOST"`
	Port      string `env:"KAFKA_PORT"`
	UserTopic string `env:"KAFKA_USER_TOPIC" env-default:"user.profile.updated"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

type Auth struct {
	JWTSecret string `env:"NOTIFY_SERVICE_JWT_SECRET" env-required:"true"`
}

func MustLoad() *Config {
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read env config: %v", err)
	}

	return cfg
}
