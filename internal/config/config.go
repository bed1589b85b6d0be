package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBConfig struct {
		DBHost     string `env:"ORDERHUB_DB_HOST"`
		DBPort     string `env:"ORDERHUB_DB_PORT"`
		DBUser     string `env:"ORDERHUB_DB_USER"`
		DBPassword string `env:"ORDERHUB_DB_PASSWORD"`
		DBName     string `env:"ORDERHUB_DB_NAME"`
		DBSSLMode  string `env:"ORDERHUB_DB_SSLMODE"`
	}

	HTTPPort       int           `env:"ORDERHUB_HTTP_PORT"`
	MigrationsPath string        `env:"ORDERHUB_MIGRATIONS_PATH"`
	GatewayTimeout time.Duration `env:"PAYMENT_GATEWAY_TIMEOUT"`

	KafkaRelayEnabled bool   `env:"KAFKA_RELAY_ENABLED"`
	KafkaURL          string `env:"KAFKA_BROKER_URL"`
	KafkaEventsTopic  string `env:"KAFKA_EVENTS_TOPIC"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.DBHost = getEnvOrDefault("ORDERHUB_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("ORDERHUB_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("ORDERHUB_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("ORDERHUB_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("ORDERHUB_DB_NAME", "orderhub_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("ORDERHUB_DB_SSLMODE", "disable")

	portStr := getEnvOrDefault("ORDERHUB_HTTP_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERHUB_HTTP_PORT: %w", err)
	}
	cfg.HTTPPort = port

	cfg.MigrationsPath = getEnvOrDefault("ORDERHUB_MIGRATIONS_PATH", "file://migrations")

	timeoutStr := getEnvOrDefault("PAYMENT_GATEWAY_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_GATEWAY_TIMEOUT: %w", err)
	}
	cfg.GatewayTimeout = timeout

	cfg.KafkaRelayEnabled = getEnvOrDefault("KAFKA_RELAY_ENABLED", "false") == "true"
	cfg.KafkaURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaEventsTopic = getEnvOrDefault("KAFKA_EVENTS_TOPIC", "order_domain_events")

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=%s",
		c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return []string{c.KafkaURL}
}
