package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers      []string
	EventTopic   string
	PaymentTopic string
	GroupID      string
}

type Config struct {
	GRPCPort     int
	HTTPPort     int
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	DB           DatabaseConfig
	Kafka        KafkaConfig
	HolidayDir   string
	EODWorkers   int
	ServiceName  string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort:     getEnvInt("GRPC_PORT", 9095),
		HTTPPort:     getEnvInt("HTTP_PORT", 8095),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "lms"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lms_loans"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			EventTopic:   getEnv("KAFKA_EVENT_TOPIC", "lms.loan-events"),
			PaymentTopic: getEnv("KAFKA_PAYMENT_TOPIC", "lms.payment-events"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "lms-core"),
		},
		HolidayDir:  getEnv("HOLIDAY_DIR", ""),
		EODWorkers:  getEnvInt("EOD_WORKERS", 8),
		ServiceName: "lms-core",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
