package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// PostgresConfig хранит конфигурацию для PostgreSQL
type PostgresConfig struct {
	URL string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL string
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

// ConfirmationConfig - политики жизненного цикла подтверждений
type ConfirmationConfig struct {
	PublicBaseURL          string
	TokenTTLDays           int
	StalenessThresholdDays int
	PendingGraceDays       int
}

// CronConfig - расписания фоновых прогонов
type CronConfig struct {
	Enabled     bool
	MonthlySpec string
	DailySpec   string
}

type StdoutLogConfig struct {
	Level string `mapstructure:"STDOUT_LOG_LEVEL" default:"debug"` // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string `mapstructure:"FLUENTBIT_LOG_LEVEL" default:"info"` // По умолчанию INFO
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	Confirmation ConfirmationConfig
	Cron         CronConfig
	FluentBit    FluentBitConfig
	AppName      string
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
		return nil, fmt.Errorf("сould not load .env file (path: %v): %v", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = os.Getenv("APP_NAME")
	if cfg.AppName == "" {
		cfg.AppName = "confirmation-service" // Устанавливаем default
	}

	// Читаем конфигурацию для PostgreSQL
	cfg.Postgres.URL = os.Getenv("DATABASE_URL")
	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Читаем конфигурацию для RabbitMQ
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	// Читаем конфигурацию для REST
	cfg.Rest.PORT = os.Getenv("PORT")
	if cfg.Rest.PORT == "" {
		cfg.Rest.PORT = "5000"
	}

	origins := getEnvAsString("CORS_ALLOWED_ORIGINS", "*")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.Rest.AllowedOrigins = append(cfg.Rest.AllowedOrigins, trimmed)
		}
	}

	// Политики подтверждений
	cfg.Confirmation.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	if cfg.Confirmation.PublicBaseURL == "" {
		return nil, fmt.Errorf("PUBLIC_BASE_URL environment variable is required")
	}
	cfg.Confirmation.PublicBaseURL = strings.TrimRight(cfg.Confirmation.PublicBaseURL, "/")

	cfg.Confirmation.TokenTTLDays = getEnvAsInt("TOKEN_TTL_DAYS", 30)
	cfg.Confirmation.StalenessThresholdDays = getEnvAsInt("STALENESS_THRESHOLD_DAYS", 15)
	cfg.Confirmation.PendingGraceDays = getEnvAsInt("PENDING_GRACE_DAYS", 7)

	// Cron-расписания
	cfg.Cron.Enabled = getEnvAsBool("CRON_ENABLED", true)
	cfg.Cron.MonthlySpec = getEnvAsString("CRON_MONTHLY_SPEC", "0 6 1 * *")
	cfg.Cron.DailySpec = getEnvAsString("CRON_DAILY_SPEC", "0 7 * * *")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
