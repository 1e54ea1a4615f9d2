package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"apt-sync-service/internal/constants"

	"github.com/joho/godotenv"
)

// DatabaseConfig хранит конфигурацию подключения к PostgreSQL
type DatabaseConfig struct {
	URL      string
	MaxConns int
}

// SourceConfig — конфигурация государственного API сделок
type SourceConfig struct {
	BaseURL string
	APIKey  string
}

// SyncConfig — параметры движка сверки снимков
type SyncConfig struct {
	RegionCodes        []string
	MonthCount         int
	LookbackMonths     int
	BatchSize          int
	BatchDelay         time.Duration
	PersistMaxAttempts int
	PersistBaseDelay   time.Duration
}

type RESTConfig struct {
	Port string
}

// EventsConfig — публикация событий синхронизации в RabbitMQ (опционально)
type EventsConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	RunMode      string // "once" или "serve"
	Database     DatabaseConfig
	Source       SourceConfig
	Sync         SyncConfig
	Rest         RESTConfig
	Events       EventsConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Отсутствие обязательных значений — фатальная ошибка до старта обработки.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// .env опционален: в контейнере всё приходит из окружения
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "apt-sync-service")

	cfg.RunMode = getEnvAsString("RUN_MODE", "once")
	if cfg.RunMode != "once" && cfg.RunMode != "serve" {
		return nil, fmt.Errorf("RUN_MODE must be 'once' or 'serve', got %q", cfg.RunMode)
	}

	// Обязательные значения
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Source.APIKey = os.Getenv("MOLIT_API_KEY")
	if cfg.Source.APIKey == "" {
		return nil, fmt.Errorf("MOLIT_API_KEY environment variable is required")
	}

	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 0)
	cfg.Source.BaseURL = getEnvAsString("MOLIT_BASE_URL", constants.DefaultMolitBaseURL)

	// Параметры движка
	cfg.Sync.RegionCodes = parseRegionCodes(os.Getenv("REGION_CODES"))
	cfg.Sync.MonthCount = getEnvAsInt("SYNC_MONTH_COUNT", 3)
	cfg.Sync.LookbackMonths = getEnvAsInt("LOOKBACK_MONTHS", 2)
	cfg.Sync.BatchSize = getEnvAsInt("BATCH_SIZE", 10)
	cfg.Sync.BatchDelay = time.Duration(getEnvAsInt("BATCH_DELAY_SECONDS", 5)) * time.Second
	cfg.Sync.PersistMaxAttempts = getEnvAsInt("PERSIST_MAX_ATTEMPTS", 3)
	cfg.Sync.PersistBaseDelay = time.Duration(getEnvAsInt("PERSIST_BASE_DELAY_MS", 500)) * time.Millisecond

	if cfg.Sync.MonthCount < 1 {
		return nil, fmt.Errorf("SYNC_MONTH_COUNT must be at least 1")
	}
	if cfg.Sync.BatchSize < 1 {
		return nil, fmt.Errorf("BATCH_SIZE must be at least 1")
	}

	cfg.Rest.Port = getEnvAsString("PORT", "8080")

	cfg.Events.Enabled = getEnvAsBool("EVENTS_ENABLED", false)
	if cfg.Events.Enabled {
		cfg.Events.URL = os.Getenv("RABBITMQ_URL")
		if cfg.Events.URL == "" {
			log.Println("WARNING: EVENTS_ENABLED is true, but RABBITMQ_URL is not set. Disabling events.")
			cfg.Events.Enabled = false
		}
	}

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

// parseRegionCodes разбирает список регионов из окружения,
// пустое значение — список по умолчанию из constants.
func parseRegionCodes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return constants.DefaultRegionCodes
	}

	var codes []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return constants.DefaultRegionCodes
	}
	return codes
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию.
// Логирует ошибку, если переменная есть, но не может быть преобразована в int.
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
