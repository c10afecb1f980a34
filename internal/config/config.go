package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis RedisConfig

	OpenAI OpenAIConfig

	// BootstrapAPIKey is inserted as an admin key at startup when set.
	BootstrapAPIKey string

	KPICacheTTL time.Duration
	// KPICacheSize bounds the in-memory cache used when redis is not configured.
	KPICacheSize int

	// ReportLayoutPath overrides the directory searched for report.yml.
	ReportLayoutPath string

	Export ExportConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// UploadLockTTLSeconds bounds how long one ingestion may hold the upload lock.
	UploadLockTTLSeconds int
	ReportRate           float64
	ReportBurst          int
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ExportConfig configures publishing of KPI gauges after each ingestion.
type ExportConfig struct {
	Enabled   bool
	Exporter  string
	Endpoint  string
	AuthToken string
	Job       string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "workforcekpi"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "workforcekpi"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),

		Redis: RedisConfig{
			Addr:                 strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password:             getenv("REDIS_PASSWORD", ""),
			DB:                   getenvInt("REDIS_DB", 0),
			UploadLockTTLSeconds: getenvInt("UPLOAD_LOCK_TTL_SECONDS", 300),
			ReportRate:           getenvFloat("REPORT_RATE_LIMIT_RATE", 0.2),
			ReportBurst:          getenvInt("REPORT_RATE_LIMIT_BURST", 3),
		},

		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			Model:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: strings.TrimSpace(getenv("OPENAI_BASE_URL", "")),
		},

		BootstrapAPIKey:  strings.TrimSpace(getenv("BOOTSTRAP_API_KEY", "")),
		KPICacheTTL:      time.Duration(getenvInt("KPI_CACHE_TTL_SECONDS", 300)) * time.Second,
		KPICacheSize:     getenvInt("KPI_CACHE_SIZE", 512),
		ReportLayoutPath: strings.TrimSpace(getenv("REPORT_LAYOUT_PATH", "")),

		Export: ExportConfig{
			Enabled:   getenvBool("EXPORT_ENABLED", false),
			Exporter:  strings.ToLower(getenv("EXPORT_EXPORTER", "")),
			Endpoint:  strings.TrimSpace(getenv("EXPORT_ENDPOINT", "")),
			AuthToken: strings.TrimSpace(getenv("EXPORT_AUTH_TOKEN", "")),
			Job:       getenv("EXPORT_JOB", "workforcekpi"),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
