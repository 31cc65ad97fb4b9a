package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Security  SecurityConfig
	AI        AIConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Version        string
	Port           string
	Debug          bool
	Environment    string
	BasicAuth      []string
	BasePath       string
	TrustedProxies []string
}

type PathsConfig struct {
	Storages string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB name for Postgres
}

type SecurityConfig struct {
	EncryptionKey string
}

type AIConfig struct {
	Provider     string // "gemini" or "openai"; empty disables generation
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
}

type SchedulerConfig struct {
	// Posts stuck in "processing" longer than this are failed by the
	// safety-net tick.
	StalledPostMinutes int
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration through viper, falling back to defaults.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()

	storages := getEnv("APP_STORAGES_PATH", "storages")

	var basicAuth []string
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	var trustedProxies []string
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		trustedProxies = strings.Split(v, ",")
	}

	cfg := &Config{
		App: AppConfig{
			Version:        "v1.2.0",
			Port:           getEnv("APP_PORT", "3000"),
			Debug:          getEnvBool("APP_DEBUG", false),
			Environment:    getEnv("APP_ENV", "development"),
			BasicAuth:      basicAuth,
			BasePath:       getEnv("APP_BASE_PATH", ""),
			TrustedProxies: trustedProxies,
		},
		Paths: PathsConfig{
			Storages: storages,
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", filepath.Join(storages, "postpilot.db")),
		},
		Security: SecurityConfig{
			EncryptionKey: getEnv("ENCRYPTION_KEY", "this-is-a-32-char-dev-encryption-key"),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("AI_MODEL", ""),
		},
		Scheduler: SchedulerConfig{
			StalledPostMinutes: getEnvInt("SCHEDULER_STALLED_POST_MINUTES", 10),
		},
	}

	Global = cfg
	return cfg, nil
}
