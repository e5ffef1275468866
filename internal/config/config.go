package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	// CORSAllowedHosts are origin hosts (host[:port]) the admin UI is served from.
	CORSAllowedHosts []string

	DB        DatabaseConfig
	Redis     RedisConfig
	Platforms PlatformConfig
	Import    ImportConfig
	Worker    WorkerConfig
	S3        S3Config
	Admin     AdminBootstrapConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PlatformConfig carries marketplace credentials. An empty value means the
// platform is not configured; adapters are still constructible.
type PlatformConfig struct {
	EtsyAPIKey        string
	EtsyWebhookSecret string

	MedusaAPIURL        string
	MedusaAPIKey        string
	MedusaWebhookSecret string

	AukroAPIKey        string
	AukroAPISecret     string
	AukroWebhookSecret string
}

// ImportConfig limits spreadsheet uploads.
type ImportConfig struct {
	MaxUploadBytes int64
	ArchivePrefix  string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	// AutoSyncInterval of 0 disables the scheduled sync worker.
	AutoSyncInterval time.Duration
	SyncLockTTL      time.Duration
}

// AdminBootstrapConfig seeds the first admin profile on startup when Email
// and Password are set.
type AdminBootstrapConfig struct {
	Email    string
	Password string
	FullName string
}

// S3Config contains AWS S3 configuration for the import archive.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether credentials and bucket are present.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine, production uses real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Marketplaces
	cfg.Platforms = PlatformConfig{
		EtsyAPIKey:          getEnv("ETSY_API_KEY", ""),
		EtsyWebhookSecret:   getEnv("ETSY_WEBHOOK_SECRET", ""),
		MedusaAPIURL:        getEnv("MEDUSA_API_URL", ""),
		MedusaAPIKey:        getEnv("MEDUSA_API_KEY", ""),
		MedusaWebhookSecret: getEnv("MEDUSA_WEBHOOK_SECRET", ""),
		AukroAPIKey:         getEnv("AUKRO_API_KEY", ""),
		AukroAPISecret:      getEnv("AUKRO_API_SECRET", ""),
		AukroWebhookSecret:  getEnv("AUKRO_WEBHOOK_SECRET", ""),
	}

	// Import
	cfg.Import = ImportConfig{
		MaxUploadBytes: int64(getEnvInt("IMPORT_MAX_UPLOAD_MB", 20)) << 20,
		ArchivePrefix:  getEnv("IMPORT_ARCHIVE_PREFIX", "imports"),
	}

	// S3
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "eu-central-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Admin bootstrap
	cfg.Admin = AdminBootstrapConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		FullName: getEnv("ADMIN_NAME", "Administrator"),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Worker.AutoSyncInterval, err = parseDurationEnv("AUTO_SYNC_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid AUTO_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.SyncLockTTL, err = parseDurationEnv("SYNC_LOCK_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_LOCK_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key, def string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, def), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
