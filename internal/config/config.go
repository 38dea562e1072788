package config

import (
	"os"
	"strconv"
)

// Config holds the rentpilot HTTP API configuration, loaded from
// environment variables with development-friendly defaults.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
		MaxConns int
		MaxIdle  int
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Auth struct {
		JWTSecret   string
		TokenTTLHrs int
	}
	Storage struct {
		BaseURL   string
		Bucket    string
		AccessKey string
		URLTTLSec int
	}
	Upload struct {
		// MaxBytes is the single upload ceiling for every document manager.
		MaxBytes int64
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "rentpilot")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	// Redis powers realtime fan-out and the token denylist. When disabled the
	// server falls back to in-process equivalents (single-instance only).
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "dev-secret-change-me")
	cfg.Auth.TokenTTLHrs = parseInt(getEnv("TOKEN_TTL_HOURS", "24"), 24)

	cfg.Storage.BaseURL = getEnv("STORAGE_BASE_URL", "http://localhost:9000")
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", "rentpilot-documents")
	cfg.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", "")
	cfg.Storage.URLTTLSec = parseInt(getEnv("STORAGE_URL_TTL_SEC", "900"), 900)

	// 10 MiB. The legacy frontends disagreed (50MB landlord / 10MB tenant);
	// the conservative value is the one configured ceiling for everyone.
	cfg.Upload.MaxBytes = int64(parseInt(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10485760))

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return "host=" + c.Database.Host +
		" port=" + strconv.Itoa(c.Database.Port) +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Database +
		" sslmode=" + c.Database.SSLMode
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
