package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Metadata stores.
const (
	MetadataPostgres = "postgres"
	MetadataSQLite   = "sqlite"
	MetadataMemory   = "memory"
)

type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string // R2 / MinIO; empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type StorageConfig struct {
	Backend         string
	LocalDir        string
	CollisionPolicy string
	S3              S3Config
}

type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       int
	Name       string
	User       string
	Password   string
	SSLMode    string
	SQLitePath string
}

// DSN returns the Postgres connection string. DB_URL wins over the
// individual DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type Config struct {
	AppName        string
	Port           string
	Environment    string
	LogLevel       slog.Level
	LogFormat      string
	MaxUploadBytes int64
	DownloadURLTTL time.Duration
	CacheSize      int
	CorsConfig     cors.Options
	Storage        StorageConfig
	Database       DatabaseConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Smart File Storage")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(1<<30)) // 1 GiB
	v.SetDefault("DOWNLOAD_URL_TTL", "15m")
	v.SetDefault("RECORD_CACHE_SIZE", 1024)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("STORAGE_BACKEND", BackendLocal)
	v.SetDefault("LOCAL_UPLOAD_DIR", "./data/uploads")
	v.SetDefault("STORAGE_COLLISION_POLICY", "overwrite")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("S3_PREFIX", "uploads/")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)

	v.SetDefault("METADATA_STORE", MetadataPostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "smartstore")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "./data/smartstore.db")
}

// Load reads ENV_FILE (default .env) into the environment if it exists, then
// resolves every setting from the environment, an optional CONFIG_FILE and
// built-in defaults, in that order of precedence.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("No env file loaded", slog.String("file", envFile))
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("DOWNLOAD_URL_TTL"))
	if err != nil {
		return nil, fmt.Errorf("DOWNLOAD_URL_TTL: %w", err)
	}

	cfg := &Config{
		AppName:        v.GetString("APP_NAME"),
		Port:           v.GetString("PORT"),
		Environment:    v.GetString("ENV"),
		LogLevel:       level,
		LogFormat:      strings.ToLower(v.GetString("LOG_FORMAT")),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		DownloadURLTTL: ttl,
		CacheSize:      v.GetInt("RECORD_CACHE_SIZE"),
		CorsConfig:     CorsConfig(splitList(v.GetString("CORS_ALLOWED_ORIGINS"))),
		Storage: StorageConfig{
			Backend:         normalizeBackend(v.GetString("STORAGE_BACKEND")),
			LocalDir:        v.GetString("LOCAL_UPLOAD_DIR"),
			CollisionPolicy: v.GetString("STORAGE_COLLISION_POLICY"),
			S3: S3Config{
				Bucket:          v.GetString("S3_BUCKET_NAME"),
				Region:          v.GetString("AWS_REGION"),
				Prefix:          v.GetString("S3_PREFIX"),
				Endpoint:        v.GetString("S3_ENDPOINT"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			},
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("METADATA_STORE")),
			URL:        v.GetString("DB_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetInt("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendLocal, BackendS3:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND: unknown backend %q", c.Storage.Backend))
	}
	switch c.Database.Driver {
	case MetadataPostgres, MetadataSQLite, MetadataMemory:
	default:
		errs = append(errs, fmt.Errorf("METADATA_STORE: unknown store %q", c.Database.Driver))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// "object-store" is accepted as an alias for the s3 backend.
func normalizeBackend(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "object-store" {
		return BackendS3
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}
}

// SetupLogger installs a slog logger built from the config as the default.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
