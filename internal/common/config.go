package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	LogLevel string
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Storage  StorageConfig
	Queue    QueueConfig
	Watch    WatchConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// DSN selects the driver: postgres:// URLs use pgx, anything else is a SQLite path.
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr  string
	BodyLimit int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TesseractBin      string
	PdftoppmBin       string
	TessdataDir       string
	Lang              string
	DPI               int
	PSM               int
	OEM               int
	TSVConfidence     bool
	MinTextLayerChars int
	ArtifactCacheDir  string
}

// StorageConfig holds where uploaded source files are archived.
type StorageConfig struct {
	UploadDir      string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

// QueueConfig holds background processing configuration
type QueueConfig struct {
	Workers        int
	Size           int
	ProcessTimeout time.Duration
}

// WatchConfig holds directory watch configuration
type WatchConfig struct {
	Dirs     []string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "file:docclassify.db?_pragma=busy_timeout(5000)"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
			BodyLimit: getEnvAsInt("HTTP_BODY_LIMIT", 20*1024*1024),
		},
		OCR: OCRConfig{
			TesseractBin:      getEnv("TESSERACT_BIN", "tesseract"),
			PdftoppmBin:       getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TessdataDir:       getEnv("TESSDATA_PREFIX", ""),
			Lang:              getEnv("OCR_LANG", "eng"),
			DPI:               getEnvAsInt("OCR_DPI", 300),
			PSM:               getEnvAsInt("OCR_PSM", 0),
			OEM:               getEnvAsInt("OCR_OEM", 0),
			TSVConfidence:     getEnvAsBool("OCR_TSV_CONFIDENCE", false),
			MinTextLayerChars: getEnvAsInt("OCR_MIN_TEXT_LAYER_CHARS", 40),
			ArtifactCacheDir:  getEnv("ARTIFACT_CACHE_DIR", ""),
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinIOBucket:    getEnv("MINIO_BUCKET", "documents"),
			MinIOUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Queue: QueueConfig{
			Workers:        getEnvAsInt("QUEUE_WORKERS", 2),
			Size:           getEnvAsInt("QUEUE_SIZE", 128),
			ProcessTimeout: getEnvAsDuration("QUEUE_PROCESS_TIMEOUT", 2*time.Minute),
		},
		Watch: WatchConfig{
			Dirs:     getEnvAsList("WATCH_DIRS"),
			Debounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 || c.Queue.Size <= 0 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS and QUEUE_SIZE must be positive", ErrInvalidInput)
	}
	if c.Storage.MinIOEndpoint != "" && (c.Storage.MinIOAccessKey == "" || c.Storage.MinIOSecretKey == "") {
		return NewAppError("CONFIG_ERROR", "MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT", ErrInvalidInput)
	}
	return nil
}
