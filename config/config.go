package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process settings read from the environment.
type Config struct {
	ListenAddr string
	LogLevel   string

	StorageType      string
	LocalStoragePath string
	DataSourceName   string
	S3BucketName     string
	S3Prefix         string
	BadgerPath       string
	DBURL            string

	JWTSecret          string
	SeedSamples        bool
	CORSAllowedOrigins []string
}

// Load reads .env (when present) and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found. Using system environment variables.")
	}
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() Config {
	return Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":3002"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		StorageType:        getEnv("STORAGE_TYPE", "memory"),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./data"),
		DataSourceName:     getEnv("DATA_SOURCE_NAME", "nurinuri.db"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		BadgerPath:         getEnv("BADGER_PATH", "./badger"),
		DBURL:              getEnv("DB_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SeedSamples:        getBool("SEED_SAMPLES", true),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid boolean %q, using %v", value, fallback)
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
