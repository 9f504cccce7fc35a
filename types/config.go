package types

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfig reads the loader settings from the environment.
func LoadConfig() Config {
	return Config{
		MonitoringTime: envDuration("LOADER_MONITORING_TIME", 5*time.Second),
		SourceDir:      envString("LOADER_SOURCE_DIR", "./hotfolder/in"),
		ArchiveDir:     envString("LOADER_ARCHIVE_DIR", "./hotfolder/archive"),
		BadDir:         envString("LOADER_BAD_DIR", "./hotfolder/bad"),
		OutputDir:      envString("LOADER_OUTPUT_DIR", "./hotfolder/out"),
	}
}

// LoadServerConfig reads the API settings from the environment. PostgresDSN
// is empty when PG_HOST is not set.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:  envString("SERVER_ADDR", ":3000"),
		OutputDir:   envString("OUTPUT_DIR", "./output"),
		UploadLimit: envInt("UPLOAD_LIMIT_MB", 64) * 1024 * 1024,
		PostgresDSN: PostgresDSN(),
	}
}

func PostgresDSN() string {
	host := os.Getenv("PG_HOST")
	if host == "" {
		return ""
	}
	port := envInt("PG_PORT", 5432)
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", host, port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// envDuration accepts Go durations ("10s") or a plain number of seconds.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
