package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          int
	DataPath      string
	DBPath        string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	LogLevel  string
	LogFormat string

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int
	MaxBodyBytes   int64

	// Export rendering
	PageSize    string
	PDFCompress bool
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatal().Err(err).Msg("Failed to generate random JWT secret")
		}
		jwtSecret = hex.EncodeToString(b)
		log.Warn().Msg("JWT_SECRET not set, using random secret. Sessions will not survive restarts.")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:           port,
		DataPath:       dataPath,
		DBPath:         getEnv("DB_PATH", dataPath+"/transcripts.db"),
		JWTSecret:      jwtSecret,
		TokenTTL:       getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:    corsOrigins,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LoginRateLimit: getEnvPositiveInt("LOGIN_RATE_LIMIT", 10),
		MaxBodyBytes:   int64(getEnvPositiveInt("MAX_BODY_BYTES", 10<<20)),
		PageSize:       getEnv("EXPORT_PAGE_SIZE", "A4"),
		PDFCompress:    getEnvBool("PDF_COMPRESS", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// getEnvPositiveInt is getEnvInt for settings where zero or a negative
// value would disable the service, such as a rate limit.
func getEnvPositiveInt(key string, fallback int) int {
	v := getEnvInt(key, fallback)
	if v < 1 {
		log.Warn().Str("key", key).Int("value", v).Int("default", fallback).Msg("Ignoring non-positive setting, using default")
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
