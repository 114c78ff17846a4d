package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	devJWTSecret = "willora-dev-secret-change-in-production"
)

type Config struct {
	Environment    string // ENV: production, development, etc.
	Port           string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	PostgresURI    string
	RedisURI       string // optional; enables the Redis rate limiter outside production
	JWTSecret      string
	TokenTTL       time.Duration
	GeminiAPIKey   string
	GeminiModel    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	AllowedHost    string   // production Host header check; empty disables it
	Timezone       string   // IANA name used for calendar-day boundaries; empty means server local
	RequestTimeout time.Duration
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:5173"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	mongoURI := getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/willora"))

	return &Config{
		Environment:    env,
		Port:           getEnv("PORT", "5000"),
		StoreDriver:    strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMongo))),
		MongoURI:       mongoURI,
		MongoDatabase:  getEnv("MONGO_DB", databaseNameFromURI(mongoURI, "willora")),
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/willora?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AllowedOrigins: allowedOrigins,
		AllowedHost:    strings.TrimSpace(getEnv("ALLOWED_HOST", "")),
		Timezone:       getEnv("TIMEZONE", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// Location resolves the configured timezone. An empty or unknown name falls back to the server's local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("⚠️  WARNING: unknown TIMEZONE %q, using server local time", c.Timezone)
		return time.Local
	}
	return loc
}

// SigningSecret returns the JWT secret. Outside production a fixed development secret is used when none is set.
func (c *Config) SigningSecret() (string, bool) {
	if strings.TrimSpace(c.JWTSecret) != "" {
		return c.JWTSecret, true
	}
	if c.IsProduction() {
		return "", false
	}
	return devJWTSecret, true
}

// databaseNameFromURI extracts the path segment of a mongodb:// or mongodb+srv:// URI.
// Format: mongodb://.../database_name?...
func databaseNameFromURI(uri, fallback string) string {
	rest := uri
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return fallback
	}
	name := strings.Split(rest[idx+1:], "?")[0]
	if name == "" {
		return fallback
	}
	return name
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("⚠️  WARNING: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
