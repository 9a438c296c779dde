package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	HTTPPort        string
	DefinitionTTL   time.Duration
	ShutdownTimeout time.Duration
	SeedFile        string
	CategoryListMax int64
}

// Load reads configuration from the environment, picking up a .env file
// when one is present
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:             getEnv("APP_ENV", "production"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "resistmap"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DefinitionTTL:   getDuration("DEFINITION_CACHE_TTL", 10*time.Minute),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		SeedFile:        getEnv("SEED_FILE", "seed/definitions.yaml"),
		CategoryListMax: getInt64("CATEGORY_LIST_MAX", 100),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
