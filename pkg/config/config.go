package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob, loaded once at startup.
type Config struct {
	Port        string
	Env         string
	PostgresURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	EmailRateLimitMax    int
	EmailRateLimitWindow time.Duration

	StoryTTL      time.Duration
	SweepInterval time.Duration

	FrontendURL string

	S3Bucket     string
	S3Region     string
	MediaDir     string
	MediaBaseURL string
}

// Load reads the environment (and .env when present) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresURL: getEnv("POSTGRES_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),

		JWTSecret: getEnv("JWT_SECRET", "supersecretjwtkey"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@socialite.app"),

		EmailRateLimitMax:    getEnvInt("EMAIL_RATE_LIMIT_MAX", 3),
		EmailRateLimitWindow: getEnvDuration("EMAIL_RATE_LIMIT_WINDOW", time.Minute),

		StoryTTL:      getEnvDuration("STORY_TTL", 24*time.Hour),
		SweepInterval: getEnvDuration("STORY_SWEEP_INTERVAL", 5*time.Minute),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		MediaDir:     getEnv("MEDIA_DIR", "./media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:8080/media"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
