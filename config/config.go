package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads from the environment.
// The real-time core receives its values from here rather than reading
// the environment itself, so tests can run with compressed timeouts.
type Config struct {
	Port      string
	JWTSecret string

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	// IdleTimeout is how long a user may stay inactive before the
	// reaper kicks them; SweepInterval is how often the reaper runs.
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	// RingCapacity bounds the per-room in-memory message buffer.
	RingCapacity int
	// RecentLimit is how many messages a joining session receives.
	RecentLimit int
}

// Load reads the environment (optionally seeded from a .env file) and
// returns the configuration with defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPass:        getEnv("DB_PASS", "postgres"),
		DBName:        getEnv("DB_NAME", "chatapp"),
		DBPort:        getEnv("DB_PORT", "5432"),
		IdleTimeout:   getDuration("IDLE_TIMEOUT", 30*time.Minute),
		SweepInterval: getDuration("SWEEP_INTERVAL", 5*time.Minute),
		RingCapacity:  getInt("RING_CAPACITY", 1000),
		RecentLimit:   getInt("RECENT_LIMIT", 50),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %v, using default", key, err)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid integer for %s: %v, using default", key, err)
		return fallback
	}
	return n
}
