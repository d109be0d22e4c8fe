package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ServerPort    string

	// Seeding
	Seed          bool
	AdminName     string
	AdminEmail    string
	AdminPassword string
	DefaultRole   string

	// Zero disables the overdue sweeper
	OverdueSweepInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	return &Config{
		DBDriver:             getEnv("DB_DRIVER", "mysql"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "rbacuser"),
		DBPassword:           getEnv("DB_PASSWORD", "rbacpassword"),
		DBName:               getEnv("DB_NAME", "rbac_admin"),
		DBPath:               getEnv("DB_PATH", "rbac_admin.db"),
		SessionStore:         getEnv("SESSION_STORE", "redis"),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		SessionSecret:        getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		Seed:                 getEnvAsBool("SEED", true),
		AdminName:            getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "Admin123!"),
		DefaultRole:          getEnv("DEFAULT_ROLE", "Employee"),
		OverdueSweepInterval: getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", time.Hour),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if valueStr == "0" {
		return 0
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return duration
}
