package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	LockoutBackendMemory = "memory"
	LockoutBackendRedis  = "redis"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LockoutBackend   string
	LockoutThreshold int
	LockoutWindow    time.Duration

	PinLength      int
	PinMaxAttempts int

	// Optional default admin seeded at startup when both are set.
	AdminName string
	AdminPin  string
}

var AppConfig *Config

// Load reads configuration from the environment. The signing secret has no
// baked-in fallback: a missing JWT_SECRET is a startup error.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	AppConfig = &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		JWTKey:           []byte(secret),
		JWTExp:           time.Duration(getEnvAsInt("TOKEN_LIFETIME_HOURS", 24)) * time.Hour,
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "user"),
		DBPassword:       getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "book_review_db"),
		DBSslMode:        getEnv("DB_SSLMODE", "disable"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		LockoutBackend:   getEnv("LOCKOUT_BACKEND", LockoutBackendMemory),
		LockoutThreshold: getEnvAsInt("LOCKOUT_THRESHOLD", 3),
		LockoutWindow:    time.Duration(getEnvAsInt("LOCKOUT_WINDOW_MINUTES", 30)) * time.Minute,
		PinLength:        getEnvAsInt("PIN_LENGTH", 4),
		PinMaxAttempts:   getEnvAsInt("PIN_MAX_ATTEMPTS", 100),
		AdminName:        getEnv("ADMIN_NAME", ""),
		AdminPin:         getEnv("ADMIN_PIN", ""),
	}

	if AppConfig.LockoutBackend != LockoutBackendMemory && AppConfig.LockoutBackend != LockoutBackendRedis {
		return errors.New("LOCKOUT_BACKEND must be \"memory\" or \"redis\"")
	}

	// A seeded admin must be able to log in: its PIN has to match the
	// configured width, digits only.
	if AppConfig.AdminPin != "" && !validPin(AppConfig.AdminPin, AppConfig.PinLength) {
		return fmt.Errorf("ADMIN_PIN must be exactly %d digits", AppConfig.PinLength)
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode

	return nil
}

func validPin(pin string, length int) bool {
	if len(pin) != length {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
