package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Strings for identifiers and secrets, ints for TTLs and
// hashing cost. The JWT secret and upload endpoint are loaded once here and
// never mutated after startup.
type Config struct {
	Env          string // application environment (e.g. "development", "production")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign session tokens
	TokenTTLDays int    // session token time-to-live in days
	BcryptCost   int    // bcrypt cost for password hashing
	UploadURL    string // asset host upload endpoint
	UploadPreset string // unsigned upload preset name (optional)
	UploadFolder string // asset host folder for product images
	AMQPURL      string // message broker URL (optional, events disabled when empty)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          envStr("APP_ENV", "development"),
		Port:         envStr("APP_PORT", "5000"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTLDays: envInt("TOKEN_TTL_DAYS", 30),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		UploadURL:    must("UPLOAD_URL"),
		UploadPreset: os.Getenv("UPLOAD_PRESET"),
		UploadFolder: envStr("UPLOAD_FOLDER", "recycle_market_products"),
		AMQPURL:      os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
