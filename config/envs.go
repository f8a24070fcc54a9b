package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrMissingServerConfig = errors.New("missing server configuration")

// Config holds the application's configuration values.
type Config struct {
	HostIP               string // Host IP for the server
	RESTPort             int    // Port for the REST API
	GinMode              string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret            string // Secret key for JWT signing
	JWTIssuer            string // Issuer claim for JWTs
	OperatorPasswordHash string // bcrypt hash of the operator password
	RedisAddr            string // Redis address for frame publishing; empty disables it
	RedisPassword        string // Redis password
	RedisDB              int    // Redis database number
	RedisPrefix          string // Prefix of Redis channel names
	LogLevel             string // debug, info, warn or error
	StepDelayMS          int    // Pause between simulation steps, in milliseconds
	CellPixels           int    // Side of a rendered cell, in pixels
	MaxSteps             int    // Step limit of a single run
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:               getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:             getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:              getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:            getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer:            getEnvWithDefault("JWT_ISSUER", "gridbot"),
		OperatorPasswordHash: getEnvWithDefault("OPERATOR_PASSWORD_HASH", ""),
		RedisAddr:            getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:        getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsIntWithDefault("REDIS_DB", 0),
		RedisPrefix:          getEnvWithDefault("REDIS_PREFIX", "gridbot"),
		LogLevel:             getEnvWithDefault("LOG_LEVEL", "info"),
		StepDelayMS:          getEnvAsIntWithDefault("STEP_DELAY_MS", 100),
		CellPixels:           getEnvAsIntWithDefault("CELL_PIXELS", 20),
		MaxSteps:             getEnvAsIntWithDefault("MAX_STEPS", 10000),
	}
}

// ValidateServer reports the settings the HTTP server cannot run without.
func (c Config) ValidateServer() error {
	var missing []error
	if c.JWTSecret == "" {
		missing = append(missing, errors.New("JWT_SECRET is not set"))
	}
	if c.OperatorPasswordHash == "" {
		missing = append(missing, errors.New("OPERATOR_PASSWORD_HASH is not set"))
	}
	if len(missing) > 0 {
		return errors.Join(append([]error{ErrMissingServerConfig}, missing...)...)
	}
	return nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer.
// It logs a fatal error if the value is set but cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
