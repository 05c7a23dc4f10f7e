package config // package config loads application configuration from environment variables

import (
	"log" // log reports configuration errors and halts execution
	"os"  // os provides access to environment variables

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds all runtime configuration values.  It is built once by Load
// in main and handed to every constructor; no package reads the
// environment on its own after startup.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to verify access tokens
	MinDistance    int    // minimum Manhattan distance between offered cells and taken seats
	MaxRoomDim     int    // largest rows or cols a new room may have
	LogLevel       string // debug | info | warn | error | off
	MigrateOnStart bool   // apply embedded migrations before serving

	Redis     RedisConfig
	Cache     CacheConfig
	Lock      LockConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is loaded first when
// present; variables already set in the environment win.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is normal outside development

	cfg := Config{
		Env:            must("APP_ENV"),                // environment (dev/test/prod)
		Port:           must("APP_PORT"),               // port to bind the HTTP server
		DBUser:         must("DB_USER"),                // database user
		DBPass:         os.Getenv("DB_PASS"),           // database password (empty allowed)
		DBHost:         must("DB_HOST"),                // database host
		DBPort:         must("DB_PORT"),                // database port
		DBName:         must("DB_NAME"),                // database name
		JWTSecret:      must("JWT_SECRET"),             // secret used for verifying JWTs
		MinDistance:    envInt("MIN_DISTANCE", 5),      // seat spacing rule
		MaxRoomDim:     envInt("ROOM_MAX_DIM", 500),    // room size cap
		LogLevel:       envStr("LOG_LEVEL", "info"),    // logger threshold
		MigrateOnStart: envBool("MIGRATE_ON_START", true),

		Redis:     LoadRedisConfig(),
		Cache:     LoadCacheConfig(),
		Lock:      LoadLockConfig(),
		RateLimit: LoadRateLimitConfig(),
		Events:    LoadEventsConfig(),
	}
	if cfg.MinDistance < 0 {
		log.Fatalf("invalid MIN_DISTANCE: %d (must be >= 0)", cfg.MinDistance)
	}
	if cfg.MaxRoomDim < 1 {
		log.Fatalf("invalid ROOM_MAX_DIM: %d (must be >= 1)", cfg.MaxRoomDim)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
