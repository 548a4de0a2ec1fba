package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// App environments
const ENV_PROD = "prod"
const ENV_DEV = "dev"

// Server config
const DEFAULT_SERVER_ADDRESS = ":8080"

// Redis config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0
const SNAPSHOT_TTL_HOURS = 24

// Hours API config
const HOURS_API_ENDPOINT_BASE = "https://management.anchorpub.co.uk/api"
const VENUE_TIMEZONE = "Europe/London"

// Status poller config
const POLL_INTERVAL_SECONDS = 60
const STALE_AFTER_SECONDS = 120
const RATE_LIMIT_BACKOFF_SECONDS = 60

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const BUSINESS_HOURS_RESOURCE = "business_hours.json"

// Config is the runtime configuration, defaults overridden from the environment.
type Config struct {
	Env                 string
	ServerAddress       string
	HoursAPIBaseURL     string
	APIKey              string
	VenueTimezone       string
	Location            *time.Location
	PollInterval        time.Duration
	StaleAfter          time.Duration
	RateLimitBackoff    time.Duration
	PausePollerWhenIdle bool
	RedisAddress        string
	RedisPassword       string
	RedisDB             int
	SnapshotTTL         time.Duration
	LogLevel            string
	LogPretty           bool
}

// IsProd reports whether the service talks to the real upstream.
func (c *Config) IsProd() bool {
	return c.Env == ENV_PROD
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", ENV_DEV),
		ServerAddress:   getEnv("SERVER_ADDRESS", DEFAULT_SERVER_ADDRESS),
		HoursAPIBaseURL: getEnv("HOURS_API_BASE_URL", HOURS_API_ENDPOINT_BASE),
		APIKey:          os.Getenv("ANCHOR_API_KEY"),
		VenueTimezone:   getEnv("VENUE_TIMEZONE", VENUE_TIMEZONE),
		RedisAddress:    getEnv("REDIS_ADDRESS", REDIS_DB_ADDRESS),
		RedisPassword:   getEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.PollInterval, err = getSeconds("POLL_INTERVAL_SECONDS", POLL_INTERVAL_SECONDS); err != nil {
		return nil, err
	}
	if cfg.StaleAfter, err = getSeconds("STALE_AFTER_SECONDS", STALE_AFTER_SECONDS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBackoff, err = getSeconds("RATE_LIMIT_BACKOFF_SECONDS", RATE_LIMIT_BACKOFF_SECONDS); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", REDIS_DB); err != nil {
		return nil, err
	}
	ttlHours, err := getInt("SNAPSHOT_TTL_HOURS", SNAPSHOT_TTL_HOURS)
	if err != nil {
		return nil, err
	}
	cfg.SnapshotTTL = time.Duration(ttlHours) * time.Hour
	if cfg.PausePollerWhenIdle, err = getBool("POLLER_PAUSE_WHEN_IDLE", false); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getBool("LOG_PRETTY", cfg.Env != ENV_PROD); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(cfg.VenueTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid VENUE_TIMEZONE %q: %w", cfg.VenueTimezone, err)
	}
	if cfg.IsProd() && cfg.APIKey == "" {
		return nil, errors.New("ANCHOR_API_KEY is required when APP_ENV=prod")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getSeconds(key string, fallback int) (time.Duration, error) {
	n, err := getInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %d: must be positive", key, n)
	}
	return time.Duration(n) * time.Second, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
