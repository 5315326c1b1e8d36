package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment
const ENV_PROD = "prod"
const ENV_DEVELOPMENT = "development"

// Server config
const DEFAULT_PORT = "8080"
const DEFAULT_FORECAST_TIMEOUT = 2 * time.Minute

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Station index refresh; 0 disables the periodic job
const STATION_INDEX_REFRESH_MINUTES = 60

// Forecast search config
const DEFAULT_OFFSET_MODE = "calendar"
const DEFAULT_SEARCH_WORKERS = 1
const DEFAULT_MAX_HORIZON = 120

// Dataset locations, relative to the resources directory unless absolute or a URL
const RESOURCES_PATH_PREFIX = "resources"
const COUNTS_RESOURCE = "station_counts.csv"
const STATION_CODES_RESOURCE = "station_nlc_codes.csv"
const STATIONS_RESOURCE = "london_stations.csv"
const CONNECTIONS_RESOURCE = "london_connections.csv"
const DEFAULT_COUNTS_TABLE = "station_counts"

// Config is the resolved runtime configuration.
type Config struct {
	Env             string
	Port            string
	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	CountsPath      string
	CountsTable     string
	CodesPath       string
	StationsPath    string
	ConnectionsPath string
	OffsetMode      string
	SearchWorkers   int
	MaxHorizon      int
	ForecastTimeout time.Duration
	IndexRefresh    time.Duration
}

// Load reads the configuration from the environment, falling back to the
// constants above.
func Load() Config {
	return Config{
		Env:             GetEnv("ENV", ENV_PROD),
		Port:            GetEnv("PORT", DEFAULT_PORT),
		RedisAddress:    GetEnv("REDIS_ADDRESS", REDIS_DB_ADDRESS),
		RedisPassword:   GetEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		RedisDB:         GetEnvInt("REDIS_DB", REDIS_DB),
		CountsPath:      GetEnv("COUNTS_PATH", GetResourcePath(COUNTS_RESOURCE)),
		CountsTable:     GetEnv("COUNTS_TABLE", DEFAULT_COUNTS_TABLE),
		CodesPath:       GetEnv("STATION_CODES_PATH", GetResourcePath(STATION_CODES_RESOURCE)),
		StationsPath:    GetEnv("STATIONS_PATH", GetResourcePath(STATIONS_RESOURCE)),
		ConnectionsPath: GetEnv("CONNECTIONS_PATH", GetResourcePath(CONNECTIONS_RESOURCE)),
		OffsetMode:      GetEnv("OFFSET_MODE", DEFAULT_OFFSET_MODE),
		SearchWorkers:   GetEnvInt("SEARCH_WORKERS", DEFAULT_SEARCH_WORKERS),
		MaxHorizon:      GetEnvInt("MAX_HORIZON", DEFAULT_MAX_HORIZON),
		ForecastTimeout: GetEnvDuration("FORECAST_TIMEOUT", DEFAULT_FORECAST_TIMEOUT),
		IndexRefresh:    time.Duration(GetEnvInt("STATION_INDEX_REFRESH_MINUTES", STATION_INDEX_REFRESH_MINUTES)) * time.Minute,
	}
}

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
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
