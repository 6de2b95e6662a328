// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stocksync/internal/logger"
)

// Variables available everywhere
var (
	baseDir       string
	dataDirectory string
	logsDirectory string
	databasePath  string
	serverBaseURL string

	// Exported settings
	LogFileFormat string
	AllowedOrigin string // For CORS
	SessionTTL    time.Duration
	PollInterval  time.Duration
	ReportDir     string
)

const (
	defaultSessionTTL   = 8 * time.Hour
	defaultPollInterval = 5 * time.Second
)

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod)
func GetEnvBasedSetting(base string) string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	return os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(env)))
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	if env == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := GetEnvBasedSetting("LOGS_DIRECTORY")
	if logDir == "" {
		logDir = "./logs"
	}

	logFormat := LogFileFormat
	if logFormat == "" {
		logFormat = GetEnvBasedSetting("LOG_FILE_FORMAT")
	}
	if logFormat == "" {
		logFormat = "server_%s.log"
	}

	timezone := os.Getenv("TIME_ZONE")
	if timezone == "" {
		timezone = "Local"
	}

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
	}
}

// ConfigurePaths sets up folders and paths
func ConfigurePaths() {
	wd, err := os.Getwd()
	if err != nil {
		logger.LogFatal("Failed to get working directory: %v", err)
	}
	baseDir = wd

	dataDir := GetEnvBasedSetting("DATA_DIRECTORY")
	if dataDir != "" {
		dataDirectory = dataDir
	} else {
		dataDirectory = filepath.Join(baseDir, "data")
	}

	logsDir := GetEnvBasedSetting("LOGS_DIRECTORY")
	if logsDir != "" {
		logsDirectory = logsDir
	} else {
		logsDirectory = filepath.Join(baseDir, "logs")
	}

	dbPath := GetEnvBasedSetting("DATABASE_PATH")
	if dbPath != "" {
		databasePath = dbPath
	} else {
		databasePath = filepath.Join(dataDirectory, "estoque.db")
	}

	reportDir := GetEnvBasedSetting("REPORT_DIRECTORY")
	if reportDir != "" {
		ReportDir = reportDir
	} else {
		ReportDir = filepath.Join(baseDir, "reports")
	}

	logFormat := GetEnvBasedSetting("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = "server_%s.log"
	}
	LogFileFormat = logFormat
}

// LoadSessionConfig loads session lifetime settings
func LoadSessionConfig() {
	SessionTTL = defaultSessionTTL
	ttlStr := os.Getenv("SESSION_TTL_MINUTES")
	if ttlStr == "" {
		return
	}
	minutes, err := strconv.Atoi(ttlStr)
	if err != nil || minutes <= 0 {
		logger.LogWarn("Invalid SESSION_TTL_MINUTES: %s, using default %v", ttlStr, defaultSessionTTL)
		return
	}
	SessionTTL = time.Duration(minutes) * time.Minute
	logger.LogInfo("Session TTL set to %v", SessionTTL)
}

// LoadSyncConfig loads the client agent's poll settings
func LoadSyncConfig() {
	serverBaseURL = GetEnvBasedSetting("SERVER_BASE_URL")
	if serverBaseURL == "" {
		serverBaseURL = "http://127.0.0.1:5051"
		logger.LogWarn("SERVER_BASE_URL not set, using default: %s", serverBaseURL)
	}

	PollInterval = defaultPollInterval
	intervalStr := os.Getenv("POLL_INTERVAL_MS")
	if intervalStr == "" {
		return
	}
	ms, err := strconv.Atoi(intervalStr)
	if err != nil || ms <= 0 {
		logger.LogWarn("Invalid POLL_INTERVAL_MS: %s, using default %v", intervalStr, defaultPollInterval)
		return
	}
	PollInterval = time.Duration(ms) * time.Millisecond
	logger.LogInfo("Poll interval set to %v", PollInterval)
}

// LoadCORSConfig loads CORS settings
func LoadCORSConfig() {
	AllowedOrigin = GetEnvBasedSetting("ALLOWED_ORIGIN")
	if AllowedOrigin == "" {
		AllowedOrigin = "*" // Allow all - be careful in prod
		logger.LogWarn("ALLOWED_ORIGIN not set, using '*' (allow all origins) - SECURITY RISK")
	} else {
		logger.LogInfo("Allowed Origin: %s", AllowedOrigin)
	}
}

//
// --- Getters (exported) ---
//

func DataDirectory() string {
	return dataDirectory
}

func LogsDirectory() string {
	return logsDirectory
}

func DatabasePath() string {
	return databasePath
}

func ServerBaseURL() string {
	return serverBaseURL
}
