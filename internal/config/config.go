// Package config provides configuration for the video-be services.
// Settings are read from environment variables with sensible defaults; an
// optional YAML pipeline file overrides enrichment knobs and asset paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort     = 8686
	DefaultLogLevel = "info"
	DefaultDataDir  = ".videobe"

	// Environment variable names
	EnvPort         = "VIDEOBE_PORT"
	EnvLogLevel     = "VIDEOBE_LOG_LEVEL"
	EnvDataDir      = "VIDEOBE_DATA_DIR"
	EnvAssetsDir    = "VIDEOBE_ASSETS_DIR"
	EnvPipelineFile = "VIDEOBE_PIPELINE_FILE"

	// Model client environment variable names
	EnvOpenAIAPIKey  = "VIDEOBE_OPENAI_API_KEY"
	EnvOpenAIBaseURL = "VIDEOBE_OPENAI_BASE_URL"
	EnvOpenAIModel   = "VIDEOBE_OPENAI_MODEL"

	// Database filename
	DBFilename = "videobe.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	AssetsDir() string
	PipelineFile() string
	OpenAIAPIKey() string
	OpenAIBaseURL() string
	OpenAIModel() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port         int
	logLevel     string
	dataDir      string
	assetsDir    string
	pipelineFile string

	openAIAPIKey  string
	openAIBaseURL string
	openAIModel   string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		dataDir:   defaultDataDir(),
		assetsDir: "assets",
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if ad := os.Getenv(EnvAssetsDir); ad != "" {
		cfg.assetsDir = ad
	}

	cfg.pipelineFile = os.Getenv(EnvPipelineFile)

	// The bare OPENAI_API_KEY works as a fallback so shared shells behave.
	cfg.openAIAPIKey = os.Getenv(EnvOpenAIAPIKey)
	if cfg.openAIAPIKey == "" {
		cfg.openAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.openAIBaseURL = os.Getenv(EnvOpenAIBaseURL)
	cfg.openAIModel = os.Getenv(EnvOpenAIModel)

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// AssetsDir returns the asset catalog directory path
func (c *EnvConfig) AssetsDir() string {
	return c.assetsDir
}

// PipelineFile returns the optional YAML pipeline file path
func (c *EnvConfig) PipelineFile() string {
	return c.pipelineFile
}

func (c *EnvConfig) OpenAIAPIKey() string {
	return c.openAIAPIKey
}

func (c *EnvConfig) OpenAIBaseURL() string {
	return c.openAIBaseURL
}

func (c *EnvConfig) OpenAIModel() string {
	return c.openAIModel
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
