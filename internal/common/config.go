package common

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	Inbox   InboxConfig
	Output  OutputConfig
	Extract ExtractConfig
	Cycle   CycleConfig
}

// InboxConfig describes where source PDFs arrive.
type InboxConfig struct {
	Dir string
}

// OutputConfig holds the snapshot and workbook destinations.
type OutputConfig struct {
	Dir           string
	MasterFile    string
	ErrorsFile    string
	IncrementFile string
	WorkbookFile  string
	StateDB       string
}

// ExtractConfig holds text-extraction settings.
type ExtractConfig struct {
	Pdftotext string
	Timeout   time.Duration
}

// CycleConfig holds scheduling settings.
type CycleConfig struct {
	Interval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	outDir := getEnv("FAREMON_OUT_DIR", "out")
	return &Config{
		Inbox: InboxConfig{
			Dir: getEnv("FAREMON_INBOX_DIR", "inbox"),
		},
		Output: OutputConfig{
			Dir:           outDir,
			MasterFile:    getEnv("FAREMON_MASTER_FILE", filepath.Join(outDir, "OFERTAS.csv")),
			ErrorsFile:    getEnv("FAREMON_ERRORS_FILE", filepath.Join(outDir, "OFERTASMATRIZ_ERROS.csv")),
			IncrementFile: getEnv("FAREMON_INCREMENT_FILE", filepath.Join(outDir, "OFERTASMATRIZ_OFERTAS.csv")),
			WorkbookFile:  getEnv("FAREMON_WORKBOOK_FILE", filepath.Join(outDir, "OFERTASMATRIZ.xlsx")),
			StateDB:       getEnv("FAREMON_STATE_DB", filepath.Join(outDir, "state.db")),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("FAREMON_PDFTOTEXT", "pdftotext"),
			Timeout:   getEnvAsDuration("FAREMON_EXTRACT_TIMEOUT", 60*time.Second),
		},
		Cycle: CycleConfig{
			Interval: getEnvAsDuration("FAREMON_CYCLE_INTERVAL", 10*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Inbox.Dir == "" {
		return NewAppError("CONFIG_ERROR", "FAREMON_INBOX_DIR is required", ErrInvalidInput)
	}
	if c.Output.MasterFile == "" {
		return NewAppError("CONFIG_ERROR", "FAREMON_MASTER_FILE is required", ErrInvalidInput)
	}
	if c.Cycle.Interval <= 0 {
		return NewAppError("CONFIG_ERROR", "FAREMON_CYCLE_INTERVAL must be positive", ErrInvalidInput)
	}
	return nil
}
