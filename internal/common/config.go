package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds the process-level configuration for the cmds. The validation
// pipeline itself takes an explicit pipeline.Config; this covers the wiring
// around it.
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Registry RegistryConfig
	Intake   IntakeConfig
}

// ServerConfig holds the daemon's server settings.
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig points at the external extraction tools.
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
}

// RegistryConfig locates the notary commission roster.
type RegistryConfig struct {
	SQLitePath string
}

// IntakeConfig configures the daemon's watched intake directory.
type IntakeConfig struct {
	Dir       string
	Debounce  time.Duration
	Workers   int
	QueueSize int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
		},
		Registry: RegistryConfig{
			SQLitePath: getEnv("NOTARY_REGISTRY_DB", ""),
		},
		Intake: IntakeConfig{
			Dir:       getEnv("INTAKE_DIR", ""),
			Debounce:  getEnvAsDuration("INTAKE_DEBOUNCE", 500*time.Millisecond),
			Workers:   getEnvAsInt("INTAKE_WORKERS", 4),
			QueueSize: getEnvAsInt("INTAKE_QUEUE_SIZE", 256),
		},
	}
}

// Validate checks the settings the daemon cannot run without.
func (c *Config) Validate() error {
	if c.Intake.Dir == "" {
		return NewAppError("CONFIG_ERROR", "INTAKE_DIR is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}

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

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
