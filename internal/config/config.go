package config

import (
	"os"
	"strconv"

	"github.com/thisnaeem/invoicing-app/internal/logger"
	"github.com/thisnaeem/invoicing-app/pkg/models"
)

// Config carries the environment-provided defaults for a session: the
// initial Settings record plus logging knobs. Company fields may be blank;
// the exporter renders blanks rather than failing, so Load never rejects a
// configuration for missing company data.
type Config struct {
	// Initial invoice settings
	Currency       string
	TaxRate        float64
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Currency:       getEnv("INVOICE_CURRENCY", "USD"),
		TaxRate:        getEnvFloat("INVOICE_TAX_RATE", 0),
		CompanyName:    getEnv("COMPANY_NAME", ""),
		CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
		CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
		CompanyPhone:   getEnv("COMPANY_PHONE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// GetSettings returns the initial Settings record for a session.
func (c *Config) GetSettings() models.Settings {
	return models.Settings{
		Currency:       c.Currency,
		TaxRate:        c.TaxRate,
		CompanyName:    c.CompanyName,
		CompanyAddress: c.CompanyAddress,
		CompanyEmail:   c.CompanyEmail,
		CompanyPhone:   c.CompanyPhone,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return defaultValue
	}
	return f
}
