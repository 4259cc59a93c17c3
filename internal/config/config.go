package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	// Lending configuration
	LoanDays  int     // Default loan period in days
	FeePerDay float64 // Late fee per calendar day

	// Output configuration
	ReportFormat string // "text" or "json"

	// Logging configuration
	LogLevel       string
	LogDevelopment bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	loanDaysStr := os.Getenv("LOAN_DAYS")
	if loanDaysStr == "" {
		config.LoanDays = 7
	} else {
		days, err := strconv.Atoi(strings.TrimSpace(loanDaysStr))
		if err != nil {
			return nil, fmt.Errorf("invalid LOAN_DAYS: %w", err)
		}
		config.LoanDays = days
	}

	feeStr := os.Getenv("LATE_FEE_PER_DAY")
	if feeStr == "" {
		config.FeePerDay = 1.0
	} else {
		fee, err := strconv.ParseFloat(strings.TrimSpace(feeStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LATE_FEE_PER_DAY: %w", err)
		}
		if fee < 0 {
			return nil, fmt.Errorf("LATE_FEE_PER_DAY must not be negative, got %v", fee)
		}
		config.FeePerDay = fee
	}

	config.ReportFormat = strings.ToLower(os.Getenv("REPORT_FORMAT"))
	switch config.ReportFormat {
	case "":
		config.ReportFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid REPORT_FORMAT: %s (expected text or json)", config.ReportFormat)
	}

	config.LogLevel = os.Getenv("LOG_LEVEL")
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	config.LogDevelopment = os.Getenv("LOG_DEVELOPMENT") == "true"

	return config, nil
}
