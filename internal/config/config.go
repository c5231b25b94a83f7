package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the calculator.
type Config struct {
	// LogLevel controls diagnostic output: debug, info, warn or error.
	// Debug enables the engine's matching trace.
	LogLevel string

	// Timezone is the reporting timezone for calendar-date comparisons.
	Timezone *time.Location

	// DivisionPrecision is the number of fractional digits kept by decimal
	// division.
	DivisionPrecision int
}

// Load reads configuration from environment variables and a .env file.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	tzName := getEnv("CGT_TIMEZONE", "Europe/London")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid CGT_TIMEZONE %q: %w", tzName, err)
	}

	precisionStr := getEnv("CGT_DIVISION_PRECISION", "40")
	precision, err := strconv.Atoi(precisionStr)
	if err != nil || precision < 1 {
		return nil, fmt.Errorf("invalid CGT_DIVISION_PRECISION %q", precisionStr)
	}

	return &Config{
		LogLevel:          getEnv("CGT_LOG_LEVEL", "info"),
		Timezone:          loc,
		DivisionPrecision: precision,
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
