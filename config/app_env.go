package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/pkg/utils"
)

const AppEnvKey = "APP_ENV"

// InitializeEnvFile loads .env into the process environment when present.
// Set SKIP_DOTENV=true to bypass, e.g. in containers that inject env vars.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found or failed to load it", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from .env file")
}

func GetAppEnv() string {
	return strings.ToLower(utils.GetEnvTrimmed(AppEnvKey))
}

// ValidateAutoMigrateAllowed rejects --auto-migrate outside development-like
// environments; production schemas move through versioned SQL migrations
// only.
func ValidateAutoMigrateAllowed(appEnv string) error {
	switch strings.ToLower(strings.TrimSpace(appEnv)) {
	case "", "dev", "development", "local", "test", "testing":
		return nil
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, appEnv)
	}
}
