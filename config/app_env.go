package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/utils"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

var devLikeEnvs = map[string]struct{}{
	"":            {},
	"dev":         {},
	"development": {},
	"local":       {},
	"test":        {},
	"testing":     {},
}

// InitializeEnvFile loads ENV_FILE (comma separated, default ".env") unless
// SKIP_DOTENV=true. Variables already set in the process win.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	files := envFiles()
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No env file loaded", "files", strings.Join(files, ","), "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "files", strings.Join(files, ","))
}

func envFiles() []string {
	files := utils.SplitCSV(os.Getenv("ENV_FILE"))
	if len(files) == 0 {
		return []string{".env"}
	}
	return files
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

func IsDevelopmentEnv(appEnv string) bool {
	_, ok := devLikeEnvs[strings.ToLower(strings.TrimSpace(appEnv))]
	return ok
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	if IsDevelopmentEnv(appEnv) {
		return nil
	}

	return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)",
		AppEnvKey, strings.ToLower(strings.TrimSpace(appEnv)))
}
