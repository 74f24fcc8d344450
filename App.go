package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const ExitCodeMainError = 1

const DefaultListenAddress = ":8080"
const DefaultCacheTtl = 15 * time.Minute
const DefaultLockTimeout = 30 * time.Second

func LoadAppConfig() AppConfig {
	config := AppConfig{
		CalculatorConfigsDir:  os.Getenv("CALCULATOR_CONFIGS_DIR"),
		WorkbooksDir:          os.Getenv("WORKBOOKS_DIR"),
		CacheDbFilepath:       os.Getenv("CACHE_DB_FILEPATH"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		CacheTtl:              secondsFromEnv("CACHE_TTL_SECONDS", DefaultCacheTtl),
		LockTimeout:           secondsFromEnv("LOCK_TIMEOUT_SECONDS", DefaultLockTimeout),
		ListenAddress:         DefaultListenAddress,
	}

	if port := os.Getenv("LISTEN_PORT"); port != "" {
		config.ListenAddress = ":" + port
	}

	return config
}

func secondsFromEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		slog.Warn("ignoring malformed duration variable", "name", name, "value", raw)
		return fallback
	}

	return time.Duration(seconds) * time.Second
}

func RunApp() error {
	gin.SetMode(gin.ReleaseMode)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	config := LoadAppConfig()
	serviceContainer, err := BuildServiceContainer(context.Background(), config)

	if err == nil {
		serviceContainer.WebhookDispatcher.Start()
		defer serviceContainer.WebhookDispatcher.Close()
		defer serviceContainer.Database.Close()

		slog.Info("listening", "address", config.ListenAddress)
		err = http.ListenAndServe(config.ListenAddress, serviceContainer.Router)
	}

	return err
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
	}

	if err != nil {
		return ExitCodeMainError
	}

	return 0
}
