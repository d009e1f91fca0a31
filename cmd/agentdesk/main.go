package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
	"github.com/agentdesk/agentdesk/internal/tools"
	"github.com/agentdesk/agentdesk/internal/transport"
	"github.com/agentdesk/agentdesk/pkg/logger"
)

const (
	serverName    = "agentdesk"
	serverVersion = "1.0.0"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("AGENTDESK_LOG_LEVEL"))
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stateBackend, err := buildStateBackendFromEnv()
	if err != nil {
		return fmt.Errorf("initialize state backend: %w", err)
	}

	store := agentdesk.NewStoreWithOptions(agentdesk.StoreOptions{
		StateBackend: stateBackend,
		StateFile:    strings.TrimSpace(os.Getenv("AGENTDESK_STATE_FILE")),
	})
	defer store.Close()

	if boolEnv("AGENTDESK_WATCH_STATE_FILE", false) {
		stateFile := strings.TrimSpace(os.Getenv("AGENTDESK_STATE_FILE"))
		if stateFile == "" {
			log.Warn("AGENTDESK_WATCH_STATE_FILE set without AGENTDESK_STATE_FILE, watcher disabled")
		} else {
			watcher, err := agentdesk.WatchStateFile(store, stateFile, log)
			if err != nil {
				return fmt.Errorf("initialize state file watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()
		}
	}

	registry, err := tools.NewRegistry(store, log)
	if err != nil {
		return fmt.Errorf("initialize tool registry: %w", err)
	}
	dispatcher := transport.NewDispatcher(registry, log, transport.ServerInfo{
		Name:    serverName,
		Version: serverVersion,
	})

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AGENTDESK_TRANSPORT")))
	switch mode {
	case "", "stdio":
		log.Info("serving on stdio", zap.String("session", dispatcher.SessionID()))
		return transport.NewStdioServer(dispatcher, os.Stdin, os.Stdout, log).Run(ctx)
	case "http":
		addr := os.Getenv("AGENTDESK_ADDR")
		if addr == "" {
			addr = ":8080"
		}
		server := transport.NewHTTPServer(dispatcher, store, transport.HTTPConfig{
			APIKey:          os.Getenv("AGENTDESK_API_KEY"),
			RateLimitMax:    intEnv("AGENTDESK_RATE_LIMIT_MAX", 0),
			RateLimitWindow: durationEnv("AGENTDESK_RATE_LIMIT_WINDOW", time.Minute),
			MaxBodyBytes:    int64Env("AGENTDESK_MAX_BODY_BYTES", 0),
		}, log)
		log.Info("serving on http", zap.String("addr", addr), zap.String("session", dispatcher.SessionID()))
		err := server.ListenAndServe(ctx, addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unsupported AGENTDESK_TRANSPORT: %s", mode)
	}
}

func buildStateBackendFromEnv() (agentdesk.StateBackend, error) {
	profileDSN, err := backendProfileDefaults()
	if err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(os.Getenv("AGENTDESK_STATE_BACKEND_DSN"))
	stateFile := strings.TrimSpace(os.Getenv("AGENTDESK_STATE_FILE"))
	switch {
	case dsn != "":
		return agentdesk.BuildStateBackendFromDSN(dsn)
	case stateFile != "":
		return agentdesk.BuildStateBackendFromDSN(stateFile)
	case profileDSN != "":
		return agentdesk.BuildStateBackendFromDSN(profileDSN)
	default:
		return nil, nil
	}
}

func backendProfileDefaults() (string, error) {
	profile := strings.ToLower(strings.TrimSpace(os.Getenv("AGENTDESK_BACKEND_PROFILE")))
	dataDir := strings.TrimSpace(os.Getenv("AGENTDESK_DATA_DIR"))
	if dataDir == "" {
		dataDir = ".agentdesk"
	}
	switch profile {
	case "", "custom":
		return "", nil
	case "memory", "inmemory":
		return "memory://", nil
	case "durable-local", "local-durable":
		return "file://" + filepath.Join(dataDir, "state.json"), nil
	case "production", "prod":
		dsn := strings.TrimSpace(os.Getenv("AGENTDESK_POSTGRES_DSN"))
		if dsn == "" {
			return "", fmt.Errorf("AGENTDESK_POSTGRES_DSN is required when AGENTDESK_BACKEND_PROFILE=%s", profile)
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported AGENTDESK_BACKEND_PROFILE: %s", profile)
	}
}

func intEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func int64Env(name string, fallback int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func boolEnv(name string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
