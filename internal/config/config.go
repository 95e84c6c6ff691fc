package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	BackendAddress           string
	DeviceName               string
	SessionDBPath            string
	CancelReasons            []string
	NotificationPollInterval time.Duration
	LocationReportInterval   time.Duration
	ShutdownTimeout          time.Duration
}

const (
	defaultDeviceName               = "riderApp"
	defaultSessionDBPath            = "riderapp.db"
	defaultNotificationPollInterval = 30 * time.Second
	defaultLocationReportInterval   = 15 * time.Second
	defaultShutdownTimeout          = 10 * time.Second
)

// Load parses configuration from a .env file (when present), environment
// variables, and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		BackendAddress:           getString(lookup, "BACKEND_ADDRESS", ""),
		DeviceName:               getString(lookup, "DEVICE_NAME", defaultDeviceName),
		SessionDBPath:            getString(lookup, "SESSION_DB_PATH", defaultSessionDBPath),
		CancelReasons:            getList(lookup, "CANCEL_REASONS"),
		NotificationPollInterval: getDuration(lookup, "NOTIFICATION_POLL_INTERVAL", defaultNotificationPollInterval),
		LocationReportInterval:   getDuration(lookup, "LOCATION_REPORT_INTERVAL", defaultLocationReportInterval),
		ShutdownTimeout:          getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("riderapp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		notificationPollStr = cfg.NotificationPollInterval.String()
		locationReportStr   = cfg.LocationReportInterval.String()
		shutdownTimeoutStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.BackendAddress, "b", cfg.BackendAddress, "Platform backend base URL")
	fs.StringVar(&cfg.DeviceName, "device-name", cfg.DeviceName, "Device name sent with login")
	fs.StringVar(&cfg.SessionDBPath, "session-db", cfg.SessionDBPath, "Path to the local session database")
	fs.StringVar(&notificationPollStr, "notification-poll", notificationPollStr, "Interval between notification polls")
	fs.StringVar(&locationReportStr, "location-interval", locationReportStr, "Interval between location reports")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.NotificationPollInterval, err = time.ParseDuration(notificationPollStr); err != nil {
		return nil, fmt.Errorf("invalid notification poll interval: %w", err)
	}
	if cfg.LocationReportInterval, err = time.ParseDuration(locationReportStr); err != nil {
		return nil, fmt.Errorf("invalid location report interval: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.BackendAddress == "" {
		return nil, fmt.Errorf("backend address is required (BACKEND_ADDRESS or -b)")
	}
	if cfg.NotificationPollInterval <= 0 {
		return nil, fmt.Errorf("notification poll interval must be positive")
	}
	if cfg.LocationReportInterval <= 0 {
		return nil, fmt.Errorf("location report interval must be positive")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(lookup envLookup, key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getList splits a comma-separated env value, dropping empty entries. An
// empty result means the caller's default applies.
func getList(lookup envLookup, key string) []string {
	value, ok := lookup(key)
	if !ok || value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
