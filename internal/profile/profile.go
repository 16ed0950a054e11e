package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the runtime configuration for the client.
type Profile struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Data is the local data directory holding the key-value database.
	Data string
	// DSN points to where savvy stores its local state.
	DSN string
	// Driver is the local storage driver (sqlite or memory).
	Driver string
	// ServerURL is the origin of the Savvy API.
	ServerURL string
	// Version is the current version of the client.
	Version string

	// RequestTimeout bounds every API call. SAVVY_REQUEST_TIMEOUT, seconds.
	RequestTimeout time.Duration
	// CacheMaxAge is how long cached resource lists stay fresh. SAVVY_CACHE_MAX_AGE, seconds.
	CacheMaxAge time.Duration
	// RequestsPerSecond rate-limits outbound API calls. 0 disables. SAVVY_REQUESTS_PER_SECOND.
	RequestsPerSecond float64
}

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheMaxAge    = 5 * time.Minute

	prodServerURL = "https://savvy-app.vercel.app"
	devServerURL  = "http://localhost:3001"
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SAVVY_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("SAVVY_MODE", p.Mode)
	p.Data = getEnvOrDefault("SAVVY_DATA", p.Data)
	p.DSN = getEnvOrDefault("SAVVY_DSN", p.DSN)
	p.Driver = getEnvOrDefault("SAVVY_DRIVER", p.Driver)
	p.ServerURL = getEnvOrDefault("SAVVY_SERVER_URL", p.ServerURL)

	if v := os.Getenv("SAVVY_REQUEST_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			p.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("SAVVY_CACHE_MAX_AGE"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			p.CacheMaxAge = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("SAVVY_REQUESTS_PER_SECOND"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps >= 0 {
			p.RequestsPerSecond = rps
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Mode == "demo" {
		// Demo sessions keep everything in process memory.
		p.Driver = "memory"
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = DefaultRequestTimeout
	}
	if p.CacheMaxAge <= 0 {
		p.CacheMaxAge = DefaultCacheMaxAge
	}

	if p.ServerURL == "" {
		if p.Mode == "prod" {
			p.ServerURL = prodServerURL
		} else {
			p.ServerURL = devServerURL
		}
	}
	p.ServerURL = strings.TrimRight(p.ServerURL, "/")

	if p.Driver == "memory" {
		return nil
	}

	if p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "savvy")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(err, "failed to resolve home directory")
			}
			p.Data = filepath.Join(home, ".savvy")
		}
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
				return err
			}
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("savvy_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
