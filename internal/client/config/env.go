package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/merrycards/merry/internal/client/capture"
)

const (
	envBaseURL        = "MERRY_BASE_URL"
	envDataDir        = "MERRY_DATA_DIR"
	envRequestTimeout = "MERRY_REQUEST_TIMEOUT"
	envLogLevel       = "MERRY_LOG_LEVEL"
	envCropPreset     = "MERRY_CROP_PRESET"
)

// parseEnv overlays Config with MERRY_* variables. Values from the process
// environment win over those in the dotenv file; a missing dotenv file is
// not an error. The process environment is never modified.
//
// MERRY_REQUEST_TIMEOUT accepts a Go duration ("45s") or whole seconds ("45").
func parseEnv(cfg *Config, dotenvPath string) {
	file := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			panic(fmt.Errorf("read %s: %w", dotenvPath, err))
		}
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file[key]
	}

	if v := lookup(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := lookup(envDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := lookup(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup(envRequestTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", envRequestTimeout, err))
		}
		cfg.RequestTimeout = d
	}
	if v := lookup(envCropPreset); v != "" {
		p, ok := capture.PolicyByName(v)
		if !ok {
			panic(fmt.Errorf("%s: unknown crop preset %q", envCropPreset, v))
		}
		cfg.Crop = p
	}
}

func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
