package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/merrycards/merry/internal/buildinfo"
	"github.com/merrycards/merry/internal/client/capture"
)

// Config holds runtime settings for the merry CLI.
//
// Fields:
//   - BaseURL: root of the recognition/collection HTTP API.
//   - DataDir: where the local database, device key and scratch images live.
//   - RequestTimeout: per-request HTTP timeout, 0 disables it.
//   - LogLevel: debug, info, warn or error.
//   - Crop: how photos are resized and cropped before upload.
type Config struct {
	BaseURL        string
	DataDir        string
	RequestTimeout time.Duration
	LogLevel       string
	Crop           capture.CropPolicy
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = buildinfo.DefaultBaseURL
	c.DataDir = defaultDataDir()
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.Crop = capture.DefaultCropPolicy
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "merry")
	}
	return ".merry"
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	return c.Crop.Validate()
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string { return filepath.Join(c.DataDir, "merry.db") }

// DeviceKeyPath is the device secret next to the database.
func (c *Config) DeviceKeyPath() string { return filepath.Join(c.DataDir, "device.key") }

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), a JSON/YAML file and command-line flags.
// Later sources take precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseFile(cfg)
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
