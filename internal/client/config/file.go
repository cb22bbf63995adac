package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/merrycards/merry/internal/client/capture"
	"github.com/merrycards/merry/internal/flagx"
	"github.com/merrycards/merry/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// RequestTimeout relies on timex.Duration so files can carry "30s" or a
// bare number of seconds, like MERRY_REQUEST_TIMEOUT and -t. Empty fields
// leave the current value alone.
type FileConfig struct {
	BaseURL        string              `json:"base_url" yaml:"base_url"`
	DataDir        string              `json:"data_dir" yaml:"data_dir"`
	RequestTimeout *timex.Duration     `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string              `json:"log_level" yaml:"log_level"`
	CropPreset     string              `json:"crop_preset" yaml:"crop_preset"`
	Crop           *capture.CropPolicy `json:"crop" yaml:"crop"`
}

// parseFile overlays Config with values from the file named by -c/-config.
// Files ending in .yaml or .yml are YAML, anything else is JSON. A crop
// block wins over crop_preset. Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(fmt.Errorf("parse %s: %w", path, err))
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.CropPreset != "" {
		p, ok := capture.PolicyByName(fc.CropPreset)
		if !ok {
			panic(fmt.Errorf("unknown crop preset %q", fc.CropPreset))
		}
		cfg.Crop = p
	}
	if fc.Crop != nil {
		cfg.Crop = *fc.Crop
	}
}
